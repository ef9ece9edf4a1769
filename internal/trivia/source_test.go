package trivia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(url string) *Client {
	return &Client{BaseURL: url, HTTPClient: http.DefaultClient}
}

func TestFetchDecodesAndShuffles(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{
			"response_code": 0,
			"results": [{
				"question": "What does &quot;HTML&quot; stand for?",
				"correct_answer": "HyperText Markup Language",
				"incorrect_answers": ["Home Tool ML", "Hyperlinks &amp; Text ML", "Hyper Tool ML"]
			}]
		}`))
	}))
	defer srv.Close()

	questions := newTestClient(srv.URL).Fetch(context.Background(), 1, "easy")
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	q := questions[0]
	if q.Prompt != `What does "HTML" stand for?` {
		t.Fatalf("entities not decoded: %q", q.Prompt)
	}
	if len(q.Options) != 4 {
		t.Fatalf("got %d options, want 4", len(q.Options))
	}
	found := false
	for _, o := range q.Options {
		if o == q.CorrectOption {
			found = true
		}
		if o == "Hyperlinks &amp; Text ML" {
			t.Fatalf("distractor entities not decoded: %q", o)
		}
	}
	if !found {
		t.Fatalf("correct option %q missing from options %v", q.CorrectOption, q.Options)
	}

	for _, want := range []string{"amount=1", "type=multiple", "difficulty=easy"} {
		if !strings.Contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestFetchFallsBackOnRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	questions := newTestClient(srv.URL).Fetch(context.Background(), 3, "")
	want := Fallback(3)
	if len(questions) != len(want) {
		t.Fatalf("got %d questions, want fallback of %d", len(questions), len(want))
	}
	if questions[0].Prompt != want[0].Prompt {
		t.Fatalf("got %q, want fallback first question", questions[0].Prompt)
	}
}

func TestFetchFallsBackOnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response_code": 1, "results": []}`))
	}))
	defer srv.Close()

	if got := newTestClient(srv.URL).Fetch(context.Background(), 0, ""); len(got) != DefaultCount {
		t.Fatalf("got %d questions, want %d from fallback", len(got), DefaultCount)
	}
}

func TestFetchFallsBackOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	if got := newTestClient(srv.URL).Fetch(context.Background(), 2, ""); len(got) != 2 {
		t.Fatalf("got %d questions, want 2 from fallback", len(got))
	}
}

func TestFallbackCount(t *testing.T) {
	if got := len(Fallback(2)); got != 2 {
		t.Fatalf("Fallback(2) = %d questions", got)
	}
	if got := len(Fallback(0)); got != 5 {
		t.Fatalf("Fallback(0) = %d questions", got)
	}
	if got := len(Fallback(20)); got != 5 {
		t.Fatalf("Fallback(20) = %d questions, capped at 5", got)
	}
	for _, q := range Fallback(0) {
		found := false
		for _, o := range q.Options {
			if o == q.CorrectOption {
				found = true
			}
		}
		if !found {
			t.Fatalf("fallback %q misses its correct option", q.Prompt)
		}
	}
}
