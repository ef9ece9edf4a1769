// Package trivia supplies ordered question lists for new rooms. The
// Open Trivia DB is treated as a black box that fails soft: any error
// substitutes a built-in fallback list so room creation never blocks
// on the dependency.
package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Yashshukla011/quizegame/internal/model"
)

const (
	// DefaultBaseURL is the Open Trivia DB endpoint the original app uses.
	DefaultBaseURL = "https://opentdb.com"
	// DefaultCount matches the original battle rooms (5 questions).
	DefaultCount = 5

	requestTimeout = 10 * time.Second
)

// Source returns a fixed-size ordered list of questions for one room.
type Source interface {
	Fetch(ctx context.Context, count int, difficulty string) []model.Question
}

// Client fetches multiple-choice questions from the Open Trivia DB.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	log *zap.Logger
}

// NewClient creates a trivia client with sane timeouts.
func NewClient(log *zap.Logger) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []apiQuestion `json:"results"`
}

type apiQuestion struct {
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Fetch returns count questions, each with its option order fixed once
// so every observer of the room sees the same list. On any failure the
// built-in fallback list is returned instead.
func (c *Client) Fetch(ctx context.Context, count int, difficulty string) []model.Question {
	if count <= 0 {
		count = DefaultCount
	}

	questions, err := c.fetch(ctx, count, difficulty)
	if err != nil {
		if c.log != nil {
			c.log.Warn("trivia fetch failed, using fallback", zap.Error(err))
		}
		return Fallback(count)
	}
	return questions
}

func (c *Client) fetch(ctx context.Context, count int, difficulty string) ([]model.Question, error) {
	params := url.Values{}
	params.Set("amount", fmt.Sprint(count))
	params.Set("type", "multiple")
	if difficulty != "" {
		params.Set("difficulty", difficulty)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api.php?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trivia api status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.ResponseCode != 0 || len(body.Results) == 0 {
		return nil, fmt.Errorf("trivia api response code %d with %d results", body.ResponseCode, len(body.Results))
	}

	questions := make([]model.Question, 0, len(body.Results))
	for _, q := range body.Results {
		questions = append(questions, buildQuestion(q))
	}
	return questions, nil
}

// buildQuestion decodes the HTML-entity-encoded payload and inserts
// the correct answer among the distractors at a random position. The
// resulting order is final.
func buildQuestion(q apiQuestion) model.Question {
	correct := html.UnescapeString(q.CorrectAnswer)
	options := make([]string, 0, len(q.IncorrectAnswers)+1)
	for _, a := range q.IncorrectAnswers {
		options = append(options, html.UnescapeString(a))
	}
	at := rand.Intn(len(options) + 1)
	options = append(options[:at], append([]string{correct}, options[at:]...)...)

	return model.Question{
		Prompt:        html.UnescapeString(q.Question),
		Options:       options,
		CorrectOption: correct,
	}
}

// Fallback is the fixed question list the original app ships for when
// the trivia service is unavailable or rate-limited.
func Fallback(count int) []model.Question {
	all := []model.Question{
		{
			Prompt:        "Which F1 driver has 7 world titles?",
			Options:       []string{"Senna", "Alonso", "Schumacher", "Prost"},
			CorrectOption: "Schumacher",
		},
		{
			Prompt:        "Which team does Max Verstappen drive for?",
			Options:       []string{"Ferrari", "Red Bull", "Mercedes", "McLaren"},
			CorrectOption: "Red Bull",
		},
		{
			Prompt:        "What is the capital of France?",
			Options:       []string{"Paris", "Berlin", "London", "Madrid"},
			CorrectOption: "Paris",
		},
		{
			Prompt:        "Which planet is known as the Red Planet?",
			Options:       []string{"Mars", "Venus", "Jupiter", "Saturn"},
			CorrectOption: "Mars",
		},
		{
			Prompt:        "Who won the FIFA World Cup in 2022?",
			Options:       []string{"France", "Argentina", "Brazil", "Germany"},
			CorrectOption: "Argentina",
		},
	}
	if count > 0 && count < len(all) {
		return all[:count]
	}
	return all
}
