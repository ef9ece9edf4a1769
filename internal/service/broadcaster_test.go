package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Yashshukla011/quizegame/internal/cache"
	"github.com/Yashshukla011/quizegame/internal/model"
)

type recordingHub struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHub) BroadcastToRoom(_, event string, _ any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *recordingHub) BroadcastToPlayer(_, _, event string, _ any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "player:"+event)
}

type mirrorLeaderboard struct {
	updated chan []cache.LeaderboardEntry
}

func (m *mirrorLeaderboard) UpdateScores(_ context.Context, _ string, entries []cache.LeaderboardEntry) error {
	m.updated <- entries
	return nil
}

func (m *mirrorLeaderboard) GetTop(context.Context, string, int) ([]cache.LeaderboardEntry, error) {
	return nil, nil
}

func (m *mirrorLeaderboard) Delete(context.Context, string) error { return nil }

func TestFanoutForwardsToHub(t *testing.T) {
	hub := &recordingHub{}
	f := NewEventFanout(hub, nil, nil, nil)

	f.BroadcastToRoom("AAAAA", model.EventRosterUpdated, model.RosterUpdatedPayload{})
	f.BroadcastToPlayer("AAAAA", "p1", model.EventError, model.ErrorPayload{Code: "NOT_YOUR_TURN"})

	hub.mu.Lock()
	defer hub.mu.Unlock()
	if len(hub.events) != 2 || hub.events[0] != model.EventRosterUpdated || hub.events[1] != "player:"+model.EventError {
		t.Fatalf("events = %v", hub.events)
	}
}

func TestFanoutMirrorsScores(t *testing.T) {
	lb := &mirrorLeaderboard{updated: make(chan []cache.LeaderboardEntry, 1)}
	f := NewEventFanout(&recordingHub{}, lb, nil, nil)

	f.BroadcastToRoom("AAAAA", model.EventScoreUpdated, model.ScoreUpdatedPayload{
		RoomCode: "AAAAA",
		Players: []model.PlayerState{
			{ID: "p1", Score: 10},
			{ID: "p2", Score: 0},
		},
	})

	select {
	case entries := <-lb.updated:
		if len(entries) != 2 || entries[0].PlayerID != "p1" || entries[0].Score != 10 {
			t.Fatalf("mirrored entries: %+v", entries)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("score mirror never ran")
	}
}

func TestFanoutSkipsMirrorWhenUnconfigured(t *testing.T) {
	hub := &recordingHub{}
	f := NewEventFanout(hub, nil, nil, nil)

	// Must not panic without Redis or Mongo wired.
	f.BroadcastToRoom("AAAAA", model.EventScoreUpdated, model.ScoreUpdatedPayload{RoomCode: "AAAAA"})
	f.BroadcastToRoom("AAAAA", model.EventGameFinished, model.GameFinishedPayload{RoomCode: "AAAAA"})

	hub.mu.Lock()
	defer hub.mu.Unlock()
	if len(hub.events) != 2 {
		t.Fatalf("events = %v", hub.events)
	}
}
