package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Yashshukla011/quizegame/internal/cache"
	"github.com/Yashshukla011/quizegame/internal/model"
	"github.com/Yashshukla011/quizegame/internal/quiz"
	"github.com/Yashshukla011/quizegame/internal/repository"
)

const mirrorTimeout = 5 * time.Second

// EventFanout sits between rooms and the transport. Every event is
// forwarded to the WebSocket hub; score and completion events are also
// mirrored into Redis and Mongo. Mirrors are best effort: failures are
// logged and never reach the room.
type EventFanout struct {
	hub         quiz.Broadcaster
	leaderboard cache.LeaderboardCache
	matches     repository.MatchRepo
	log         *zap.Logger
}

// NewEventFanout creates a fanout. leaderboard and matches may be nil
// when Redis or Mongo are not configured.
func NewEventFanout(hub quiz.Broadcaster, leaderboard cache.LeaderboardCache, matches repository.MatchRepo, log *zap.Logger) *EventFanout {
	return &EventFanout{
		hub:         hub,
		leaderboard: leaderboard,
		matches:     matches,
		log:         log,
	}
}

// BroadcastToRoom implements quiz.Broadcaster.
func (f *EventFanout) BroadcastToRoom(roomCode, event string, payload any) {
	if f.hub != nil {
		f.hub.BroadcastToRoom(roomCode, event, payload)
	}
	f.mirror(event, payload)
}

// BroadcastToPlayer implements quiz.Broadcaster.
func (f *EventFanout) BroadcastToPlayer(roomCode, playerID, event string, payload any) {
	if f.hub != nil {
		f.hub.BroadcastToPlayer(roomCode, playerID, event, payload)
	}
}

func (f *EventFanout) mirror(event string, payload any) {
	switch event {
	case model.EventScoreUpdated:
		p, ok := payload.(model.ScoreUpdatedPayload)
		if !ok || f.leaderboard == nil {
			return
		}
		go f.mirrorScores(p)
	case model.EventGameFinished:
		p, ok := payload.(model.GameFinishedPayload)
		if !ok || f.matches == nil {
			return
		}
		go f.archiveMatch(p)
	}
}

func (f *EventFanout) mirrorScores(p model.ScoreUpdatedPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	entries := make([]cache.LeaderboardEntry, len(p.Players))
	for i, player := range p.Players {
		entries[i] = cache.LeaderboardEntry{PlayerID: player.ID, Score: player.Score}
	}
	if err := f.leaderboard.UpdateScores(ctx, p.RoomCode, entries); err != nil && f.log != nil {
		f.log.Warn("leaderboard mirror failed", zap.String("room", p.RoomCode), zap.Error(err))
	}
}

func (f *EventFanout) archiveMatch(p model.GameFinishedPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	record := &model.MatchRecord{
		RoomCode:      p.RoomCode,
		Mode:          p.Mode,
		QuestionCount: p.Total,
		Rankings:      p.Rankings,
		FinishedAt:    time.Now(),
	}
	if err := f.matches.Record(ctx, record); err != nil && f.log != nil {
		f.log.Warn("match archive failed", zap.String("room", p.RoomCode), zap.Error(err))
	}
}
