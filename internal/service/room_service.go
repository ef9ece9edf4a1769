package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yashshukla011/quizegame/internal/cache"
	"github.com/Yashshukla011/quizegame/internal/model"
	"github.com/Yashshukla011/quizegame/internal/quiz"
	"github.com/Yashshukla011/quizegame/internal/trivia"
)

// RoomService orchestrates room lifecycle around the registry: question
// sourcing at creation, join tokens, host-gated teardown, and the live
// leaderboard read path.
type RoomService struct {
	registry    *quiz.Registry
	source      trivia.Source
	authSvc     *AuthService
	leaderboard cache.LeaderboardCache
	log         *zap.Logger
}

// NewRoomService creates a room service. leaderboard may be nil when
// Redis is not configured; standings then come from the room snapshot.
func NewRoomService(registry *quiz.Registry, source trivia.Source, authSvc *AuthService, leaderboard cache.LeaderboardCache, log *zap.Logger) *RoomService {
	return &RoomService{
		registry:    registry,
		source:      source,
		authSvc:     authSvc,
		leaderboard: leaderboard,
		log:         log,
	}
}

// CreateRoom fetches a question list and allocates a fresh room.
// Question Source failures are absorbed inside the source; room
// creation never blocks on the trivia dependency.
func (s *RoomService) CreateRoom(ctx context.Context, settings model.RoomSettings) (model.RoomSnapshot, error) {
	count := settings.QuestionCount
	if count <= 0 {
		count = trivia.DefaultCount
	}
	questions := s.source.Fetch(ctx, count, settings.Difficulty)

	room, err := s.registry.Create(questions, settings)
	if err != nil {
		return model.RoomSnapshot{}, fmt.Errorf("create room: %w", err)
	}
	return room.Snapshot(), nil
}

// JoinRoom seats (or re-seats) a player and returns a room-scoped
// token. An empty playerID gets a fresh identity.
func (s *RoomService) JoinRoom(ctx context.Context, code, playerID, name string) (*model.PlayerJoinResponse, error) {
	room, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}

	if playerID == "" {
		playerID = "p_" + uuid.New().String()[:8]
	}
	if name == "" {
		name = "Player"
	}

	seat, snap, err := room.Join(playerID, name)
	if err != nil {
		return nil, err
	}

	token, err := s.authSvc.GeneratePlayerToken(code, playerID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &model.PlayerJoinResponse{
		PlayerID: playerID,
		Seat:     seat,
		Token:    token,
		Room:     snap,
	}, nil
}

// GetRoom returns a consistent snapshot of the room.
func (s *RoomService) GetRoom(code string) (model.RoomSnapshot, error) {
	room, err := s.registry.Get(code)
	if err != nil {
		return model.RoomSnapshot{}, err
	}
	return room.Snapshot(), nil
}

// StartGame moves the room into play. Host only.
func (s *RoomService) StartGame(code, playerID string) error {
	room, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	return room.Start(playerID)
}

// SubmitAnswer records a player's answer for the current round.
func (s *RoomService) SubmitAnswer(code, playerID, option string) error {
	room, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	return room.Submit(playerID, option)
}

// SetConnected flips a player's connection flag without vacating the
// seat. Unknown rooms are ignored; the socket may outlive the room.
func (s *RoomService) SetConnected(code, playerID string, connected bool) {
	room, err := s.registry.Get(code)
	if err != nil {
		return
	}
	if err := room.SetConnected(playerID, connected); err != nil && s.log != nil {
		s.log.Debug("connection flag not applied",
			zap.String("room", code),
			zap.String("player", playerID),
			zap.Error(err))
	}
}

// RelayChat forwards a chat message to the whole room.
func (s *RoomService) RelayChat(code string, msg model.ChatMessagePayload) error {
	room, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	room.Relay(msg)
	return nil
}

// Teardown removes a room. Only the host may do it.
func (s *RoomService) Teardown(code, playerID string) error {
	room, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	snap := room.Snapshot()
	if snap.HostPlayerID != playerID {
		return quiz.ErrNotHost
	}
	s.registry.Remove(code)
	if s.leaderboard != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.leaderboard.Delete(ctx, code); err != nil && s.log != nil {
			s.log.Warn("leaderboard cleanup failed", zap.String("room", code), zap.Error(err))
		}
	}
	return nil
}

// LeaderboardEntry is a standings row with the display name resolved.
type LeaderboardEntry struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

// Leaderboard returns live standings for a room: the Redis mirror when
// available, otherwise computed from the room snapshot. Ties keep join
// order either way.
func (s *RoomService) Leaderboard(ctx context.Context, code string) ([]LeaderboardEntry, error) {
	room, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}
	snap := room.Snapshot()
	names := make(map[string]string, len(snap.Players))
	for _, p := range snap.Players {
		names[p.ID] = p.Name
	}

	if s.leaderboard != nil {
		cached, err := s.leaderboard.GetTop(ctx, code, len(snap.Players))
		if err == nil && len(cached) > 0 {
			entries := make([]LeaderboardEntry, len(cached))
			for i, e := range cached {
				entries[i] = LeaderboardEntry{
					PlayerID: e.PlayerID,
					Name:     names[e.PlayerID],
					Score:    e.Score,
					Rank:     e.Rank,
				}
			}
			return entries, nil
		}
		if err != nil && s.log != nil {
			s.log.Warn("leaderboard read failed, using snapshot", zap.String("room", code), zap.Error(err))
		}
	}

	players := snap.Players
	sort.SliceStable(players, func(i, j int) bool { return players[i].Score > players[j].Score })
	entries := make([]LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = LeaderboardEntry{PlayerID: p.ID, Name: p.Name, Score: p.Score, Rank: i + 1}
	}
	return entries, nil
}
