package quiz

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Yashshukla011/quizegame/internal/model"
)

const (
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength      = 5
	maxCodeAttempts = 64

	// DefaultCapacity matches the original two-player battle rooms.
	DefaultCapacity = 2
)

// Registry is the process-wide room table. Code assignment is
// serialized under the registry lock, so no two concurrent Create
// calls can ever return the same code.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	bc          Broadcaster
	log         *zap.Logger
	idleTimeout time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

// NewRegistry creates a registry and starts its reaper. Rooms idle for
// longer than idleTimeout (finished or abandoned) are torn down.
func NewRegistry(bc Broadcaster, log *zap.Logger, idleTimeout time.Duration) *Registry {
	g := &Registry{
		rooms:       make(map[string]*Room),
		bc:          bc,
		log:         log,
		idleTimeout: idleTimeout,
		done:        make(chan struct{}),
	}
	if idleTimeout > 0 {
		go g.reap()
	}
	return g
}

// Create allocates a fresh room in WAITING and returns it. The scoring
// policy follows the settings: a per-question timer selects
// time-decayed scoring, otherwise flat.
func (g *Registry) Create(questions []model.Question, settings model.RoomSettings) (*Room, error) {
	if settings.Mode == "" {
		settings.Mode = model.ModeBroadcast
	}
	if settings.Mode == model.ModeTurnBased {
		settings.MaxPlayers = 2
	}
	if settings.MaxPlayers < DefaultCapacity {
		settings.MaxPlayers = DefaultCapacity
	}

	var policy ScoringPolicy = FlatScoring{}
	if settings.TimePerQuestionSec > 0 {
		policy = TimeDecayScoring{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	code, err := g.uniqueCode()
	if err != nil {
		return nil, err
	}
	room := newRoom(code, questions, settings, policy, g.bc, g.log)
	g.rooms[code] = room
	if g.log != nil {
		g.log.Info("room created",
			zap.String("room", code),
			zap.String("mode", string(settings.Mode)),
			zap.Int("capacity", settings.MaxPlayers),
			zap.Int("questions", len(questions)))
	}
	return room, nil
}

// Get looks up a room by code.
func (g *Registry) Get(code string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Remove tears a room down and drops it from the table.
func (g *Registry) Remove(code string) {
	g.mu.Lock()
	room, ok := g.rooms[code]
	delete(g.rooms, code)
	g.mu.Unlock()
	if ok {
		room.Close()
		if g.log != nil {
			g.log.Info("room removed", zap.String("room", code))
		}
	}
}

// Len returns the number of live rooms.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// Close stops the reaper and tears down every room.
func (g *Registry) Close() {
	g.stopOnce.Do(func() { close(g.done) })
	g.mu.Lock()
	rooms := make([]*Room, 0, len(g.rooms))
	for code, room := range g.rooms {
		rooms = append(rooms, room)
		delete(g.rooms, code)
	}
	g.mu.Unlock()
	for _, room := range rooms {
		room.Close()
	}
}

func (g *Registry) reap() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-g.done:
			return
		case now := <-ticker.C:
			g.reapOnce(now)
		}
	}
}

func (g *Registry) reapOnce(now time.Time) {
	g.mu.Lock()
	var stale []*Room
	for code, room := range g.rooms {
		if now.Sub(room.IdleSince()) >= g.idleTimeout {
			stale = append(stale, room)
			delete(g.rooms, code)
		}
	}
	g.mu.Unlock()
	for _, room := range stale {
		room.Close()
		if g.log != nil {
			g.log.Info("room reaped",
				zap.String("room", room.Code()),
				zap.Bool("finished", room.Finished()))
		}
	}
}

// uniqueCode draws short human-typeable codes until one is free.
// Callers hold the registry lock.
func (g *Registry) uniqueCode() (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		if _, taken := g.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", ErrAllocation
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
