package quiz

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Yashshukla011/quizegame/internal/model"
)

func newTestRegistry(t *testing.T, idleTimeout time.Duration) *Registry {
	t.Helper()
	g := NewRegistry(nil, nil, idleTimeout)
	t.Cleanup(g.Close)
	return g
}

func TestCreateAssignsWellFormedCode(t *testing.T) {
	g := newTestRegistry(t, 0)

	room, err := g.Create(testQuestions(3), model.RoomSettings{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	code := room.Code()
	if len(code) != codeLength {
		t.Fatalf("code %q has length %d, want %d", code, len(code), codeLength)
	}
	for _, c := range code {
		if !strings.ContainsRune(codeAlphabet, c) {
			t.Fatalf("code %q contains %q outside the alphabet", code, c)
		}
	}

	got, err := g.Get(code)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != room {
		t.Fatal("get returned a different room")
	}
}

func TestCreateNormalizesSettings(t *testing.T) {
	g := newTestRegistry(t, 0)

	room, err := g.Create(testQuestions(3), model.RoomSettings{Mode: model.ModeTurnBased, MaxPlayers: 8})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	snap := room.Snapshot()
	if snap.Mode != model.ModeTurnBased {
		t.Fatalf("mode = %s", snap.Mode)
	}
	if snap.Capacity != 2 {
		t.Fatalf("turn-based capacity = %d, want 2", snap.Capacity)
	}

	room, err = g.Create(testQuestions(3), model.RoomSettings{MaxPlayers: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := room.Snapshot().Capacity; got != DefaultCapacity {
		t.Fatalf("capacity floor = %d, want %d", got, DefaultCapacity)
	}
}

func TestConcurrentCreateCodesAreUnique(t *testing.T) {
	const n = 100

	g := newTestRegistry(t, 0)

	var wg sync.WaitGroup
	codes := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			room, err := g.Create(testQuestions(1), model.RoomSettings{})
			if err != nil {
				t.Errorf("create %d: %v", i, err)
				return
			}
			codes[i] = room.Code()
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, code := range codes {
		if seen[code] {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = true
	}
	if g.Len() != n {
		t.Fatalf("registry len = %d, want %d", g.Len(), n)
	}
}

func TestGetUnknownCode(t *testing.T) {
	g := newTestRegistry(t, 0)
	if _, err := g.Get("NOPE1"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("got %v, want ErrRoomNotFound", err)
	}
}

func TestRemoveClosesRoom(t *testing.T) {
	g := newTestRegistry(t, 0)

	room, err := g.Create(testQuestions(1), model.RoomSettings{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	code := room.Code()

	g.Remove(code)
	if _, err := g.Get(code); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("room still resolvable after remove: %v", err)
	}
	// Closed rooms refuse all further actions.
	if _, _, err := room.Join("p1", "Alice"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("join on closed room: got %v, want ErrRoomNotFound", err)
	}
	g.Remove(code) // second remove is a no-op
}

func TestReapDropsIdleRooms(t *testing.T) {
	g := newTestRegistry(t, time.Hour)

	idle, err := g.Create(testQuestions(1), model.RoomSettings{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	busy, err := g.Create(testQuestions(1), model.RoomSettings{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Touch the busy room so only the idle one crosses the threshold.
	time.Sleep(10 * time.Millisecond)
	busy.Snapshot()

	g.reapOnce(idle.IdleSince().Add(time.Hour))

	if _, err := g.Get(idle.Code()); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("idle room survived reap: %v", err)
	}
	if _, err := g.Get(busy.Code()); err != nil {
		t.Fatalf("busy room reaped: %v", err)
	}
}
