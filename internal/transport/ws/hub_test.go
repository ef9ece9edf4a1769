package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func recv(t *testing.T, ch chan []byte) Message {
	t.Helper()
	select {
	case data, ok := <-ch:
		if !ok {
			t.Fatal("send channel closed")
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
	}
	return Message{}
}

func expectSilence(t *testing.T, ch chan []byte) {
	t.Helper()
	select {
	case data := <-ch:
		t.Fatalf("unexpected delivery: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubRoomFanout(t *testing.T) {
	h := NewHub(nil)

	alice := &Connection{RoomCode: "AAAAA", PlayerID: "p1", Send: make(chan []byte, 4)}
	bob := &Connection{RoomCode: "AAAAA", PlayerID: "p2", Send: make(chan []byte, 4)}
	outsider := &Connection{RoomCode: "BBBBB", PlayerID: "p3", Send: make(chan []byte, 4)}
	h.Register(alice)
	h.Register(bob)
	h.Register(outsider)

	h.BroadcastToRoom("AAAAA", "score_updated", map[string]int{"n": 1})

	for _, conn := range []*Connection{alice, bob} {
		msg := recv(t, conn.Send)
		if msg.Type != "score_updated" {
			t.Fatalf("type = %q", msg.Type)
		}
	}
	expectSilence(t, outsider.Send)
}

func TestHubPlayerTargeting(t *testing.T) {
	h := NewHub(nil)

	alice := &Connection{RoomCode: "AAAAA", PlayerID: "p1", Send: make(chan []byte, 4)}
	bob := &Connection{RoomCode: "AAAAA", PlayerID: "p2", Send: make(chan []byte, 4)}
	h.Register(alice)
	h.Register(bob)

	h.BroadcastToPlayer("AAAAA", "p2", "error", map[string]string{"code": "NOT_YOUR_TURN"})

	msg := recv(t, bob.Send)
	if msg.Type != "error" {
		t.Fatalf("type = %q", msg.Type)
	}
	expectSilence(t, alice.Send)
}

func TestHubReconnectReplacesSeatConnection(t *testing.T) {
	h := NewHub(nil)

	stale := &Connection{RoomCode: "AAAAA", PlayerID: "p1", Send: make(chan []byte, 4)}
	fresh := &Connection{RoomCode: "AAAAA", PlayerID: "p1", Send: make(chan []byte, 4)}
	h.Register(stale)
	h.Register(fresh)

	// The stale channel is closed on replacement.
	select {
	case _, ok := <-stale.Send:
		if ok {
			t.Fatal("stale connection got data instead of close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stale connection not closed")
	}

	h.BroadcastToRoom("AAAAA", "roster_updated", nil)
	if msg := recv(t, fresh.Send); msg.Type != "roster_updated" {
		t.Fatalf("type = %q", msg.Type)
	}

	// Unregistering the stale handle must not evict the fresh one.
	if h.Unregister(stale) {
		t.Fatal("stale unregister reported the seat as vacated")
	}
	h.BroadcastToRoom("AAAAA", "roster_updated", nil)
	if msg := recv(t, fresh.Send); msg.Type != "roster_updated" {
		t.Fatalf("type after stale unregister = %q", msg.Type)
	}

	if !h.Unregister(fresh) {
		t.Fatal("current unregister not reported")
	}
}

// A reconnect must never leave the player flagged as disconnected: the
// stale pump's teardown runs after the new socket registered, and only
// the current connection's teardown counts as a disconnect.
func TestStaleTeardownDoesNotDisconnectReconnectedPlayer(t *testing.T) {
	h := NewHub(nil)

	old := &Connection{RoomCode: "AAAAA", PlayerID: "p1", Send: make(chan []byte, 4)}
	h.Register(old)

	fresh := &Connection{RoomCode: "AAAAA", PlayerID: "p1", Send: make(chan []byte, 4)}
	h.Register(fresh)

	if h.Unregister(old) {
		t.Fatal("replaced connection's teardown counted as a disconnect")
	}

	// The live socket still receives targeted broadcasts.
	h.BroadcastToPlayer("AAAAA", "p1", "round_started", nil)
	if msg := recv(t, fresh.Send); msg.Type != "round_started" {
		t.Fatalf("type = %q", msg.Type)
	}
}
