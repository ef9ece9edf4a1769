package ws

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Message is the WebSocket envelope format, shared by both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Connection represents one participant's WebSocket connection.
type Connection struct {
	RoomCode string
	PlayerID string
	Send     chan []byte
}

// BroadcastMessage addresses an outbound message to a room, or to one
// player within it.
type BroadcastMessage struct {
	RoomCode string
	ToPlayer string // empty means the whole room
	Message  *Message
}

// Hub owns the WebSocket connections per room and fans out room
// events. It implements quiz.Broadcaster. Delivery is best effort: a
// participant with a full send buffer misses the message, and the next
// broadcast or a reconnect reconciles it; the room's state is the
// source of truth.
type unregisterRequest struct {
	conn    *Connection
	removed chan bool
}

type Hub struct {
	conns map[string]map[string]*Connection // roomCode -> playerID -> conn

	register   chan *Connection
	unregister chan *unregisterRequest
	broadcast  chan *BroadcastMessage

	log *zap.Logger
}

// NewHub creates a hub and starts its dispatch loop.
func NewHub(log *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *unregisterRequest),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	h.log = log
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			if h.conns[conn.RoomCode] == nil {
				h.conns[conn.RoomCode] = make(map[string]*Connection)
			}
			// A reconnect replaces the stale connection for the seat.
			if old, ok := h.conns[conn.RoomCode][conn.PlayerID]; ok && old != conn {
				close(old.Send)
			}
			h.conns[conn.RoomCode][conn.PlayerID] = conn
			if h.log != nil {
				h.log.Info("player socket connected",
					zap.String("room", conn.RoomCode),
					zap.String("player", conn.PlayerID))
			}

		case req := <-h.unregister:
			conn := req.conn
			removed := false
			if players, ok := h.conns[conn.RoomCode]; ok {
				if existing, ok := players[conn.PlayerID]; ok && existing == conn {
					delete(players, conn.PlayerID)
					close(conn.Send)
					removed = true
					if len(players) == 0 {
						delete(h.conns, conn.RoomCode)
					}
					if h.log != nil {
						h.log.Info("player socket disconnected",
							zap.String("room", conn.RoomCode),
							zap.String("player", conn.PlayerID))
					}
				}
			}
			req.removed <- removed

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				continue
			}
			players, ok := h.conns[msg.RoomCode]
			if !ok {
				continue
			}
			if msg.ToPlayer != "" {
				if conn, ok := players[msg.ToPlayer]; ok {
					h.send(conn, data)
				}
				continue
			}
			for _, conn := range players {
				h.send(conn, data)
			}
		}
	}
}

func (h *Hub) send(conn *Connection, data []byte) {
	select {
	case conn.Send <- data:
	default:
		// Drop the message if the buffer is full.
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection. It reports whether conn was the
// player's currently registered connection: false means a fresh socket
// already replaced it, so the player is still live and callers must
// not treat the teardown as a disconnect.
func (h *Hub) Unregister(conn *Connection) bool {
	req := &unregisterRequest{conn: conn, removed: make(chan bool, 1)}
	h.unregister <- req
	return <-req.removed
}

// BroadcastToRoom sends an event to everyone in a room (implements
// quiz.Broadcaster).
func (h *Hub) BroadcastToRoom(roomCode, event string, payload any) {
	h.enqueue(roomCode, "", event, payload)
}

// BroadcastToPlayer sends an event to one player (implements
// quiz.Broadcaster).
func (h *Hub) BroadcastToPlayer(roomCode, playerID, event string, payload any) {
	h.enqueue(roomCode, playerID, event, payload)
}

func (h *Hub) enqueue(roomCode, playerID, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		if h.log != nil {
			h.log.Error("marshal event payload", zap.String("event", event), zap.Error(err))
		}
		return
	}
	h.broadcast <- &BroadcastMessage{
		RoomCode: roomCode,
		ToPlayer: playerID,
		Message:  &Message{Type: event, Payload: data},
	}
}
