package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Yashshukla011/quizegame/internal/model"
	"github.com/Yashshukla011/quizegame/internal/quiz"
	"github.com/Yashshukla011/quizegame/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var errMalformed = errors.New("malformed message")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades player connections and pumps inbound actions into
// the room engine.
type Handler struct {
	hub     *Hub
	authSvc *service.AuthService
	roomSvc *service.RoomService
	log     *zap.Logger
}

// NewHandler creates a WebSocket handler.
func NewHandler(hub *Hub, authSvc *service.AuthService, roomSvc *service.RoomService, log *zap.Logger) *Handler {
	return &Handler{
		hub:     hub,
		authSvc: authSvc,
		roomSvc: roomSvc,
		log:     log,
	}
}

// PlayerWS handles GET /v1/ws/rooms/{code}. The token issued on join
// is presented as a query parameter.
func (h *Handler) PlayerWS(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidatePlayerToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if claims.RoomCode != code {
		http.Error(w, "token not valid for this room", http.StatusForbidden)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.log != nil {
			h.log.Warn("websocket upgrade failed", zap.Error(err))
		}
		return
	}

	conn := &Connection{
		RoomCode: code,
		PlayerID: claims.PlayerID,
		Send:     make(chan []byte, 256),
	}

	h.hub.Register(conn)
	h.roomSvc.SetConnected(code, claims.PlayerID, true)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		// A reconnect replaces the registered connection before this
		// pump winds down; only the connection that is still current
		// may flip the player to disconnected.
		if h.hub.Unregister(conn) {
			h.roomSvc.SetConnected(conn.RoomCode, conn.PlayerID, false)
		}
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				if h.log != nil {
					h.log.Warn("websocket read error", zap.Error(err))
				}
			}
			break
		}
		h.dispatch(conn, data)
	}
}

// dispatch routes one inbound envelope into the room's action queue.
// Errors go back to the sender only; they never touch room state.
func (h *Handler) dispatch(conn *Connection, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendError(conn, errMalformed, errMalformed.Error())
		return
	}

	switch msg.Type {
	case model.EventStartGame:
		if err := h.roomSvc.StartGame(conn.RoomCode, conn.PlayerID); err != nil {
			h.sendError(conn, err, err.Error())
		}

	case model.EventSubmitAnswer:
		var payload model.SubmitAnswerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.sendError(conn, errMalformed, "malformed submit_answer payload")
			return
		}
		if err := h.roomSvc.SubmitAnswer(conn.RoomCode, conn.PlayerID, payload.Option); err != nil {
			h.sendError(conn, err, err.Error())
		}

	case model.EventChatMessage:
		var payload model.ChatMessagePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		if err := h.roomSvc.RelayChat(conn.RoomCode, payload); err != nil {
			h.sendError(conn, err, err.Error())
		}

	default:
		if h.log != nil {
			h.log.Debug("unknown message type",
				zap.String("type", msg.Type),
				zap.String("room", conn.RoomCode))
		}
	}
}

func (h *Handler) sendError(conn *Connection, err error, message string) {
	h.hub.BroadcastToPlayer(conn.RoomCode, conn.PlayerID, model.EventError, model.ErrorPayload{
		Code:    quiz.ErrorCode(err),
		Message: message,
	})
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
