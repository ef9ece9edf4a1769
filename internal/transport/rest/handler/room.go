package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Yashshukla011/quizegame/internal/model"
	"github.com/Yashshukla011/quizegame/internal/service"
	"github.com/Yashshukla011/quizegame/internal/transport/rest/middleware"
)

// RoomHandler handles room endpoints.
type RoomHandler struct {
	roomSvc *service.RoomService
}

// NewRoomHandler creates a room handler.
func NewRoomHandler(roomSvc *service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// CreateRoomRequest is the request body for creating a room.
type CreateRoomRequest struct {
	Mode               model.RoomMode `json:"mode"`
	MaxPlayers         int            `json:"maxPlayers"`
	TimePerQuestionSec int            `json:"timePerQuestionSec"`
	QuestionCount      int            `json:"questionCount"`
	Difficulty         string         `json:"difficulty"`
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.roomSvc.CreateRoom(r.Context(), model.RoomSettings{
		Mode:               req.Mode,
		MaxPlayers:         req.MaxPlayers,
		TimePerQuestionSec: req.TimePerQuestionSec,
		QuestionCount:      req.QuestionCount,
		Difficulty:         req.Difficulty,
	})
	if err != nil {
		writeRoomError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snap)
}

// JoinRequest is the request body for joining a room.
type JoinRequest struct {
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name"`
}

// Join handles POST /v1/rooms/{code}/join. Joining with an
// already-seated playerId is a reconnection, not a new seat.
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.roomSvc.JoinRoom(r.Context(), code, req.PlayerID, req.Name)
	if err != nil {
		writeRoomError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /v1/rooms/{code}.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	snap, err := h.roomSvc.GetRoom(code)
	if err != nil {
		writeRoomError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// Leaderboard handles GET /v1/rooms/{code}/leaderboard.
func (h *RoomHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	entries, err := h.roomSvc.Leaderboard(r.Context(), code)
	if err != nil {
		writeRoomError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"roomCode": code,
		"entries":  entries,
	})
}

// Delete handles DELETE /v1/rooms/{code}. Host only, and the token
// must have been issued for this room.
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if middleware.GetRoomCode(r.Context()) != code {
		writeError(w, http.StatusForbidden, "token not valid for this room")
		return
	}
	playerID := middleware.GetPlayerID(r.Context())

	if err := h.roomSvc.Teardown(code, playerID); err != nil {
		writeRoomError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
