package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Yashshukla011/quizegame/internal/repository"
)

const (
	defaultMatchListLimit = 20
	maxMatchListLimit     = 100
)

// MatchHandler exposes the finished-match archive. Read only; records
// are written by the event fanout when a game ends.
type MatchHandler struct {
	matches repository.MatchRepo
}

// NewMatchHandler creates a match handler. matches may be nil when
// Mongo is not configured; the endpoints then answer 503.
func NewMatchHandler(matches repository.MatchRepo) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// Get handles GET /v1/matches/{code}.
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.matches == nil {
		writeError(w, http.StatusServiceUnavailable, "match archive not configured")
		return
	}
	code := mux.Vars(r)["code"]

	match, err := h.matches.GetByRoomCode(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "match lookup failed")
		return
	}
	if match == nil {
		writeError(w, http.StatusNotFound, "no archived match for this room")
		return
	}

	writeJSON(w, http.StatusOK, match)
}

// List handles GET /v1/matches?limit=N, most recent first.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.matches == nil {
		writeError(w, http.StatusServiceUnavailable, "match archive not configured")
		return
	}

	limit := defaultMatchListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	if limit > maxMatchListLimit {
		limit = maxMatchListLimit
	}

	matches, err := h.matches.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "match listing failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}
