package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Yashshukla011/quizegame/internal/quiz"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeRoomError maps a room error to its HTTP status, keeping the
// wire code from the taxonomy.
func writeRoomError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), map[string]string{
		"code":  quiz.ErrorCode(err),
		"error": err.Error(),
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, quiz.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, quiz.ErrRoomFull),
		errors.Is(err, quiz.ErrAlreadyAnswered),
		errors.Is(err, quiz.ErrNotYourTurn),
		errors.Is(err, quiz.ErrAlreadyStarted),
		errors.Is(err, quiz.ErrNotEnoughPlayers):
		return http.StatusConflict
	case errors.Is(err, quiz.ErrRoomFinished):
		return http.StatusGone
	case errors.Is(err, quiz.ErrInvalidOption), errors.Is(err, quiz.ErrNotStarted):
		return http.StatusBadRequest
	case errors.Is(err, quiz.ErrNotHost), errors.Is(err, quiz.ErrNotJoined):
		return http.StatusForbidden
	case errors.Is(err, quiz.ErrAllocation):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
