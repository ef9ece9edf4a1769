package quiz

import "errors"

// Room errors are reported to the originating participant only; they
// never corrupt room state and never take down the room or registry.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrRoomFinished     = errors.New("room has already finished")
	ErrAlreadyAnswered  = errors.New("already answered this round")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrInvalidOption    = errors.New("option is not part of the current question")
	ErrAllocation       = errors.New("room code space exhausted")
	ErrNotHost          = errors.New("only the host can do that")
	ErrNotJoined        = errors.New("player has not joined this room")
	ErrNotStarted       = errors.New("game has not started yet")
	ErrAlreadyStarted   = errors.New("game has already started")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
)

// ErrorCode maps a room error to its wire identifier. Unknown errors
// map to INTERNAL.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "ROOM_NOT_FOUND"
	case errors.Is(err, ErrRoomFull):
		return "ROOM_FULL"
	case errors.Is(err, ErrRoomFinished):
		return "ROOM_FINISHED"
	case errors.Is(err, ErrAlreadyAnswered):
		return "ALREADY_ANSWERED"
	case errors.Is(err, ErrNotYourTurn):
		return "NOT_YOUR_TURN"
	case errors.Is(err, ErrInvalidOption):
		return "INVALID_OPTION"
	case errors.Is(err, ErrAllocation):
		return "ALLOCATION_ERROR"
	case errors.Is(err, ErrNotHost):
		return "NOT_HOST"
	case errors.Is(err, ErrNotJoined):
		return "NOT_JOINED"
	case errors.Is(err, ErrNotStarted):
		return "NOT_STARTED"
	case errors.Is(err, ErrAlreadyStarted):
		return "ALREADY_STARTED"
	case errors.Is(err, ErrNotEnoughPlayers):
		return "NOT_ENOUGH_PLAYERS"
	default:
		return "INTERNAL"
	}
}
