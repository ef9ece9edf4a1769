package model

import "time"

// WebSocket event names, shared by inbound and outbound envelopes.
const (
	EventRosterUpdated = "roster_updated"
	EventRoundStarted  = "round_started"
	EventScoreUpdated  = "score_updated"
	EventGameFinished  = "game_finished"
	EventChatMessage   = "chat_message"
	EventError         = "error"

	EventStartGame    = "start_game"
	EventSubmitAnswer = "submit_answer"
)

// RosterUpdatedPayload is broadcast whenever a seat is taken, or a
// player's connection state changes.
type RosterUpdatedPayload struct {
	Players  []PlayerState `json:"players"`
	Capacity int           `json:"capacity"`
}

// RoundStartedPayload announces the current question to everyone.
type RoundStartedPayload struct {
	Question     RoundQuestion `json:"question"`
	Index        int           `json:"index"`
	Total        int           `json:"total"`
	Deadline     *time.Time    `json:"deadline,omitempty"`
	TurnPlayerID string        `json:"turnPlayerId,omitempty"`
}

// ScoreUpdatedPayload is broadcast after every scored submission.
type ScoreUpdatedPayload struct {
	RoomCode string        `json:"roomCode"`
	Players  []PlayerState `json:"players"`
}

// GameFinishedPayload carries the final ranking, broadcast exactly once.
type GameFinishedPayload struct {
	RoomCode string         `json:"roomCode"`
	Mode     RoomMode       `json:"mode"`
	Total    int            `json:"total"`
	Rankings []RankedPlayer `json:"rankings"`
}

// ChatMessagePayload is relayed verbatim to the whole room.
type ChatMessagePayload struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
	Time   string `json:"time,omitempty"`
}

// SubmitAnswerPayload is the inbound body of a submit_answer event.
type SubmitAnswerPayload struct {
	Option string `json:"option"`
}

// ErrorPayload is delivered only to the originating participant.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
