package model

import "time"

type RoomStatus string

const (
	RoomWaiting    RoomStatus = "waiting"
	RoomInProgress RoomStatus = "in_progress"
	RoomFinished   RoomStatus = "finished"
)

// RoomMode selects the round-advancement rule.
type RoomMode string

const (
	// ModeBroadcast advances once every connected seated player has answered.
	ModeBroadcast RoomMode = "broadcast"
	// ModeTurnBased alternates answers between exactly two seats.
	ModeTurnBased RoomMode = "turn_based"
)

// RoomSettings are the knobs fixed at room creation.
type RoomSettings struct {
	Mode               RoomMode `json:"mode"`
	MaxPlayers         int      `json:"maxPlayers"`
	TimePerQuestionSec int      `json:"timePerQuestionSec"` // 0 disables the round deadline
	QuestionCount      int      `json:"questionCount"`
	Difficulty         string   `json:"difficulty,omitempty"`
}

// RoomSnapshot is a consistent read of a room's state, taken atomically
// with the mutation that produced it.
type RoomSnapshot struct {
	Code         string        `json:"code"`
	Status       RoomStatus    `json:"status"`
	Mode         RoomMode      `json:"mode"`
	Capacity     int           `json:"capacity"`
	Cursor       int           `json:"cursor"`
	Total        int           `json:"total"`
	HostPlayerID string        `json:"hostPlayerId"`
	TurnPlayerID string        `json:"turnPlayerId,omitempty"`
	Deadline     *time.Time    `json:"deadline,omitempty"`
	Players      []PlayerState `json:"players"`
	CreatedAt    time.Time     `json:"createdAt"`
}
