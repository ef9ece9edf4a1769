package model

import "time"

// MatchRecord is the immutable archive document written once per
// finished match. Nothing reads it back into gameplay.
type MatchRecord struct {
	RoomCode      string         `json:"roomCode" bson:"roomCode"`
	Mode          RoomMode       `json:"mode" bson:"mode"`
	QuestionCount int            `json:"questionCount" bson:"questionCount"`
	Rankings      []RankedPlayer `json:"rankings" bson:"rankings"`
	FinishedAt    time.Time      `json:"finishedAt" bson:"finishedAt"`
}
