package model

// PlayerState is the externally visible state of a seated player.
// Seat order is join order; seat 0 is the host.
type PlayerState struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Seat        int    `json:"seat"`
	Score       int    `json:"score"`
	HasAnswered bool   `json:"hasAnswered"`
	Connected   bool   `json:"connected"`
}

// RankedPlayer is a final-ranking entry. Rank is 1-indexed; ties keep
// join order.
type RankedPlayer struct {
	PlayerState
	Rank int `json:"rank"`
}

// PlayerJoinResponse is returned when a player joins (or rejoins) a room.
type PlayerJoinResponse struct {
	PlayerID string       `json:"playerId"`
	Seat     int          `json:"seat"`
	Token    string       `json:"token"`
	Room     RoomSnapshot `json:"room"`
}
