package model

import "github.com/golang-jwt/jwt/v5"

// PlayerClaims are room-scoped JWT claims issued on join and presented
// on the WebSocket upgrade.
type PlayerClaims struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	jwt.RegisteredClaims
}
