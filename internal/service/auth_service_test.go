package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Yashshukla011/quizegame/internal/model"
)

func TestPlayerTokenRoundTrip(t *testing.T) {
	svc := NewAuthService()

	token, err := svc.GeneratePlayerToken("ABCDE", "p_1234")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidatePlayerToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.RoomCode != "ABCDE" {
		t.Fatalf("room code = %q", claims.RoomCode)
	}
	if claims.PlayerID != "p_1234" {
		t.Fatalf("player id = %q", claims.PlayerID)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewAuthService()
	if _, err := svc.ValidatePlayerToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	claims := &model.PlayerClaims{
		RoomCode: "ABCDE",
		PlayerID: "p_1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewAuthService().ValidatePlayerToken(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewAuthService()
	svc.tokenTTL = -time.Minute

	token, err := svc.GeneratePlayerToken("ABCDE", "p_1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidatePlayerToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}
