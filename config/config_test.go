package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_ADDR", "MONGO_URI", "MONGO_DATABASE", "ROOM_IDLE_TIMEOUT_MIN"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.HTTPPort != "8080" {
		t.Fatalf("port = %q", cfg.HTTPPort)
	}
	if cfg.RedisAddr != "" || cfg.MongoURI != "" {
		t.Fatal("mirrors enabled by default")
	}
	if cfg.MongoDatabase != "quizegame" {
		t.Fatalf("database = %q", cfg.MongoDatabase)
	}
	if cfg.RoomIdleTimeout != time.Hour {
		t.Fatalf("idle timeout = %v", cfg.RoomIdleTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("ROOM_IDLE_TIMEOUT_MIN", "15")

	cfg := Load()
	if cfg.HTTPPort != "9090" {
		t.Fatalf("port = %q", cfg.HTTPPort)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("redis = %q", cfg.RedisAddr)
	}
	if cfg.RoomIdleTimeout != 15*time.Minute {
		t.Fatalf("idle timeout = %v", cfg.RoomIdleTimeout)
	}

	t.Setenv("ROOM_IDLE_TIMEOUT_MIN", "not-a-number")
	if got := Load().RoomIdleTimeout; got != time.Hour {
		t.Fatalf("bad int fell through to %v", got)
	}
}
