package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	HTTPPort string

	// RedisAddr and MongoURI are optional; empty disables the
	// corresponding mirror.
	RedisAddr     string
	MongoURI      string
	MongoDatabase string

	TriviaBaseURL string

	RoomIdleTimeout time.Duration
}

// Load reads configuration from the environment, with a .env overlay
// when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:        getEnv("PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DATABASE", "quizegame"),
		TriviaBaseURL:   getEnv("TRIVIA_BASE_URL", ""),
		RoomIdleTimeout: time.Duration(getEnvInt("ROOM_IDLE_TIMEOUT_MIN", 60)) * time.Minute,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
