// Package config resolves service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the server and CLI need beyond LLM settings
// (which live in the llm package's own Config).
type Config struct {
	// Addr is the listen address for the HTTP API.
	Addr string

	// DSN is the database connection string: a SQLite file path or a
	// Postgres DSN.
	DSN string

	// Mode selects logger behavior: "dev" or "prod".
	Mode string

	// JWTSecret signs access tokens.
	JWTSecret string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// FetchTimeout bounds server-side page fetches.
	FetchTimeout time.Duration

	// BackendURL is the API base URL used by client commands.
	BackendURL string
}

// FromEnv builds a Config from QUIZLER_* environment variables with
// defaults for anything unset.
func FromEnv() Config {
	return Config{
		Addr:            getEnv("QUIZLER_ADDR", ":8787"),
		DSN:             os.Getenv("QUIZLER_DB"),
		Mode:            getEnv("QUIZLER_MODE", "dev"),
		JWTSecret:       getEnv("QUIZLER_JWT_SECRET", "dev-secret-change-me"),
		AccessTokenTTL:  time.Duration(getEnvInt("QUIZLER_ACCESS_TOKEN_TTL", 3600)) * time.Second,
		RefreshTokenTTL: time.Duration(getEnvInt("QUIZLER_REFRESH_TOKEN_TTL", 30*86400)) * time.Second,
		FetchTimeout:    time.Duration(getEnvInt("QUIZLER_FETCH_TIMEOUT", 15)) * time.Second,
		BackendURL:      getEnv("QUIZLER_BACKEND_URL", "http://localhost:8787"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
