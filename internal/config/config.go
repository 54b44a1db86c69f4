package config

import (
	"os"
	"strconv"
	"time"
)

// Config is read once at startup and never mutated afterwards.
type Config struct {
	AppPort string
	DevMode bool

	RedisURL    string
	DatabaseDSN string

	SessionCookie string
	SessionTTL    time.Duration
	LockTTL       time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

func Load() Config {

	cfg := Config{

		AppPort: getenv("APP_PORT", "8000"),
		DevMode: os.Getenv("DEV_MODE") == "1",

		RedisURL:    getenv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		SessionCookie: getenv("SESSION_COOKIE", "sid"),
		SessionTTL:    secondsEnv("SESSION_TTL_SECONDS", 604800),
		LockTTL:       secondsEnv("LOCK_TTL_SECONDS", 30),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func secondsEnv(key string, fallback int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(fallback) * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return time.Duration(fallback) * time.Second
	}
	return time.Duration(n) * time.Second
}
