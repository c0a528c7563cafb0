// Package config collects environment-driven settings into one struct
// built at process start and passed to whatever needs it.
// File: config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the application reads from the environment.
type Config struct {
	Addr           string        // listen address, e.g. ":8080"
	Env            string        // "development" | "production"
	SecretKey      string        // session cookie signing key, required
	EventsFile     string        // path of the flat event collection
	UsersFile      string        // path of the flat user collection
	ApplicationURL string        // public URL, encoded into the QR code
	PollInterval   time.Duration // alert recomputation / push interval
	MetricsEnabled bool          // publish CloudWatch metrics when true
}

// Load reads `.env` when present, then the process environment.
//
// SECRET_KEY has no default on purpose: sessions signed with a
// hard-coded key are indistinguishable from unsigned ones, so a missing
// key fails startup loudly instead.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return nil, errors.New("SECRET_KEY is not set; refusing to start with an insecure session store")
	}

	cfg := &Config{
		Addr:           getenv("ADDR", ":8080"),
		Env:            getenv("APP_ENV", "development"),
		SecretKey:      secret,
		EventsFile:     getenv("EVENTS_FILE", "schedule_log.json"),
		UsersFile:      getenv("USERS_FILE", "users.json"),
		ApplicationURL: getenv("APPLICATION_URL", "http://localhost:8080"),
		PollInterval:   time.Duration(getenvInt("ALERT_POLL_SECONDS", 30)) * time.Second,
		MetricsEnabled: getenv("METRICS_ENABLED", "") == "true",
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
