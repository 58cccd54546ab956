/*
Package config holds process configuration and settings intake.

PURPOSE:
  Everything the binary reads from its environment lives here: the App
  struct built from env vars (main layers flags on top), the logrus
  constructor, and the JSON settings payload the HTTP layer accepts for
  policy updates. The roster package never sees any of this; it receives
  a validated PolicySettings.

SEE ALSO:
  - roster/policy.go: The validated settings the payload converts into
  - cmd/server: Loads .env, then flags, then calls FromEnv
*/
package config

import (
	"os"
	"strings"
	"time"
)

// App is the process configuration. Every field has a working default so
// the server runs with an empty environment.
type App struct {
	// Addr is the HTTP listen address.
	Addr string

	// DatabasePath is the sqlite file; ":memory:" is accepted.
	DatabasePath string

	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string

	// AutoGenerate enables the background worker that keeps the upcoming
	// week generated for every active employee.
	AutoGenerate bool

	// GenerateInterval is the worker's tick period.
	GenerateInterval time.Duration

	// Seed names a demo scenario to load into an empty database at
	// startup. Empty means no seeding.
	Seed string

	// CORSOrigins is the allowed-origin list for the API.
	CORSOrigins []string
}

// FromEnv reads the environment. Call godotenv.Load first if a .env file
// should participate.
func FromEnv() App {
	return App{
		Addr:             envOr("ADDR", ":8080"),
		DatabasePath:     envOr("DB_PATH", "skello.db"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		AutoGenerate:     envBool("AUTO_GENERATE", true),
		GenerateInterval: envDuration("GENERATE_INTERVAL", time.Hour),
		Seed:             envOr("SEED", ""),
		CORSOrigins:      envList("ALLOWED_ORIGINS", []string{"*"}),
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return fallback
	}
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
