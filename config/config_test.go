package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/geraldbelrose-cyber/skello-perso/config"
)

func clearAppEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ADDR", "DB_PATH", "LOG_LEVEL", "AUTO_GENERATE", "GENERATE_INTERVAL", "SEED", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearAppEnv(t)

	cfg := config.FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "skello.db", cfg.DatabasePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.AutoGenerate)
	assert.Equal(t, time.Hour, cfg.GenerateInterval)
	assert.Empty(t, cfg.Seed)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearAppEnv(t)
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("AUTO_GENERATE", "no")
	t.Setenv("GENERATE_INTERVAL", "15m")
	t.Setenv("SEED", "boutique")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg := config.FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, ":memory:", cfg.DatabasePath)
	assert.False(t, cfg.AutoGenerate)
	assert.Equal(t, 15*time.Minute, cfg.GenerateInterval)
	assert.Equal(t, "boutique", cfg.Seed)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
}

func TestFromEnv_BadIntervalFallsBack(t *testing.T) {
	clearAppEnv(t)
	t.Setenv("GENERATE_INTERVAL", "soon")

	assert.Equal(t, time.Hour, config.FromEnv().GenerateInterval)

	t.Setenv("GENERATE_INTERVAL", "-5m")
	assert.Equal(t, time.Hour, config.FromEnv().GenerateInterval)
}

func TestNewLogger_LevelParsing(t *testing.T) {
	assert.Equal(t, "debug", config.NewLogger("debug").GetLevel().String())
	assert.Equal(t, "info", config.NewLogger("noisy").GetLevel().String(), "unknown level falls back to info")
}
