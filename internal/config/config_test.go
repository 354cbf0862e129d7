package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ADDR", "APP_ENV", "LOG_LEVEL", "ALLOWED_ORIGINS", "ENABLE_HSTS",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "MAX_BODY_BYTES", "LOAN_PERIOD_DAYS",
		"GEMINI_API_KEY", "GEMINI_TEXT_MODEL", "GEMINI_IMAGE_MODEL", "ADVISORY_TIMEOUT",
		"OPENLIBRARY_USER_AGENT", "OPENLIBRARY_RPS", "OPENLIBRARY_MAX_RETRIES",
		"SEED_FILE", "SEED_DSN",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.True(t, cfg.Development())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 14*24*time.Hour, cfg.LoanPeriod)
	assert.Equal(t, float64(10), cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 30*time.Second, cfg.AdvisoryTimeout)
	assert.Equal(t, "gemini-3-flash-preview", cfg.GeminiTextModel)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.GeminiImageModel)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Empty(t, cfg.SeedFile)
	assert.Empty(t, cfg.SeedDSN)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOAN_PERIOD_DAYS", "7")
	t.Setenv("ADVISORY_TIMEOUT", "5s")
	t.Setenv("ENABLE_HSTS", "true")
	t.Setenv("OPENLIBRARY_RPS", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Development())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 7*24*time.Hour, cfg.LoanPeriod)
	assert.Equal(t, 5*time.Second, cfg.AdvisoryTimeout)
	assert.True(t, cfg.EnableHSTS)
	assert.Equal(t, 0.5, cfg.OpenLibraryRPS)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_BURST", "lots")
	t.Setenv("ADVISORY_TIMEOUT", "30")
	t.Setenv("LOAN_PERIOD_DAYS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_BURST")
	assert.Contains(t, err.Error(), "ADVISORY_TIMEOUT")
	assert.Contains(t, err.Error(), "LOAN_PERIOD_DAYS must be positive")
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("APP_ADDR=:1\nSEED_FILE=from_file\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env.local"), []byte("SEED_FILE=from_local\nLOG_LEVEL=debug\n"), 0o644))

	t.Setenv("APP_ADDR", ":9090")
	for _, k := range []string{"SEED_FILE", "LOG_LEVEL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	t.Chdir(tmp)
	LoadEnvFiles()

	assert.Equal(t, ":9090", os.Getenv("APP_ADDR"))
	assert.Equal(t, "from_file", os.Getenv("SEED_FILE"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
}
