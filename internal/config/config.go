// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	EnableHSTS     bool

	RateLimitRPS   float64
	RateLimitBurst int
	MaxBodyBytes   int64

	LoanPeriod time.Duration

	GeminiAPIKey     string
	GeminiTextModel  string
	GeminiImageModel string
	AdvisoryTimeout  time.Duration

	OpenLibraryUserAgent  string
	OpenLibraryRPS        float64
	OpenLibraryMaxRetries int

	SeedFile string
	SeedDSN  string
}

// Development reports whether the service runs with developer defaults.
func (c Config) Development() bool {
	return c.Env == "development"
}

// LoadEnvFiles loads .env then .env.local into the process environment.
// Variables that are already set are never overridden.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load returns the configuration from the environment. Every malformed
// value is reported, not only the first one.
func Load() (Config, error) {
	p := parser{}
	cfg := Config{
		Addr:           p.str("APP_ADDR", ":8080"),
		Env:            p.str("APP_ENV", "development"),
		LogLevel:       p.str("LOG_LEVEL", "info"),
		AllowedOrigins: p.list("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		EnableHSTS:     p.boolean("ENABLE_HSTS", false),

		RateLimitRPS:   p.float("RATE_LIMIT_RPS", 10),
		RateLimitBurst: p.integer("RATE_LIMIT_BURST", 20),
		MaxBodyBytes:   int64(p.integer("MAX_BODY_BYTES", 1<<20)),

		LoanPeriod: time.Duration(p.integer("LOAN_PERIOD_DAYS", 14)) * 24 * time.Hour,

		GeminiAPIKey:     p.str("GEMINI_API_KEY", ""),
		GeminiTextModel:  p.str("GEMINI_TEXT_MODEL", "gemini-3-flash-preview"),
		GeminiImageModel: p.str("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		AdvisoryTimeout:  p.duration("ADVISORY_TIMEOUT", 30*time.Second),

		OpenLibraryUserAgent:  p.str("OPENLIBRARY_USER_AGENT", "lumina/1.0 (library service)"),
		OpenLibraryRPS:        p.float("OPENLIBRARY_RPS", 1),
		OpenLibraryMaxRetries: p.integer("OPENLIBRARY_MAX_RETRIES", 2),

		SeedFile: p.str("SEED_FILE", ""),
		SeedDSN:  p.str("SEED_DSN", ""),
	}

	if cfg.LoanPeriod <= 0 {
		p.fail("LOAN_PERIOD_DAYS", "must be positive")
	}
	if cfg.RateLimitRPS <= 0 {
		p.fail("RATE_LIMIT_RPS", "must be positive")
	}
	if cfg.RateLimitBurst <= 0 {
		p.fail("RATE_LIMIT_BURST", "must be positive")
	}
	if cfg.MaxBodyBytes <= 0 {
		p.fail("MAX_BODY_BYTES", "must be positive")
	}
	if cfg.OpenLibraryMaxRetries < 0 {
		p.fail("OPENLIBRARY_MAX_RETRIES", "must not be negative")
	}

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

type parser struct {
	errs []error
}

func (p *parser) fail(key, msg string) {
	p.errs = append(p.errs, fmt.Errorf("%s %s", key, msg))
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) list(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (p *parser) integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		p.fail(key, fmt.Sprintf("is not an integer: %q", v))
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		p.fail(key, fmt.Sprintf("is not a number: %q", v))
		return def
	}
	return f
}

func (p *parser) boolean(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		p.fail(key, fmt.Sprintf("is not a boolean: %q", v))
		return def
	}
	return b
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		p.fail(key, fmt.Sprintf("is not a duration: %q", v))
		return def
	}
	return d
}
