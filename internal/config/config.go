package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env     string
	Port    int
	Variant string

	// CORSAllowAll opens the API to every origin/method/header. The
	// fixture frontends are served from arbitrary hosts, so this is
	// the shipped default, but it stays an explicit knob.
	CORSAllowAll bool
	CORSOrigins  []string

	OTLPEndpoint   string
	TracingEnabled bool

	ListCacheTTL time.Duration
	MaxBodyBytes int64

	LoginRateLimit  int
	LoginRateWindow time.Duration
}

func Load() Config {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	variant := getEnv("API_VARIANT", "v1")
	if variant != "v1" && variant != "v2" {
		variant = "v1"
	}

	return Config{
		Env:             getEnv("APP_ENV", "dev"),
		Port:            getEnvInt("PORT", 8000),
		Variant:         variant,
		CORSAllowAll:    getEnvBool("CORS_ALLOW_ALL", true),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "")),
		OTLPEndpoint:    getEnv("OTLP_ENDPOINT", ""),
		TracingEnabled:  getEnvBool("TRACING_ENABLED", false),
		ListCacheTTL:    getEnvDuration("LIST_CACHE_TTL", 5*time.Second),
		MaxBodyBytes:    int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 30),
		LoginRateWindow: getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),
	}
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			return fallback
		}

		return b
	}

	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			return fallback
		}

		return d
	}

	return fallback
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
