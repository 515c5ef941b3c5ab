package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr            string
	LogLevel        string
	CORSAllowOrigin string
	InsecureTLS     bool

	// Capture defaults, overridable per request via the API or CLI flags.
	DefaultTimeout      time.Duration
	DefaultMaxRedirects int
	WithContent         bool
	MaxContentLength    int64

	// Recent-captures store bounds (service mode).
	MaxCaptures int
	CaptureTTL  time.Duration
}

func FromEnv() Config {
	cfg := Config{
		Addr:            getEnv("ADDR", ":9400"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),
	}
	if os.Getenv("INSECURE_TLS") == "1" || os.Getenv("INSECURE_TLS") == "true" {
		cfg.InsecureTLS = true
	}
	cfg.DefaultTimeout = time.Duration(getEnvInt("TIMEOUT_MS", 0)) * time.Millisecond
	cfg.DefaultMaxRedirects = getEnvInt("MAX_REDIRECTS", 10)
	// default: capture response bodies unless explicitly disabled
	if os.Getenv("WITH_CONTENT") == "0" || os.Getenv("WITH_CONTENT") == "false" {
		cfg.WithContent = false
	} else {
		cfg.WithContent = true
	}
	cfg.MaxContentLength = int64(getEnvInt("MAX_CONTENT_LENGTH", 0)) // 0 = unbounded
	cfg.MaxCaptures = getEnvInt("MAX_CAPTURES", 500)
	cfg.CaptureTTL = time.Duration(getEnvInt("CAPTURE_TTL_MIN", 120)) * time.Minute
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
