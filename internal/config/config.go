// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, MongoDB connectivity, the upstream model
// API, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings. The origin list
// is an allowlist: requests from origins outside it are rejected, and the
// list is never empty after Load.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-legal-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// OpenRouterConfig defines settings for the upstream chat-completion API.
// The API key is deliberately not validated at load time: its absence is a
// per-call server fault reported when a consultation is attempted.
type OpenRouterConfig struct {
	APIKey      string  // OPENROUTER_API_KEY
	BaseURL     string  // OPENROUTER_BASE_URL
	Model       string  // OPENROUTER_MODEL
	Temperature float64 // OPENROUTER_TEMPERATURE
	MaxTokens   int     // OPENROUTER_MAX_TOKENS
	Referer     string  // OPENROUTER_REFERER (sent as HTTP-Referer)
	AppTitle    string  // OPENROUTER_APP_TITLE (sent as X-Title)
}

// MongoConfig defines document-store connectivity settings.
type MongoConfig struct {
	URI      string // MONGODB_URI
	Database string // MONGODB_DB
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // generous: one upstream model call per request
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// App
	Mongo            MongoConfig
	OpenRouter       OpenRouterConfig
	MaxQuestionChars int // validation cap for consultation questions
	DefaultPageSize  int // history page size when the client sends none

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "5000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 90*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		// App
		Mongo: MongoConfig{
			URI:      getenv("MONGODB_URI", "mongodb://localhost:27017/legalmind"),
			Database: getenv("MONGODB_DB", "legalmind"),
		},
		OpenRouter: OpenRouterConfig{
			APIKey:      getenv("OPENROUTER_API_KEY", ""),
			BaseURL:     getenv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:       getenv("OPENROUTER_MODEL", "openai/gpt-4o"),
			Temperature: getfloat("OPENROUTER_TEMPERATURE", 0.7),
			MaxTokens:   getint("OPENROUTER_MAX_TOKENS", 1000),
			Referer:     getenv("OPENROUTER_REFERER", "http://localhost:5173"),
			AppTitle:    getenv("OPENROUTER_APP_TITLE", "AI Lawyer Consultation"),
		},
		MaxQuestionChars: getint("MAX_QUESTION_CHARS", 2000),
		DefaultPageSize:  getint("DEFAULT_PAGE_SIZE", 10),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			// Default mirrors the dev frontend origin; production must set
			// CORS_ORIGIN explicitly. There is no allow-all fallback.
			AllowedOrigins: splitCSV(getenv("CORS_ORIGIN", "http://localhost:5173")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-legal-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.Mongo.URI) == "" {
		return cfg, errors.New("MONGODB_URI must not be empty")
	}
	if strings.TrimSpace(cfg.Mongo.Database) == "" {
		return cfg, errors.New("MONGODB_DB must not be empty")
	}
	if strings.TrimSpace(cfg.OpenRouter.BaseURL) == "" {
		return cfg, errors.New("OPENROUTER_BASE_URL must not be empty")
	}
	if strings.TrimSpace(cfg.OpenRouter.Model) == "" {
		return cfg, errors.New("OPENROUTER_MODEL must not be empty")
	}
	if cfg.OpenRouter.Temperature < 0 || cfg.OpenRouter.Temperature > 2 {
		return cfg, errors.New("OPENROUTER_TEMPERATURE must be in [0,2]")
	}
	if cfg.OpenRouter.MaxTokens < 1 {
		return cfg, errors.New("OPENROUTER_MAX_TOKENS must be >= 1")
	}
	if cfg.MaxQuestionChars < 1 {
		return cfg, errors.New("MAX_QUESTION_CHARS must be >= 1")
	}
	if cfg.DefaultPageSize < 1 {
		return cfg, errors.New("DEFAULT_PAGE_SIZE must be >= 1")
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		return cfg, errors.New("CORS_ORIGIN must list at least one allowed origin")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
