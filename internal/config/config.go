package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"dayplan/internal/task"
)

// Environment variable names.
const (
	EnvGeminiAPIKey       = "GOOGLE_API_KEY"
	EnvGeminiModel        = "GEMINI_MODEL"
	EnvGoogleClientID     = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret = "GOOGLE_CLIENT_SECRET"
	EnvAccounts           = "DAYPLAN_ACCOUNTS"
	EnvLogLevel           = "DAYPLAN_LOG_LEVEL"
)

// DefaultGeminiModel is the structured-output model used by the task parser.
const DefaultGeminiModel = "models/gemini-2.5-flash-lite"

// Config holds all runtime configuration.
type Config struct {
	// GeminiAPIKey authenticates task parser calls.
	GeminiAPIKey string

	// GeminiModel is the model resource name, e.g. "models/gemini-2.5-flash-lite".
	GeminiModel string

	// GoogleClientID and GoogleClientSecret are the OAuth client credentials
	// used for calendar access.
	GoogleClientID     string
	GoogleClientSecret string

	// Accounts lists the calendar accounts, in reporting order.
	Accounts []string

	// LogLevel controls slog output on stderr.
	LogLevel slog.Level
}

// Load reads configuration from a .env file (if present) and the
// environment. Missing credentials are not an error here; commands that need
// them validate via RequireParser / RequireCalendar so that e.g. a dry run
// works without any setup.
func Load() (Config, error) {
	// A missing .env file is fine, the environment may carry everything.
	_ = godotenv.Load()

	cfg := Config{
		GeminiAPIKey:       os.Getenv(EnvGeminiAPIKey),
		GeminiModel:        os.Getenv(EnvGeminiModel),
		GoogleClientID:     os.Getenv(EnvGoogleClientID),
		GoogleClientSecret: os.Getenv(EnvGoogleClientSecret),
		LogLevel:           slog.LevelInfo,
	}

	if cfg.GeminiModel == "" {
		cfg.GeminiModel = DefaultGeminiModel
	}

	accounts := os.Getenv(EnvAccounts)
	if accounts == "" {
		for _, a := range task.Accounts() {
			cfg.Accounts = append(cfg.Accounts, string(a))
		}
	} else {
		for _, a := range strings.Split(accounts, ",") {
			a = strings.TrimSpace(a)
			if a == "" {
				continue
			}
			if _, err := task.ParseAccount(a); err != nil {
				return cfg, fmt.Errorf("invalid %s: %w", EnvAccounts, err)
			}
			cfg.Accounts = append(cfg.Accounts, a)
		}
		if len(cfg.Accounts) == 0 {
			return cfg, fmt.Errorf("%s is set but names no accounts", EnvAccounts)
		}
	}

	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(lvl)); err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", EnvLogLevel, lvl, err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// RequireParser checks that the parser credentials are present.
func (c Config) RequireParser() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("%s is not set; add it to .env or the environment", EnvGeminiAPIKey)
	}
	return nil
}

// RequireCalendar checks that the OAuth client credentials are present.
func (c Config) RequireCalendar() error {
	if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
		return fmt.Errorf("%s and %s must be set; add them to .env or the environment", EnvGoogleClientID, EnvGoogleClientSecret)
	}
	return nil
}
