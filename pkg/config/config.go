package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the compliance core.
type Config struct {
	Port string

	// Database
	DBPath string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Advisory service (OpenAI-compatible completion endpoint)
	AdvisoryURL     string
	AdvisoryModel   string
	AdvisoryTimeout time.Duration

	// Optional YAML file overriding the built-in seed rules.
	RulesConfigPath string
}

// Load reads environment variables (optionally via .env) into Config.
func Load() (*Config, error) {
	// Ignore error so the app still starts when .env is missing.
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8000"),
		DBPath:          getEnv("DB_PATH", "./data/complypilot.db"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:        time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 60)) * time.Minute,
		AdvisoryURL:     getEnv("ADVISORY_URL", "http://localhost:1234/v1"),
		AdvisoryModel:   getEnv("ADVISORY_MODEL", "local-model"),
		AdvisoryTimeout: time.Duration(getEnvInt("ADVISORY_TIMEOUT_SECONDS", 30)) * time.Second,
		RulesConfigPath: getEnv("RULES_CONFIG", "rules.yaml"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
