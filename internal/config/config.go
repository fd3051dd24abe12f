package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Environment string
	DatabaseURL string
	TablePrefix string
	// Draft storage (autosave target)
	RedisURL string
	DraftTTL time.Duration
	// Editor engine
	HistoryCapacity  int
	AutosaveDebounce time.Duration
	// Logging
	LogDir      string
	MaxLogFiles int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Environment:      env,
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		TablePrefix:      getTablePrefix(env),
		RedisURL:         getEnv("REDIS_URL", ""),
		DraftTTL:         time.Duration(getEnvInt("DRAFT_TTL_SECONDS", 7*24*3600)) * time.Second,
		HistoryCapacity:  getEnvInt("HISTORY_CAPACITY", DefaultHistoryCapacity),
		AutosaveDebounce: time.Duration(getEnvInt("AUTOSAVE_DEBOUNCE_MS", 1500)) * time.Millisecond,
		LogDir:           getEnv("LOG_DIR", ""),
		MaxLogFiles:      getEnvInt("MAX_LOG_FILES", 10),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}
