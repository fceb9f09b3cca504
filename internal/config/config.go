// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings.
type Config struct {
	// DBType selects the storage driver: "sqlite" or "postgres"
	DBType string
	// DBPath is the sqlite database file location
	DBPath string
	// DBURL is the postgres connection string (DB_TYPE=postgres only)
	DBURL string
	// LogMode selects zap config: "dev" or "prod"
	LogMode string
	// MasteryStreak is the consecutive-correct threshold that promotes a
	// word to mastered
	MasteryStreak int
	// ReminderHour is the UTC hour for due-review reminders (0-23)
	ReminderHour int
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBType:        getEnv("DB_TYPE", "sqlite"),
		DBPath:        getEnv("DB_PATH", "data/vocabgo.db"),
		DBURL:         os.Getenv("DATABASE_URL"),
		LogMode:       getEnv("LOG_MODE", "dev"),
		MasteryStreak: getEnvInt("MASTERY_STREAK", 5),
		ReminderHour:  getEnvInt("REMINDER_HOUR", 9),
	}
	if cfg.ReminderHour < 0 || cfg.ReminderHour > 23 {
		cfg.ReminderHour = 9
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
