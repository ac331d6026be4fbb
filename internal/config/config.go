package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the application configuration
type Config struct {
	MongoURI  string
	DBName    string
	JWTSecret string
	Port      string

	// External text-generation service for insights
	InsightsBaseURL string
	InsightsAPIKey  string
	InsightsModel   string
	InsightsTimeout time.Duration

	// Default pomodoro durations, overridable per user at runtime
	PomodoroWorkMinutes       int
	PomodoroShortBreakMinutes int
	PomodoroLongBreakMinutes  int
	PomodoroSessionsUntilLong int
}

// LoadConfig loads configuration from .env file or environment variables
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		log.Info().Str("path", path).Msg("no .env file found, reading from environment variables")
	}

	return &Config{
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:    getEnv("DB_NAME", "focusflow_db"),
		JWTSecret: getEnv("JWT_SECRET", "your_very_secret_jwt_key_here_change_this_in_production"),
		Port:      getEnv("PORT", "8080"),

		InsightsBaseURL: getEnv("INSIGHTS_BASE_URL", "https://api.openai.com"),
		InsightsAPIKey:  getEnv("INSIGHTS_API_KEY", ""),
		InsightsModel:   getEnv("INSIGHTS_MODEL", "gpt-4o-mini"),
		InsightsTimeout: time.Duration(getEnvInt("INSIGHTS_TIMEOUT_SECONDS", 15)) * time.Second,

		PomodoroWorkMinutes:       getEnvInt("POMODORO_WORK_MINUTES", 25),
		PomodoroShortBreakMinutes: getEnvInt("POMODORO_SHORT_BREAK_MINUTES", 5),
		PomodoroLongBreakMinutes:  getEnvInt("POMODORO_LONG_BREAK_MINUTES", 15),
		PomodoroSessionsUntilLong: getEnvInt("POMODORO_SESSIONS_UNTIL_LONG_BREAK", 4),
	}, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Warn().Str("key", key).Str("value", value).Msg("invalid integer env value, using default")
	}
	return defaultValue
}
