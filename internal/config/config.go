package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config drives the CLI client.
type Config struct {
	APIURL      string
	Store       string
	StateFile   string
	SQLitePath  string
	DatabaseURL string
	RedisURL    string
	// Profile keys the session inside shared stores.
	Profile     string
	HTTPTimeout time.Duration
	// StrictAuth fails auth-required calls locally when no token is held.
	StrictAuth bool
	LogLevel   string
}

// ServerConfig drives the mock API server.
type ServerConfig struct {
	Port          string
	AllowedOrigin string
	OpenAIAPIKey  string
	Model         string
	PlansFile     string
	ChatbotPrompt string
	LogLevel      string
}

func Load() Config {
	_ = godotenv.Load()
	stateDir := defaultStateDir()
	cfg := Config{
		APIURL:      getEnvDefault("VISIONLINK_API_URL", "http://localhost:8000/api"),
		Store:       strings.ToLower(getEnvDefault("VISIONLINK_STORE", "file")),
		StateFile:   getEnvDefault("VISIONLINK_STATE_FILE", filepath.Join(stateDir, "session.json")),
		SQLitePath:  getEnvDefault("VISIONLINK_SQLITE_PATH", filepath.Join(stateDir, "sessions.db")),
		DatabaseURL: os.Getenv("DB_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		Profile:     getEnvDefault("VISIONLINK_PROFILE", "default"),
		HTTPTimeout: getEnvDurationDefault("VISIONLINK_HTTP_TIMEOUT", 20*time.Second),
		StrictAuth:  getEnvBoolDefault("VISIONLINK_STRICT_AUTH", false),
		LogLevel:    getEnvDefault("VISIONLINK_LOG_LEVEL", "warn"),
	}
	return cfg
}

func LoadServer() ServerConfig {
	_ = godotenv.Load()
	cfg := ServerConfig{
		Port:          getEnvDefault("PORT", "8000"),
		AllowedOrigin: getEnvDefault("ALLOWED_ORIGIN", "*"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:         getEnvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		PlansFile:     os.Getenv("VISIONLINK_PLANS_FILE"),
		ChatbotPrompt: os.Getenv("VISIONLINK_CHATBOT_PROMPT"),
		LogLevel:      getEnvDefault("VISIONLINK_LOG_LEVEL", "info"),
	}
	if cfg.OpenAIAPIKey == "" {
		log.Info().Msg("OPENAI_API_KEY is not set; chatbot uses keyword replies")
	}
	return cfg
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "visionlink")
	}
	return ".visionlink"
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring invalid duration")
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}
