package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath            string
	ServerPort        string
	LogLevel          string
	AdminJWTSecret    string
	DiscordWebhookURL string
	// emit zero-point drivers that have no results yet
	FullRoster bool
	NotifyTopN int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:            getEnv("DB_PATH", "championship.db"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		AdminJWTSecret:    getEnv("ADMIN_JWT_SECRET", ""),
		DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		FullRoster:        getEnvBool("STANDINGS_FULL_ROSTER", false),
		NotifyTopN:        getEnvInt("NOTIFY_TOP_N", 5),
	}

	if cfg.NotifyTopN < 1 {
		return nil, fmt.Errorf("NOTIFY_TOP_N must be positive, got %d", cfg.NotifyTopN)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Bool("full_roster", cfg.FullRoster).
		Bool("discord_enabled", cfg.DiscordWebhookURL != "").
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

var Module = fx.Provide(Load)
