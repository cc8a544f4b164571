package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	DataDir      string
	StoreBackend string
	DBPath       string
	ServerPort   string
	BestiaryCSV  string
	LogLevel     string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DataDir:      getEnv("DATA_DIR", "data"),
		StoreBackend: getEnv("STORE_BACKEND", BackendFile),
		DBPath:       getEnv("DB_PATH", "hunts.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		BestiaryCSV:  getEnv("BESTIARY_CSV", "data/monster_difficulty.csv"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	if cfg.StoreBackend != BackendFile && cfg.StoreBackend != BackendSQLite {
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendFile, BackendSQLite, cfg.StoreBackend)
	}

	logger.Info().
		Str("data_dir", cfg.DataDir).
		Str("store_backend", cfg.StoreBackend).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
