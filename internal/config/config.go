package config

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Bot     BotConfig     `json:"bot"`
	Storage StorageConfig `json:"storage"`
	Logging LoggingConfig `json:"logging"`
}

type BotConfig struct {
	Token    string `json:"token"`
	ClientID string `json:"client_id"`
}

type StorageConfig struct {
	DatabasePath string `json:"database_path"`
}

type LoggingConfig struct {
	Level       string `json:"level"`
	Development bool   `json:"development"`
}

// Load reads the JSON config file and applies environment overrides.
// A .env file in the working directory is honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// LoadOrDefault falls back to defaults (still honoring env vars) when the
// config file is missing or unreadable.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		cfg = DefaultConfig()
		_ = godotenv.Load()
		applyEnvOverrides(cfg)
	}
	return cfg
}

func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			DatabasePath: "denmanager.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		cfg.Bot.Token = token
	}
	if clientID := os.Getenv("CLIENT_ID"); clientID != "" {
		cfg.Bot.ClientID = clientID
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.Storage.DatabasePath = dbPath
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
