package config

import (
	"flag"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	Mode         string
	DatabasePath string
	LogLevel     string
	AuthDelay    time.Duration
}

func Load() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".pingme")

	cfg := &Config{}

	flag.StringVar(&cfg.Mode, "mode", "interactive", "Run mode: interactive or headless")
	flag.StringVar(&cfg.DatabasePath, "db", getEnv("PINGME_DB_PATH", filepath.Join(dataDir, "pingme.db")), "Database file path")
	flag.StringVar(&cfg.LogLevel, "log-level", getEnv("PINGME_LOG_LEVEL", "warn"), "Log level: debug, info, warn, error")
	flag.DurationVar(&cfg.AuthDelay, "auth-delay", getEnvDuration("PINGME_AUTH_DELAY", time.Second), "Simulated latency for login and register")

	flag.Parse()

	// Ensure the data directory exists
	os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
