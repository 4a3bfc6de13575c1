package server

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the HTTP service settings. Values come from built-in
// defaults, overridden by an optional TOML file, overridden in turn by
// environment variables.
type Config struct {
	Port         string `toml:"port"`
	Environment  string `toml:"environment"`
	CSVPath      string `toml:"csv_path"`
	ReadTimeout  int    `toml:"read_timeout"`
	WriteTimeout int    `toml:"write_timeout"`
}

// LoadConfig builds the configuration. path may be empty to skip the
// TOML file.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Port:         "8000",
		Environment:  "development",
		CSVPath:      "apartments.csv",
		ReadTimeout:  10,
		WriteTimeout: 30,
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENV", cfg.Environment)
	cfg.CSVPath = getEnv("CSV_PATH", cfg.CSVPath)
	cfg.ReadTimeout = getEnvAsInt("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", cfg.WriteTimeout)
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
