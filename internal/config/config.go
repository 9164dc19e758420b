package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"

	"franmap/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `validate:"required"`
	Database DatabaseConfig `validate:"required"`
	Data     DataConfig     `validate:"required"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string `validate:"required,numeric"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver string `validate:"required,oneof=sqlite postgres"`
	URL    string `validate:"required"`
}

// DataConfig holds the dataset source settings
type DataConfig struct {
	// File is the Excel or CSV source the dataset is loaded from at
	// startup. Required: there is no dashboard without data.
	File string `validate:"required"`

	// MaxTableRows caps the rows returned to the table view per request.
	MaxTableRows int `validate:"gt=0"`
}

var validate = validator.New()

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	dataFile := os.Getenv("DATA_FILE")
	if dataFile == "" {
		return nil, errors.ConfigInvalid("DATA_FILE is required (path to the Excel/CSV dataset)")
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Driver: getEnvOrDefault("DB_DRIVER", "sqlite"),
			URL:    getEnvOrDefault("DATABASE_URL", "franchise.db"),
		},
		Data: DataConfig{
			File:         dataFile,
			MaxTableRows: getEnvIntOrDefault("MAX_TABLE_ROWS", 500),
		},
	}

	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
