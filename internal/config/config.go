package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// OMDb
	OMDbURL    string
	OMDbAPIKey string

	// Detail cache
	CacheTTLMinutes int // Minutes a detail snapshot survives after its screen is released (default: 5)

	// Enrichment
	EnrichCron string // Cron expression for the enrichment sweep; empty disables it

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/gowatcharr.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("OMDB_URL", "https://www.omdbapi.com/")
	viper.SetDefault("CACHE_TTL_MINUTES", 5)
	viper.SetDefault("ENRICH_CRON", "0 * * * *")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "gowatcharr")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// OMDb
		OMDbURL:    viper.GetString("OMDB_URL"),
		OMDbAPIKey: viper.GetString("OMDB_API_KEY"),

		// Detail cache
		CacheTTLMinutes: viper.GetInt("CACHE_TTL_MINUTES"),

		// Enrichment
		EnrichCron: viper.GetString("ENRICH_CRON"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		DatabaseFile: filepath.Join(configDir, "gowatcharr.db"),

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate required fields
	if config.OMDbAPIKey == "" {
		return nil, fmt.Errorf("OMDB_API_KEY is required")
	}
	if config.CacheTTLMinutes <= 0 {
		return nil, fmt.Errorf("CACHE_TTL_MINUTES must be positive")
	}

	return config, nil
}
