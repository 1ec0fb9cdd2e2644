package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment   string
	IsProduction  bool
	IsDevelopment bool

	// Logging
	LogLevel string
	LogDir   string

	// HTTP API
	HTTPAddr  string
	JWTSecret string

	// MongoDB
	MongoDBURI      string
	MongoDBDatabase string

	// Selection
	DefaultExcludeDays    int
	HistoryRetentionDays  int
	RetentionSweepMinutes int

	// Discord bot
	DiscordToken  string
	CommandPrefix string

	// Importer
	ImportURL             string
	ImportUserID          string
	ImportItemSelector    string
	ImportNameSelector    string
	ImportCuisineSelector string
	ImportRatingSelector  string
	ImportAddressSelector string
	ImportTagSelector     string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Environment:           getEnv("ENVIRONMENT", "development"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogDir:                getEnv("LOG_DIR", "logs"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		MongoDBURI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDBDatabase:       getEnv("MONGODB_DATABASE", ""),
		DiscordToken:          getEnv("DISCORD_TOKEN", ""),
		CommandPrefix:         getEnv("COMMAND_PREFIX", "!"),
		ImportURL:             getEnv("IMPORT_URL", ""),
		ImportUserID:          getEnv("IMPORT_USER_ID", ""),
		ImportItemSelector:    getEnv("IMPORT_ITEM_SELECTOR", "li.restaurant"),
		ImportNameSelector:    getEnv("IMPORT_NAME_SELECTOR", ".name"),
		ImportCuisineSelector: getEnv("IMPORT_CUISINE_SELECTOR", ".cuisine"),
		ImportRatingSelector:  getEnv("IMPORT_RATING_SELECTOR", ".rating"),
		ImportAddressSelector: getEnv("IMPORT_ADDRESS_SELECTOR", ".address"),
		ImportTagSelector:     getEnv("IMPORT_TAG_SELECTOR", ".tag"),
	}

	// Derived properties
	cfg.IsProduction = cfg.Environment == "production"
	cfg.IsDevelopment = !cfg.IsProduction

	if cfg.MongoDBDatabase == "" {
		cfg.MongoDBDatabase = "mealroulette"
		if cfg.IsDevelopment {
			cfg.MongoDBDatabase = "mealroulette_dev"
		}
	}

	// Parse numeric values
	var err error
	if cfg.DefaultExcludeDays, err = getEnvInt("DEFAULT_EXCLUDE_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.HistoryRetentionDays, err = getEnvInt("HISTORY_RETENTION_DAYS", 365); err != nil {
		return nil, err
	}
	if cfg.RetentionSweepMinutes, err = getEnvInt("RETENTION_SWEEP_MINUTES", 60); err != nil {
		return nil, err
	}

	if cfg.DefaultExcludeDays < 0 || cfg.DefaultExcludeDays > 365 {
		return nil, fmt.Errorf("DEFAULT_EXCLUDE_DAYS must be between 0 and 365")
	}
	if cfg.RetentionSweepMinutes <= 0 {
		cfg.RetentionSweepMinutes = 60
	}

	return cfg, nil
}

// ValidateServer checks the configuration required by the HTTP API
func (c *Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	return nil
}

// ValidateBot checks the configuration required by the Discord bot
func (c *Config) ValidateBot() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN environment variable is required")
	}
	return nil
}

// ValidateImporter checks the configuration required for an HTML import
func (c *Config) ValidateImporter() error {
	if c.ImportURL == "" {
		return fmt.Errorf("IMPORT_URL environment variable is required")
	}
	if c.ImportUserID == "" {
		return fmt.Errorf("IMPORT_USER_ID environment variable is required")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
