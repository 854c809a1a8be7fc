// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir           string // Base directory for the database and backup staging (always absolute)
	DatabasePath      string
	MarketDataBaseURL string
	FMPAPIKey         string // Financial Modeling Prep key for fundamentals fallback
	LogLevel          string
	Port              int
	DevMode           bool
	Sync              SyncConfig
	Backup            BackupConfig
}

// SyncConfig holds price synchronization settings
type SyncConfig struct {
	Enabled  bool
	Schedule string // cron expression with seconds field
}

// BackupConfig holds off-site database backup settings
type BackupConfig struct {
	Enabled         bool
	Bucket          string
	Endpoint        string // S3-compatible endpoint URL
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string // key prefix inside the bucket
	RetentionDays   int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Resolve the data directory to an absolute path and make sure it
	// exists before anything tries to open the database inside it.
	dataDir := getEnv("DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:           absDataDir,
		DatabasePath:      getEnv("DB_PATH", filepath.Join(absDataDir, "riskboard.db")),
		MarketDataBaseURL: getEnv("MARKET_DATA_BASE_URL", "https://query1.finance.yahoo.com"),
		FMPAPIKey:         getEnv("FMP_API_KEY", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Port:              getEnvAsInt("PORT", 8080),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		Sync: SyncConfig{
			Enabled: getEnvAsBool("SYNC_ENABLED", false),
			// Weekdays at 18:30 local, after US market close.
			Schedule: getEnv("SYNC_SCHEDULE", "0 30 18 * * MON-FRI"),
		},
		Backup: BackupConfig{
			Enabled:         getEnvAsBool("BACKUP_ENABLED", false),
			Bucket:          getEnv("BACKUP_BUCKET", ""),
			Endpoint:        getEnv("BACKUP_ENDPOINT", ""),
			Region:          getEnv("BACKUP_REGION", "auto"),
			AccessKeyID:     getEnv("BACKUP_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("BACKUP_SECRET_ACCESS_KEY", ""),
			Prefix:          getEnv("BACKUP_PREFIX", "riskboard"),
			RetentionDays:   getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.Sync.Enabled && c.Sync.Schedule == "" {
		return fmt.Errorf("SYNC_SCHEDULE is required when SYNC_ENABLED is set")
	}
	if c.Backup.Enabled {
		if c.Backup.Bucket == "" {
			return fmt.Errorf("BACKUP_BUCKET is required when BACKUP_ENABLED is set")
		}
		if c.Backup.AccessKeyID == "" || c.Backup.SecretAccessKey == "" {
			return fmt.Errorf("backup credentials are required when BACKUP_ENABLED is set")
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
