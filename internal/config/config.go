// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
// It is built once by Load and treated as read-only afterwards.
type Config struct {
	DataDir   string // Base directory for the snapshot database (always absolute)
	DBPath    string
	Port      int
	LogLevel  string
	LogPretty bool
	LogFile   string
	DevMode   bool

	// Notification sink
	BotToken        string
	ChatID          string
	TelegramBaseURL string

	// Market data source
	NSEBaseURL string
	Symbol     string
	Location   *time.Location // Exchange timezone

	// Sampling
	SampleInterval time.Duration
	LookbackWindow time.Duration
	StrikeBandSize int
	FetchTimeout   time.Duration
	SendTimeout    time.Duration
	RetentionDays  int

	Backup BackupConfig
}

// BackupConfig holds optional off-site backup settings for the snapshot database
type BackupConfig struct {
	Bucket          string
	Region          string
	Endpoint        string // S3-compatible endpoint (R2, MinIO); empty means AWS
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

// Enabled reports whether a bucket has been configured
func (b BackupConfig) Enabled() bool {
	return b.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir, err := filepath.Abs(getEnv("DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	tzName := getEnv("EXCHANGE_TIMEZONE", "Asia/Kolkata")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange timezone %q: %w", tzName, err)
	}

	cfg := &Config{
		DataDir:         dataDir,
		DBPath:          getEnv("DB_FILE", filepath.Join(dataDir, "data.sqlite")),
		Port:            getEnvAsInt("PORT", 10000),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogPretty:       getEnvAsBool("LOG_PRETTY", true),
		LogFile:         getEnv("LOG_FILE", ""),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		BotToken:        strings.TrimSpace(getEnv("BOT_TOKEN", "")),
		ChatID:          strings.TrimSpace(getEnv("CHAT_ID", "")),
		TelegramBaseURL: getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		NSEBaseURL:      getEnv("NSE_BASE_URL", "https://www.nseindia.com"),
		Symbol:          getEnv("NSE_SYMBOL", "NIFTY"),
		Location:        loc,
		SampleInterval:  getEnvAsDuration("SAMPLE_INTERVAL", 5*time.Minute),
		LookbackWindow:  getEnvAsDuration("LOOKBACK_WINDOW", 5*time.Minute),
		StrikeBandSize:  getEnvAsInt("STRIKE_BAND_SIZE", 6),
		FetchTimeout:    getEnvAsDuration("FETCH_TIMEOUT", 15*time.Second),
		SendTimeout:     getEnvAsDuration("SEND_TIMEOUT", 10*time.Second),
		RetentionDays:   getEnvAsInt("RETENTION_DAYS", 0),
		Backup: BackupConfig{
			Bucket:          getEnv("BACKUP_S3_BUCKET", ""),
			Region:          getEnv("BACKUP_S3_REGION", "auto"),
			Endpoint:        getEnv("BACKUP_S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("BACKUP_S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("BACKUP_S3_SECRET_ACCESS_KEY", ""),
			Prefix:          getEnv("BACKUP_S3_PREFIX", "oi-sentinel"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the numeric settings are usable
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("sample interval must be positive, got %s", c.SampleInterval)
	}
	if c.LookbackWindow <= 0 {
		return fmt.Errorf("lookback window must be positive, got %s", c.LookbackWindow)
	}
	if c.FetchTimeout <= 0 || c.SendTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.StrikeBandSize < 1 {
		return fmt.Errorf("strike band size must be at least 1, got %d", c.StrikeBandSize)
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("retention days must not be negative, got %d", c.RetentionDays)
	}
	if c.Location == nil {
		return fmt.Errorf("exchange timezone is required")
	}
	return nil
}

// NotificationsEnabled reports whether both Telegram credentials are present.
// Missing credentials disable sending without failing startup.
func (c *Config) NotificationsEnabled() bool {
	return c.BotToken != "" && c.ChatID != ""
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
