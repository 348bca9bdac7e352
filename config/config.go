package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"raffle/database"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP boundary
	HTTPAddr    string
	AdminAPIKey string

	// Notification relay (empty servers disables it)
	NATSServers         string
	NotificationSubject string

	// Draw announcements
	DiscordToken     string
	DiscordChannelID string

	// Draw resolution worker
	AutoResolveDraws   bool
	ResolveIdleBackoff time.Duration // How long the worker sleeps when no draw is pending
	ResolveRetryDelay  time.Duration // How long the worker waits before retrying an overdue draw

	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// AnnouncerEnabled reports whether draw outcomes should be posted to Discord
func (c *Config) AnnouncerEnabled() bool {
	return c.DiscordToken != "" && c.DiscordChannelID != ""
}

// NotificationRelayEnabled reports whether notifications are relayed over NATS
func (c *Config) NotificationRelayEnabled() bool {
	return strings.TrimSpace(c.NATSServers) != ""
}

// load loads configuration from the environment, reading a .env file first when present
func load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		HTTPAddr:    getEnvWithDefault("HTTP_ADDR", ":8080"),
		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		NATSServers:         os.Getenv("NATS_SERVERS"),
		NotificationSubject: getEnvWithDefault("NOTIFICATION_SUBJECT", "raffle.notifications"),

		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),

		AutoResolveDraws:   os.Getenv("AUTO_RESOLVE_DRAWS") == "true",
		ResolveIdleBackoff: time.Hour,
		ResolveRetryDelay:  30 * time.Second,

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if backoff := os.Getenv("RESOLVE_IDLE_BACKOFF_SECONDS"); backoff != "" {
		if seconds, err := strconv.Atoi(backoff); err == nil && seconds > 0 {
			config.ResolveIdleBackoff = time.Duration(seconds) * time.Second
		}
	}
	if retry := os.Getenv("RESOLVE_RETRY_SECONDS"); retry != "" {
		if seconds, err := strconv.Atoi(retry); err == nil && seconds > 0 {
			config.ResolveRetryDelay = time.Duration(seconds) * time.Second
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.AdminAPIKey == "" {
			return nil, fmt.Errorf("ADMIN_API_KEY is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:         "test",
		HTTPAddr:            ":0",
		AdminAPIKey:         "test-admin-key",
		NotificationSubject: "raffle.notifications",
		ResolveIdleBackoff:  time.Hour,
		ResolveRetryDelay:   30 * time.Second,
		LogLevel:            "debug",
	}
}
