package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"smokeybot/database"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string
	GuildID      string // Primary Discord guild ID (empty = global command registration)

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Game configuration
	DefaultPrefix      string        // Text-command prefix used when a guild has not set one
	SpawnCheckInterval time.Duration // How often the spawn worker scans enabled guilds
	WeatherInterval    time.Duration // How often each guild's boost category rotates
	GlobalCooldown     time.Duration // Gate between non-catch game commands per guild

	// Delivery queue configuration
	SendInterval          time.Duration // Base dequeue cadence for outbound sends
	RateLimitedMultiplier int           // Interval multiplier while Discord reports rate limiting

	// Emote sync configuration
	EmoteUploadInterval time.Duration // Cadence of the shared emote upload consumer

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated), empty = events disabled

	// OpenTelemetry configuration
	OTelEnabled      bool
	OTelExporterType string // "otlp" or "console"
	OTelEndpoint     string
	OTelServiceName  string

	// Environment
	Environment string // "development" or "production"
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

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
				instance.DiscordToken = "test-token"
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Set replaces the global configuration instance. Intended for tests.
func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("GUILD_ID"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Game settings with defaults
		DefaultPrefix:      getEnvWithDefault("DEFAULT_PREFIX", "~"),
		SpawnCheckInterval: getDurationWithDefault("SPAWN_CHECK_INTERVAL", 30*time.Second),
		WeatherInterval:    getDurationWithDefault("WEATHER_INTERVAL", 30*time.Minute),
		GlobalCooldown:     getDurationWithDefault("GLOBAL_COOLDOWN", 15*time.Second),

		// Delivery queue
		SendInterval:          getDurationWithDefault("SEND_INTERVAL", time.Second),
		RateLimitedMultiplier: 10,

		// Emote sync
		EmoteUploadInterval: getDurationWithDefault("EMOTE_UPLOAD_INTERVAL", 10*time.Second),

		// NATS
		NATSServers: os.Getenv("NATS_SERVERS"),

		// OpenTelemetry
		OTelExporterType: getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelEndpoint:     os.Getenv("OTEL_ENDPOINT"),
		OTelServiceName:  getEnvWithDefault("OTEL_SERVICE_NAME", "smokeybot"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if enabled := os.Getenv("OTEL_ENABLED"); enabled != "" {
		if parsed, err := strconv.ParseBool(enabled); err == nil {
			config.OTelEnabled = parsed
		}
	}

	if multiplier := os.Getenv("RATE_LIMITED_MULTIPLIER"); multiplier != "" {
		if parsed, err := strconv.Atoi(multiplier); err == nil && parsed > 0 {
			config.RateLimitedMultiplier = parsed
		}
	}

	// Validate required fields
	if config.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return config, nil
}

// NewTestConfig creates a configuration suitable for tests
func NewTestConfig() *Config {
	return &Config{
		DefaultPrefix:         "~",
		SpawnCheckInterval:    30 * time.Second,
		WeatherInterval:       30 * time.Minute,
		GlobalCooldown:        15 * time.Second,
		SendInterval:          time.Second,
		RateLimitedMultiplier: 10,
		EmoteUploadInterval:   10 * time.Second,
		OTelServiceName:       "smokeybot-test",
		Environment:           "test",
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
