package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"guildledger/database"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string `validate:"required"`
	GuildID      string // Register commands to this guild only; empty registers globally

	// Database configuration
	DatabaseURL  string `validate:"required"`
	DatabaseName string

	// Economy defaults, overridable per guild
	DefaultMinBet           int64   `validate:"gte=1"`
	DefaultMaxBet           int64   `validate:"gtefield=DefaultMinBet"`
	DefaultHouseEdge        float64 `validate:"gte=0,lt=0.5"`
	DefaultDailyAmount      int64   `validate:"gte=0"`
	DefaultCurrency         string
	DefaultGamblingEnabled  bool
	DefaultGamblingChannel  int64
	DefaultBankerRoleID     int64
	DefaultPayoutMode       string        `validate:"oneof=gross net"`
	DailyCooldown           time.Duration `validate:"gt=0"`

	// Live round configuration
	BlackjackTimeout  time.Duration `validate:"gte=20s,lte=180s"`
	HiLoTimeout       time.Duration `validate:"gte=20s,lte=180s"`
	CrashTimeout      time.Duration `validate:"gte=20s,lte=180s"`
	CrashTickInterval time.Duration `validate:"gt=0"`

	// Rate limiting
	WagerRateLimit  int           `validate:"gte=0"`
	WagerRateWindow time.Duration `validate:"gt=0"`

	// Redis configuration (optional, enables the shared rate limiter)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// NATS configuration (optional, comma-separated servers)
	NATSServers string

	// Logging configuration
	LogLevel  string `validate:"oneof=trace debug info warn error"`
	LogFormat string `validate:"oneof=text json"`
	LogFile   string
	SentryDSN string

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string `validate:"oneof=console otlp none"`
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

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

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
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

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsTest reports whether the process runs in the test environment
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment directly
	_ = godotenv.Load()

	config := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("GUILD_ID"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		DefaultMinBet:          getInt64("DEFAULT_MIN_BET", 10),
		DefaultMaxBet:          getInt64("DEFAULT_MAX_BET", 50000),
		DefaultHouseEdge:       getFloat("DEFAULT_HOUSE_EDGE", 0.02),
		DefaultDailyAmount:     getInt64("DEFAULT_DAILY_AMOUNT", 500),
		DefaultCurrency:        getEnvWithDefault("DEFAULT_CURRENCY", "🍀"),
		DefaultGamblingEnabled: getBool("DEFAULT_GAMBLING_ENABLED", true),
		DefaultGamblingChannel: getInt64("DEFAULT_GAMBLING_CHANNEL_ID", 0),
		DefaultBankerRoleID:    getInt64("DEFAULT_BANKER_ROLE_ID", 0),
		DefaultPayoutMode:      getEnvWithDefault("DEFAULT_PAYOUT_MODE", "gross"),
		DailyCooldown:          getDuration("DAILY_COOLDOWN", 23*time.Hour+30*time.Minute),

		BlackjackTimeout:  getDuration("BLACKJACK_TIMEOUT", 120*time.Second),
		HiLoTimeout:       getDuration("HILO_TIMEOUT", 60*time.Second),
		CrashTimeout:      getDuration("CRASH_TIMEOUT", 30*time.Second),
		CrashTickInterval: getDuration("CRASH_TICK_INTERVAL", time.Second),

		WagerRateLimit:  int(getInt64("WAGER_RATE_LIMIT", 5)),
		WagerRateWindow: getDuration("WAGER_RATE_WINDOW", 10*time.Second),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       int(getInt64("REDIS_DB", 0)),

		NATSServers: os.Getenv("NATS_SERVERS"),

		LogLevel:  strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnvWithDefault("LOG_FORMAT", "text")),
		LogFile:   os.Getenv("LOG_FILE"),
		SentryDSN: os.Getenv("SENTRY_DSN"),

		OTelEnabled:              getBool("OTEL_ENABLED", false),
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "guildledger"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelExportIntervalMillis: int(getInt64("OTEL_EXPORT_INTERVAL_MILLIS", 60000)),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if err := validator.New().Struct(config); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		// If DatabaseName is provided, ensure it's not empty
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

func getInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:            "test",
		DefaultMinBet:          10,
		DefaultMaxBet:          50000,
		DefaultHouseEdge:       0.02,
		DefaultDailyAmount:     500,
		DefaultCurrency:        "🍀",
		DefaultGamblingEnabled: true,
		DefaultPayoutMode:      "gross",
		DailyCooldown:          23*time.Hour + 30*time.Minute,
		BlackjackTimeout:       120 * time.Second,
		HiLoTimeout:            60 * time.Second,
		CrashTimeout:           30 * time.Second,
		CrashTickInterval:      time.Second,
		WagerRateLimit:         5,
		WagerRateWindow:        10 * time.Second,
		LogLevel:               "info",
		LogFormat:              "text",
		OTelServiceName:        "guildledger",
		OTelExporterType:       "none",
	}
}
