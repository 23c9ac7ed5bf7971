package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultLottoAPIURL = "https://www.dhlottery.co.kr/common.do?method=getLottoNumber&drwNo="
)

// Config holds all application configuration
type Config struct {
	// Draw source configuration
	LottoAPIURL      string
	FetchTimeout     time.Duration
	FetchRate        float64 // requests per second, 0 disables limiting
	FetchBurst       int
	SearchUpperBound int // 0 derives the bound from the calendar
	SearchFloor      int
	SearchMargin     int

	// Ticket configuration
	MaxTicketSets int

	// HTTP API configuration
	HTTPAddr string // empty disables the HTTP API

	// Discord configuration
	DiscordToken string // empty disables the bot
	GuildID      string

	// NATS configuration
	NATSServers string // empty disables event publishing

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelServiceName          string
	OTelExportIntervalMillis int

	// Environment
	Environment string // "development", "production" or "test"
	LogLevel    string
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
		loadDotEnv()

		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Load reads and validates configuration from the environment without
// touching the global instance.
func Load() (*Config, error) {
	return load()
}

// loadDotEnv loads an optional .env file. Variables already set win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithError(err).Warn("Failed to load .env file")
	}
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		LottoAPIURL:      getEnvWithDefault("LOTTO_API_URL", DefaultLottoAPIURL),
		FetchTimeout:     5 * time.Second,
		FetchRate:        10,
		FetchBurst:       5,
		SearchUpperBound: 0,
		SearchFloor:      1,
		SearchMargin:     2,

		MaxTicketSets: 100,

		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":8080"),

		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("GUILD_ID"),

		NATSServers: os.Getenv("NATS_SERVERS"),

		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "lottocheck"),
		OTelExportIntervalMillis: 60000,

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
	}

	// HTTP_ADDR may be explicitly emptied to disable the API
	if addr, ok := os.LookupEnv("HTTP_ADDR"); ok {
		config.HTTPAddr = strings.TrimSpace(addr)
	}

	var errs []error
	if v := os.Getenv("LOTTO_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("LOTTO_FETCH_TIMEOUT: %w", err))
		}
		config.FetchTimeout = d
	}
	if v := os.Getenv("LOTTO_FETCH_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("LOTTO_FETCH_RATE: %w", err))
		}
		config.FetchRate = rate
	}
	if v := os.Getenv("OTEL_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("OTEL_ENABLED: %w", err))
		}
		config.OTelEnabled = enabled
	}
	errs = append(errs,
		getEnvInt("LOTTO_FETCH_BURST", &config.FetchBurst),
		getEnvInt("LOTTO_SEARCH_UPPER_BOUND", &config.SearchUpperBound),
		getEnvInt("LOTTO_SEARCH_FLOOR", &config.SearchFloor),
		getEnvInt("LOTTO_SEARCH_MARGIN", &config.SearchMargin),
		getEnvInt("LOTTO_MAX_SETS", &config.MaxTicketSets),
		getEnvInt("OTEL_EXPORT_INTERVAL_MS", &config.OTelExportIntervalMillis),
	)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("LOTTO_FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if c.FetchRate < 0 {
		return fmt.Errorf("LOTTO_FETCH_RATE cannot be negative")
	}
	if c.FetchRate > 0 && c.FetchBurst < 1 {
		return fmt.Errorf("LOTTO_FETCH_BURST must be at least 1 when rate limiting is enabled")
	}
	if c.SearchFloor < 1 {
		return fmt.Errorf("LOTTO_SEARCH_FLOOR must be at least 1, got %d", c.SearchFloor)
	}
	if c.SearchUpperBound != 0 && c.SearchUpperBound < c.SearchFloor {
		return fmt.Errorf("LOTTO_SEARCH_UPPER_BOUND %d is below LOTTO_SEARCH_FLOOR %d", c.SearchUpperBound, c.SearchFloor)
	}
	if c.SearchMargin < 0 {
		return fmt.Errorf("LOTTO_SEARCH_MARGIN cannot be negative")
	}
	if c.MaxTicketSets < 1 {
		return fmt.Errorf("LOTTO_MAX_SETS must be at least 1, got %d", c.MaxTicketSets)
	}
	if c.DiscordToken != "" && c.GuildID == "" && c.Environment == "production" {
		return fmt.Errorf("GUILD_ID is required when DISCORD_TOKEN is set in production")
	}
	return nil
}

// ConfigureLogging applies the log level and formatter
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("level", c.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if c.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt overwrites dst when key is set
func getEnvInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
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
		LottoAPIURL:      DefaultLottoAPIURL,
		FetchTimeout:     time.Second,
		SearchUpperBound: 0,
		SearchFloor:      1,
		SearchMargin:     2,
		MaxTicketSets:    100,
		OTelExporterType: "none",
		OTelServiceName:  "lottocheck",
		Environment:      "test",
		LogLevel:         "debug",
	}
}
