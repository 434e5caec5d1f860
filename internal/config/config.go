package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config represents the full terminal configuration surface.
type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Terminal  TerminalConfig
	Inventory InventoryConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// BackendConfig contains connection options for the remote retail REST API.
type BackendConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// TerminalConfig holds per-terminal sale settings.
type TerminalConfig struct {
	TaxRate              decimal.Decimal
	DefaultPaymentMethod string
}

// InventoryConfig controls the stock snapshot refresh cycle. The interval and
// jitter are deliberately configuration, not constants.
type InventoryConfig struct {
	RefreshInterval time.Duration
	RefreshJitter   time.Duration
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	timeout, err := parseDuration("BACKEND_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	interval, err := parseDuration("STOCK_REFRESH_INTERVAL", "30s")
	if err != nil {
		return nil, err
	}

	jitter, err := parseDuration("STOCK_REFRESH_JITTER", "3s")
	if err != nil {
		return nil, err
	}

	taxRate, err := decimal.NewFromString(getenvWithDefault("TAX_RATE", "0"))
	if err != nil {
		return nil, fmt.Errorf("TAX_RATE must be a decimal number: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Backend: BackendConfig{
			BaseURL: os.Getenv("BACKEND_BASE_URL"),
			APIKey:  os.Getenv("BACKEND_API_KEY"),
			Timeout: timeout,
		},
		Terminal: TerminalConfig{
			TaxRate:              taxRate,
			DefaultPaymentMethod: getenvWithDefault("DEFAULT_PAYMENT_METHOD", "Cash"),
		},
		Inventory: InventoryConfig{
			RefreshInterval: interval,
			RefreshJitter:   jitter,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Backend.BaseURL == "" {
		return errors.New("BACKEND_BASE_URL must be provided")
	}

	if c.Backend.Timeout <= 0 {
		return errors.New("BACKEND_TIMEOUT must be positive")
	}

	if c.Terminal.TaxRate.IsNegative() {
		return errors.New("TAX_RATE must not be negative")
	}

	if c.Terminal.DefaultPaymentMethod == "" {
		return errors.New("DEFAULT_PAYMENT_METHOD must not be empty")
	}

	if c.Inventory.RefreshInterval <= 0 {
		return errors.New("STOCK_REFRESH_INTERVAL must be positive")
	}

	if c.Inventory.RefreshJitter < 0 {
		return errors.New("STOCK_REFRESH_JITTER must not be negative")
	}

	return nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	value := getenvWithDefault(key, fallback)
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 30s: %w", key, err)
	}
	return d, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
