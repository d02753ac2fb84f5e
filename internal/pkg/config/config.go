package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ManuelReschke/PayFox/internal/pkg/env"
)

const (
	defaultPremadeProductID = "prod_Qv6PIuYELoWeK6"
	defaultPremadeAccountID = "acct_1Q35XsQ8ogKFGPdO"
	defaultDownstreamURL    = "http://127.0.0.1:8000/api"
)

// Config is read once at startup and passed to every component that needs it.
type Config struct {
	AppHost string
	AppPort string
	AppEnv  string

	StripeSecretKey      string
	StripeAccountCountry string

	// PremadeProductID and PremadeAccountID back the invoice path that reuses
	// both an existing product and an existing customer.
	PremadeProductID string
	PremadeAccountID string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	CacheHost     string
	CachePort     string
	CachePassword string

	DownstreamURL     string
	DownstreamTimeout time.Duration

	WebhookWorkers    int
	WebhookMaxRetries int
	WebhookRetryDelay time.Duration

	PasswordRequireSpecial bool
}

// Load builds the Config from the env package (loaded .env file first, then
// the process environment).
func Load() (*Config, error) {
	secret := strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", ""))
	if secret == "" {
		// older deployments still carry the previous variable name
		secret = strings.TrimSpace(env.GetEnv("STRIPE_PUBLIC_TEST_KEY", ""))
	}
	if secret == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY environment variable is required")
	}

	workers, err := intEnv("WEBHOOK_WORKERS", 3)
	if err != nil {
		return nil, err
	}
	maxRetries, err := intEnv("WEBHOOK_MAX_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	retryDelay, err := durationEnv("WEBHOOK_RETRY_DELAY", 30*time.Second)
	if err != nil {
		return nil, err
	}
	downstreamTimeout, err := durationEnv("DOWNSTREAM_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	requireSpecial, err := boolEnv("PASSWORD_REQUIRE_SPECIAL", false)
	if err != nil {
		return nil, err
	}

	db := LoadDatabase()
	return &Config{
		DBHost:     db.DBHost,
		DBPort:     db.DBPort,
		DBUser:     db.DBUser,
		DBPassword: db.DBPassword,
		DBName:     db.DBName,

		AppHost: env.GetEnv("APP_HOST", "localhost"),
		AppPort: env.GetEnv("APP_PORT", "4000"),
		AppEnv:  env.GetEnv("APP_ENV", "prod"),

		StripeSecretKey:      secret,
		StripeAccountCountry: strings.ToUpper(env.GetEnv("STRIPE_ACCOUNT_COUNTRY", "GB")),

		PremadeProductID: env.GetEnv("STRIPE_PREMADE_PRODUCT_ID", defaultPremadeProductID),
		PremadeAccountID: env.GetEnv("STRIPE_PREMADE_ACCOUNT_ID", defaultPremadeAccountID),

		CacheHost:     env.GetEnv("CACHE_HOST", "localhost"),
		CachePort:     env.GetEnv("CACHE_PORT", "6379"),
		CachePassword: env.GetEnv("CACHE_PASSWORD", ""),

		DownstreamURL:     strings.TrimRight(env.GetEnv("DOWNSTREAM_URL", defaultDownstreamURL), "/"),
		DownstreamTimeout: downstreamTimeout,

		WebhookWorkers:    workers,
		WebhookMaxRetries: maxRetries,
		WebhookRetryDelay: retryDelay,

		PasswordRequireSpecial: requireSpecial,
	}, nil
}

// LoadDatabase reads only the database settings. cmd/migrate uses it so
// migrations run without payment credentials.
func LoadDatabase() *Config {
	return &Config{
		DBHost:     env.GetEnv("DB_HOST", "127.0.0.1"),
		DBPort:     env.GetEnv("DB_PORT", "3306"),
		DBUser:     env.GetEnv("DB_USER", ""),
		DBPassword: env.GetEnv("DB_PASSWORD", ""),
		DBName:     env.GetEnv("DB_NAME", ""),
	}
}

// IsDev reports whether the app runs in development mode.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

// MySQLDSN returns the gorm/mysql data source name.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// MigrateURL returns the golang-migrate database URL.
func (c *Config) MigrateURL() string {
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func intEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(env.GetEnv(key, ""))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(env.GetEnv(key, ""))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := strings.TrimSpace(env.GetEnv(key, ""))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
