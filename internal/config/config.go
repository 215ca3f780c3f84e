package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `env:",prefix=SERVER_"`
	Database  DatabaseConfig  `env:",prefix=DB_"`
	Logger    LoggerConfig    `env:",prefix=LOG_"`
	Auth      AuthConfig      `env:",prefix=AUTH_"`
	CORS      CORSConfig      `env:",prefix=CORS_"`
	RateLimit RateLimitConfig `env:",prefix=RATE_LIMIT_"`
	S3        S3Config        `env:",prefix=S3_"`
	Vouchers  VoucherConfig   `env:",prefix=VOUCHER_"`
	Orders    OrderConfig     `env:",prefix=ORDER_"`
	MoMo      MoMoConfig      `env:",prefix=MOMO_"`
	ZaloPay   ZaloPayConfig   `env:",prefix=ZALOPAY_"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host            string        `env:"HOST,default=0.0.0.0"`
	Port            int           `env:"PORT,default=8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=30s"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string        `env:"HOST,default=localhost"`
	Port            int           `env:"PORT,default=5432"`
	User            string        `env:"USER,default=postgres"`
	Password        string        `env:"PASSWORD"`
	Database        string        `env:"NAME,default=edulearn"`
	MaxConnections  int           `env:"MAX_CONNECTIONS,default=25"`
	MinConnections  int           `env:"MIN_CONNECTIONS,default=5"`
	MaxConnLifetime time.Duration `env:"MAX_CONN_LIFETIME,default=5m"`
	RunMigrations   bool          `env:"RUN_MIGRATIONS,default=true"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `env:"LEVEL,default=info"`
	Format string `env:"FORMAT,default=json"` // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// JWTSecret verifies bearer tokens minted by the identity service.
	JWTSecret string `env:"JWT_SECRET"`
	// APIKey protects the /internal endpoints.
	APIKey string `env:"API_KEY"`
}

// CORSConfig holds allowed origins for browser clients.
type CORSConfig struct {
	Origins []string `env:"ORIGINS,default=*"`
}

// RateLimitConfig controls the per-client limiter on payment callbacks.
type RateLimitConfig struct {
	RPS   float64 `env:"RPS,default=10"`
	Burst int     `env:"BURST,default=20"`
}

// S3Config holds AWS S3 configuration for voucher import files.
type S3Config struct {
	Enabled bool   `env:"ENABLED,default=false"`
	Bucket  string `env:"BUCKET"`
	Region  string `env:"REGION,default=ap-southeast-1"`
	Prefix  string `env:"PREFIX,default=vouchers/"` // Path prefix within bucket
}

// VoucherConfig holds voucher import settings.
type VoucherConfig struct {
	ImportFiles []string `env:"IMPORT_FILES"`
}

// OrderConfig holds order lifecycle settings.
type OrderConfig struct {
	PendingTTL    time.Duration `env:"PENDING_TTL,default=2h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL,default=1m"`
}

// MoMoConfig holds MoMo wallet credentials.
type MoMoConfig struct {
	Enabled     bool   `env:"ENABLED,default=false"`
	Endpoint    string `env:"ENDPOINT,default=https://test-payment.momo.vn/v2/gateway/api/create"`
	PartnerCode string `env:"PARTNER_CODE"`
	AccessKey   string `env:"ACCESS_KEY"`
	SecretKey   string `env:"SECRET_KEY"`
	RedirectURL string `env:"REDIRECT_URL"`
	IPNURL      string `env:"IPN_URL"`
}

// ZaloPayConfig holds ZaloPay merchant credentials.
type ZaloPayConfig struct {
	Enabled     bool   `env:"ENABLED,default=false"`
	Endpoint    string `env:"ENDPOINT,default=https://sb-openapi.zalopay.vn/v2/create"`
	AppID       int    `env:"APP_ID"`
	Key1        string `env:"KEY1"`
	Key2        string `env:"KEY2"`
	CallbackURL string `env:"CALLBACK_URL"`
	RedirectURL string `env:"REDIRECT_URL"`
}

// Load loads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1 {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Orders.PendingTTL <= 0 {
		return fmt.Errorf("order pending TTL must be positive")
	}

	if c.Orders.SweepInterval <= 0 {
		return fmt.Errorf("order sweep interval must be positive")
	}

	if c.MoMo.Enabled {
		if c.MoMo.PartnerCode == "" || c.MoMo.AccessKey == "" || c.MoMo.SecretKey == "" {
			return fmt.Errorf("MoMo partner code, access key and secret key are required when MoMo is enabled")
		}
		if c.MoMo.IPNURL == "" || c.MoMo.RedirectURL == "" {
			return fmt.Errorf("MoMo IPN and redirect URLs are required when MoMo is enabled")
		}
	}

	if c.ZaloPay.Enabled {
		if c.ZaloPay.AppID == 0 || c.ZaloPay.Key1 == "" || c.ZaloPay.Key2 == "" {
			return fmt.Errorf("ZaloPay app ID, key1 and key2 are required when ZaloPay is enabled")
		}
		if c.ZaloPay.CallbackURL == "" {
			return fmt.Errorf("ZaloPay callback URL is required when ZaloPay is enabled")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
