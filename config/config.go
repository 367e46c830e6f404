package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Gateway environments.
const (
	GatewayEnvLive = "live"
	GatewayEnvTest = "test"
)

// Notification providers.
const (
	NotifierResend = "resend"
	NotifierSMTP   = "smtp"
	NotifierLog    = "log"
)

// ErrSecretNotConfigured is returned when the signing secret for the active
// gateway environment is empty.
var ErrSecretNotConfigured = errors.New("webhook signing secret not configured")

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// MigrateURL returns the connection string in the form golang-migrate's
// pgx/v5 driver expects.
func (d DatabaseConfig) MigrateURL() string {
	return "pgx5" + strings.TrimPrefix(d.DSN(), "postgres")
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// GatewayConfig selects which signing secret is active.
type GatewayConfig struct {
	Env             string `mapstructure:"env"` // live, test
	SecretLive      string `mapstructure:"secret_live"`
	SecretTest      string `mapstructure:"secret_test"`
	SignatureHeader string `mapstructure:"signature_header"`
	EventIDHeader   string `mapstructure:"event_id_header"`
	WebhookPath     string `mapstructure:"webhook_path"`
}

// Secret returns the signing secret for the active environment. It never
// falls back to the other environment's secret.
func (g GatewayConfig) Secret() ([]byte, error) {
	var secret string
	switch g.Env {
	case GatewayEnvLive:
		secret = g.SecretLive
	case GatewayEnvTest:
		secret = g.SecretTest
	default:
		return nil, fmt.Errorf("%w: unknown gateway env %q", ErrSecretNotConfigured, g.Env)
	}
	if secret == "" {
		return nil, fmt.Errorf("%w: env %s", ErrSecretNotConfigured, g.Env)
	}
	return []byte(secret), nil
}

type WebhookConfig struct {
	RetryOnStoreFailure bool  `mapstructure:"retry_on_store_failure"`
	MaxBodyBytes        int64 `mapstructure:"max_body_bytes"`
}

type NotifierConfig struct {
	Provider string        `mapstructure:"provider"` // resend, smtp, log
	APIKey   string        `mapstructure:"api_key"`
	From     string        `mapstructure:"from"`
	Timeout  time.Duration `mapstructure:"timeout"`
	SMTP     SMTPConfig    `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Addr returns the SMTP server address.
func (s SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Validate checks enumerated settings. Secrets are deliberately not required
// here: a missing secret rejects deliveries at request time.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	switch c.Gateway.Env {
	case GatewayEnvLive, GatewayEnvTest:
	default:
		return fmt.Errorf("gateway.env must be %q or %q, got %q", GatewayEnvLive, GatewayEnvTest, c.Gateway.Env)
	}
	switch c.Notifier.Provider {
	case NotifierResend, NotifierSMTP, NotifierLog:
	default:
		return fmt.Errorf("unknown notifier.provider %q", c.Notifier.Provider)
	}
	if !strings.HasPrefix(c.Gateway.WebhookPath, "/") {
		return fmt.Errorf("gateway.webhook_path must start with /")
	}
	if c.Webhook.MaxBodyBytes <= 0 {
		return fmt.Errorf("webhook.max_body_bytes must be positive")
	}
	return nil
}

// Load reads configuration from .env, file and environment variables.
// Environment variables override file values. Prefix: PWH_ (Payment WebHook).
// Nested keys use underscore: PWH_GATEWAY_SECRET_LIVE, PWH_NOTIFIER_API_KEY, etc.
func Load(path string) (*Config, error) {
	// A local .env is optional; variables already set in the process win.
	_ = godotenv.Load()

	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "payments")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.write_timeout", "10s")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("gateway.env", GatewayEnvTest)
	v.SetDefault("gateway.secret_live", "")
	v.SetDefault("gateway.secret_test", "")
	v.SetDefault("gateway.signature_header", "X-Razorpay-Signature")
	v.SetDefault("gateway.event_id_header", "X-Razorpay-Event-Id")
	v.SetDefault("gateway.webhook_path", "/webhooks/razorpay")
	v.SetDefault("webhook.retry_on_store_failure", false)
	v.SetDefault("webhook.max_body_bytes", 1<<20)
	v.SetDefault("notifier.provider", NotifierLog)
	v.SetDefault("notifier.api_key", "")
	v.SetDefault("notifier.from", "")
	v.SetDefault("notifier.timeout", "10s")
	v.SetDefault("notifier.smtp.host", "localhost")
	v.SetDefault("notifier.smtp.port", 587)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "12h")
	v.SetDefault("jwt.issuer", "payment-webhook")
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: PWH_GATEWAY_ENV -> gateway.env
	v.SetEnvPrefix("PWH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
