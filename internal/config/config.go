// Package config loads the server configuration from the environment.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every knob the server needs. All values come from the
// environment; the initializer loads a .env file first when one exists, so
// nothing in the workflow code reaches for ambient lookups.
type Config struct {
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"INFO"`
	Port        string `env:"PORT" env-default:"8080"`

	// Domain is the public site domain embedded into activation links.
	Domain string `env:"SITE_DOMAIN" env-default:"localhost:8080"`

	Database DatabaseConfig
	Redis    RedisConfig
	Mail     MailConfig
	Auth     AuthConfig
}

// DatabaseConfig holds the postgres coordinates.
type DatabaseConfig struct {
	Host     string `env:"DB_HOST" env-required:"true"`
	Port     string `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-required:"true"`
	Password string `env:"DB_PASS" env-required:"true"`
	Name     string `env:"DB_NAME" env-required:"true"`
}

// RedisConfig holds the session and basket store coordinates.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// MailConfig holds the mailgun coordinates.
type MailConfig struct {
	Domain string `env:"MAILGUN_DOMAIN" env-default:"mail.bookstore.example"`
	APIKey string `env:"MAILGUN_API_KEY" env-default:""`
	Sender string `env:"MAIL_SENDER" env-default:"Bookstore <team@mail.bookstore.example>"`
}

// AuthConfig holds the token secrets and lifetimes.
type AuthConfig struct {
	KeyPairPath string `env:"KEY_PAIR_PATH" env-default:"keypair.bin"`

	// ActivationSecret keys the activation token HMAC.
	ActivationSecret string `env:"ACTIVATION_SECRET" env-required:"true"`

	// ActivationExpiryHours bounds the activation token lifetime, measured
	// in one-hour time buckets.
	ActivationExpiryHours int `env:"ACTIVATION_EXPIRY_HOURS" env-default:"48"`

	// SessionTTLHours bounds login sessions in redis and the JWT exp claim.
	SessionTTLHours int `env:"SESSION_TTL_HOURS" env-default:"24"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// DSN renders the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}
