package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string `env:"APP_NAME" envDefault:"Inkpost"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"` // 'development' or 'production'

	// Database (sqlite or pgx)
	DBDriver     string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBConnection string `env:"DB_CONNECTION" envDefault:"./data/inkpost.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"`

	// Security
	JWTSecret string        `env:"JWT_SECRET" envDefault:"inkpost-dev-secret"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"168h"`

	Session Session `envPrefix:"SESSION_"`
	Storage Storage `envPrefix:"S3_"`

	// Views
	PageSize          int   `env:"PAGE_SIZE" envDefault:"5"`
	AttachmentMaxSize int64 `env:"ATTACHMENT_MAX_SIZE" envDefault:"5242880"` // 5MB

	// Observability (optional)
	SentryDSN string `env:"SENTRY_DSN"`
}

// Session controls where the signed-in session is persisted between runs
// and how auth events reach other processes sharing it.
type Session struct {
	Driver   string `env:"DRIVER" envDefault:"file"` // "file" or "redis"
	File     string `env:"FILE" envDefault:"./data/session.jwt"`
	Key      string `env:"KEY" envDefault:"default"` // Redis key suffix / channel name
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
}

// Storage configures the S3-compatible object store (AWS S3, MinIO, R2, ...).
type Storage struct {
	Driver    string `env:"DRIVER" envDefault:"s3"` // "s3" or "minio"
	Region    string `env:"REGION" envDefault:"us-east-1"`
	Bucket    string `env:"BUCKET" envDefault:"inkpost"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Endpoint  string `env:"ENDPOINT"` // Optional for AWS, required for MinIO
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}

	if cfg.IsProduction() {
		if err := validateProduction(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// validateProduction rejects development defaults that must never reach production.
func validateProduction(cfg *Config) error {
	if cfg.JWTSecret == "" || cfg.JWTSecret == "inkpost-dev-secret" {
		return errors.New("production deployment requires JWT_SECRET")
	}
	if cfg.Storage.AccessKey == "" || cfg.Storage.SecretKey == "" {
		return errors.New("production deployment requires S3_ACCESS_KEY and S3_SECRET_KEY")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
