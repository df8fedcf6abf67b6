package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

const minSecretLength = 32

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	HTTP  HTTPConfig
}

type AuthConfig struct {
	JWTSecret              string `env:"JWT_SECRET"`
	AccessTokenMinutes     int    `env:"JWT_ACCESS_EXPIRATION_MINUTES, default=30"`
	BcryptCost             int    `env:"BCRYPT_COST,                   default=10"`
	HashWorkers            int    `env:"HASH_WORKERS,                  default=4"`
	RevokeOnPasswordChange bool   `env:"REVOKE_ON_PASSWORD_CHANGE,     default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=blog"`
}

type RedisConfig struct {
	Addr             string        `env:"REDIS_ADDR,         default=localhost:6379"`
	DB               int           `env:"REDIS_DB,           default=0"`
	CategoryCacheTTL time.Duration `env:"CATEGORY_CACHE_TTL, default=5m"`
}

type HTTPConfig struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=*"`
}

// AccessTokenTTL is the lifetime of issued access tokens.
func (c AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenMinutes) * time.Minute
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from the given lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	switch {
	case c.Auth.JWTSecret == "":
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case len(c.Auth.JWTSecret) < minSecretLength && !c.IsDevelopment():
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes outside development", minSecretLength))
	}
	if c.Auth.AccessTokenMinutes <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_EXPIRATION_MINUTES must be positive"))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Auth.HashWorkers <= 0 {
		errs = append(errs, errors.New("HASH_WORKERS must be positive"))
	}
	if c.Redis.CategoryCacheTTL <= 0 {
		errs = append(errs, errors.New("CATEGORY_CACHE_TTL must be positive"))
	}

	return errors.Join(errs...)
}
