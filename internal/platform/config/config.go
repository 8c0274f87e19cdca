// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package config maps the process environment onto a typed [Config] with
// caarlos0/env. It is read once at startup and passed down by value or
// pointer; nothing here is global.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the complete runtime configuration of the API process.
type Config struct {
	// # HTTP
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// AllowedOriginSuffix is the trusted browser origin suffix outside development.
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"agora.app"`

	// # Storage
	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisURL    string `env:"REDIS_URL,required"`

	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	// MigrationPath overrides the migrations compiled into the binary with a
	// directory on disk. Empty uses the embedded set.
	MigrationPath string `env:"MIGRATION_PATH"`

	// # Security
	Auth AuthConfig

	// Per-IP budget for login, register and refresh, shared via Redis.
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT"  envDefault:"10"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`
}

// AuthConfig feeds the token service and the password hasher.
type AuthConfig struct {
	// JWTSecret signs HS256 access tokens; at least 32 bytes.
	JWTSecret string `env:"JWT_SECRET,required"`
	Issuer    string `env:"JWT_ISSUER"   envDefault:"agora.app"`
	Audience  string `env:"JWT_AUDIENCE" envDefault:"agora-web"`

	AccessTokenTTLMinutes int `env:"ACCESS_TOKEN_TTL_MINUTES" envDefault:"60"`
	RefreshTokenTTLDays   int `env:"REFRESH_TOKEN_TTL_DAYS"   envDefault:"7"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

func (a AuthConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(a.RefreshTokenTTLDays) * 24 * time.Hour
}

// Load reads the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// parse is Load with injectable options so tests can supply a fixed environment.
func parse(options env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, options); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// validate reports every out-of-range value at once.
func (c *Config) validate() error {
	var problems []error
	if c.Auth.AccessTokenTTLMinutes <= 0 {
		problems = append(problems, errors.New("ACCESS_TOKEN_TTL_MINUTES must be positive"))
	}
	if c.Auth.RefreshTokenTTLDays <= 0 {
		problems = append(problems, errors.New("REFRESH_TOKEN_TTL_DAYS must be positive"))
	}
	if c.LoginRateLimit <= 0 {
		problems = append(problems, errors.New("LOGIN_RATE_LIMIT must be positive"))
	}
	if c.LoginRateWindow <= 0 {
		problems = append(problems, errors.New("LOGIN_RATE_WINDOW must be positive"))
	}
	return errors.Join(problems...)
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
