// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

// Package config loads the dashboard backend configuration.
//
// Configuration is layered (defaults, optional YAML file, environment) by
// LoadWithKoanf. Config is immutable after Load and safe for concurrent
// reads.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	DataAPI  DataAPIConfig  `koanf:"data_api"`
	Database DatabaseConfig `koanf:"database"`
	KV       KVConfig       `koanf:"kv"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - PORT: listen port (default: 3001)
//   - HTTP_HOST: listen address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: read/write timeout (default: 30s)
//   - ENVIRONMENT or NODE_ENV: development, staging, production
//   - STATIC_DIR: directory with front-end assets (default: ./public)
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
	StaticDir   string        `koanf:"static_dir"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DataAPIConfig holds the upstream data API ("worker") settings.
//
// Environment Variables:
//   - DATA_API_URL or CLOUDFLARE_WORKER_URL: base URL (required)
//   - DATA_API_KEY or CLOUDFLARE_API_KEY: value of the x-api-key header (required)
//   - DATA_API_TIMEOUT: per-request timeout (default: 30s)
//   - DATA_API_RPS: outgoing requests per second, 0 disables throttling (default: 5)
//   - MAX_RANGE_DAYS: widest accepted query range in days (default: 30)
type DataAPIConfig struct {
	URL          string        `koanf:"url"`
	APIKey       string        `koanf:"api_key"`
	Timeout      time.Duration `koanf:"timeout"`
	RPS          float64       `koanf:"rps"`
	Burst        int           `koanf:"burst"`
	MaxRangeDays int           `koanf:"max_range_days"`
}

// MaxRange returns the widest accepted query range.
func (d DataAPIConfig) MaxRange() time.Duration {
	return time.Duration(d.MaxRangeDays) * 24 * time.Hour
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// KVConfig holds BadgerDB settings for the token revocation list.
type KVConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// CacheConfig holds metadata cache settings.
type CacheConfig struct {
	MetadataTTL time.Duration `koanf:"metadata_ttl"`
}

// SecurityConfig holds authentication, rate limit and CORS settings.
//
// Environment Variables:
//   - AUTH_MODE: jwt or none (default: jwt)
//   - JWT_SECRET: HMAC secret, at least 32 characters when AUTH_MODE=jwt
//   - SESSION_TIMEOUT: login session lifetime (default: 168h)
//   - ADMIN_USERNAME / ADMIN_PASSWORD: used by cmd/create-admin
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: per-IP API limit (default: 100 per 15m)
//   - DISABLE_RATE_LIMIT: true disables the API limiter
//   - ALLOWED_ORIGINS: comma-separated CORS origins (default: http://localhost:3001)
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	LockoutAttempts   int           `koanf:"lockout_attempts"`
	LockoutDuration   time.Duration `koanf:"lockout_duration"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads the configuration from all sources and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
