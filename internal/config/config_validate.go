// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// minJWTSecretLength is the shortest accepted HMAC secret.
const minJWTSecretLength = 32

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDataAPI(); err != nil {
		return err
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("ENVIRONMENT must be one of development, staging, production, test, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateDataAPI() error {
	if c.DataAPI.URL == "" {
		return fmt.Errorf("DATA_API_URL (or CLOUDFLARE_WORKER_URL) is required")
	}
	u, err := url.Parse(c.DataAPI.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("DATA_API_URL must be an http(s) URL, got %q", c.DataAPI.URL)
	}
	if c.DataAPI.APIKey == "" {
		return fmt.Errorf("DATA_API_KEY (or CLOUDFLARE_API_KEY) is required")
	}
	if c.DataAPI.Timeout <= 0 {
		return fmt.Errorf("DATA_API_TIMEOUT must be positive")
	}
	if c.DataAPI.RPS < 0 {
		return fmt.Errorf("DATA_API_RPS must not be negative")
	}
	if c.DataAPI.MaxRangeDays < 1 {
		return fmt.Errorf("MAX_RANGE_DAYS must be at least 1, got %d", c.DataAPI.MaxRangeDays)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if !c.KV.InMemory && c.KV.Path == "" {
		return fmt.Errorf("BADGER_PATH is required when BADGER_IN_MEMORY=false")
	}
	if c.Cache.MetadataTTL <= 0 {
		return fmt.Errorf("META_CACHE_TTL must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "jwt":
		if len(c.Security.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters when AUTH_MODE=jwt", minJWTSecretLength)
		}
	case "none":
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be jwt or none, got %q", c.Security.AuthMode)
	}

	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	if c.Security.LockoutAttempts < 1 {
		return fmt.Errorf("LOCKOUT_ATTEMPTS must be at least 1")
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" && c.IsProduction() {
			return fmt.Errorf("ALLOWED_ORIGINS must not contain * when ENVIRONMENT=production")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
