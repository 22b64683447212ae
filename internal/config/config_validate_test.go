// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.DataAPI.URL = "https://worker.example.com"
	cfg.DataAPI.APIKey = "key"
	cfg.Security.JWTSecret = strings.Repeat("s", minJWTSecretLength)
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing url", func(c *Config) { c.DataAPI.URL = "" }, "DATA_API_URL"},
		{"bad url scheme", func(c *Config) { c.DataAPI.URL = "ftp://x" }, "http(s) URL"},
		{"missing key", func(c *Config) { c.DataAPI.APIKey = "" }, "DATA_API_KEY"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "PORT"},
		{"short secret", func(c *Config) { c.Security.JWTSecret = "short" }, "JWT_SECRET"},
		{"auth none allowed in dev", func(c *Config) { c.Security.AuthMode = "none"; c.Security.JWTSecret = "" }, ""},
		{"auth none in production", func(c *Config) {
			c.Security.AuthMode = "none"
			c.Server.Environment = "production"
		}, "AUTH_MODE=none"},
		{"unknown auth mode", func(c *Config) { c.Security.AuthMode = "oidc" }, "AUTH_MODE"},
		{"wildcard cors in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"*"}
		}, "ALLOWED_ORIGINS"},
		{"zero range", func(c *Config) { c.DataAPI.MaxRangeDays = 0 }, "MAX_RANGE_DAYS"},
		{"rate limit disabled skips checks", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"badger path required", func(c *Config) { c.KV.Path = "" }, "BADGER_PATH"},
		{"badger in memory", func(c *Config) { c.KV.Path = ""; c.KV.InMemory = true }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMaxRange(t *testing.T) {
	t.Parallel()

	d := DataAPIConfig{MaxRangeDays: 30}
	if got := d.MaxRange().Hours(); got != 720 {
		t.Errorf("MaxRange() = %vh, want 720h", got)
	}
}
