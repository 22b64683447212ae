// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/dcsdash/config.yaml",
	"/etc/dcsdash/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        3001,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
			StaticDir:   "./public",
		},
		DataAPI: DataAPIConfig{
			Timeout:      30 * time.Second,
			RPS:          5,
			Burst:        10,
			MaxRangeDays: 30,
		},
		Database: DatabaseConfig{
			Path:      "/data/dcsdash.duckdb",
			MaxMemory: "512MB",
			Threads:   0,
		},
		KV: KVConfig{
			Path:     "/data/badger",
			InMemory: false,
		},
		Cache: CacheConfig{
			MetadataTTL: 5 * time.Minute,
		},
		Security: SecurityConfig{
			AuthMode:          "jwt",
			SessionTimeout:    7 * 24 * time.Hour,
			AdminUsername:     "admin",
			RateLimitReqs:     100,
			RateLimitWindow:   15 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"http://localhost:3001"},
			LockoutAttempts:   5,
			LockoutDuration:   15 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. built-in defaults
//  2. optional YAML config file
//  3. environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// NODE_ENV and the CLOUDFLARE_* names are kept for deployments
	// migrated from the previous proxy. DATA_API_* wins when both are set.
	if err := k.Load(env.Provider("", ".", legacyEnvTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load legacy environment variables: %w", err)
	}
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they arrive as strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	// Server
	"port":         "server.port",
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",
	"static_dir":   "server.static_dir",

	// Data API
	"data_api_url":     "data_api.url",
	"data_api_key":     "data_api.api_key",
	"data_api_timeout": "data_api.timeout",
	"data_api_rps":     "data_api.rps",
	"data_api_burst":   "data_api.burst",
	"max_range_days":   "data_api.max_range_days",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// BadgerDB
	"badger_path":      "kv.path",
	"badger_in_memory": "kv.in_memory",

	// Cache
	"meta_cache_ttl": "cache.metadata_ttl",

	// Security
	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"session_timeout":     "security.session_timeout",
	"admin_username":      "security.admin_username",
	"admin_password":      "security.admin_password",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"allowed_origins":     "security.cors_origins",
	"lockout_attempts":    "security.lockout_attempts",
	"lockout_duration":    "security.lockout_duration",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

var legacyEnvMappings = map[string]string{
	"node_env":              "server.environment",
	"cloudflare_worker_url": "data_api.url",
	"cloudflare_api_key":    "data_api.api_key",
}

// envTransformFunc maps an environment variable name to a koanf path.
// Unmapped keys return "" so unrelated variables never reach the config.
//
// Examples:
//   - PORT -> server.port
//   - DATA_API_URL -> data_api.url
//   - ALLOWED_ORIGINS -> security.cors_origins
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func legacyEnvTransformFunc(key string) string {
	return legacyEnvMappings[strings.ToLower(key)]
}
