// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

// Command create-admin creates or resets an admin account in the dashboard
// database. It reads the same configuration as the server, so DB_PATH and
// a config.yaml apply.
//
//	create-admin -username admin -password 'new-secret'
//	create-admin -username admin -password 'new-secret' -reset
//
// The password may also come from ADMIN_PASSWORD. Stop the server first:
// DuckDB allows a single writer process.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/tomtom215/dcsdash/internal/auth"
	"github.com/tomtom215/dcsdash/internal/config"
	"github.com/tomtom215/dcsdash/internal/database"
	"github.com/tomtom215/dcsdash/internal/logging"
)

func main() {
	username := flag.String("username", "", "admin username (default: ADMIN_USERNAME)")
	password := flag.String("password", "", "admin password (default: ADMIN_PASSWORD)")
	reset := flag.Bool("reset", false, "replace an existing account of the same name")
	flag.Parse()

	logging.Init(logging.Config{Level: "info", Format: "console"})

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *username == "" {
		*username = cfg.Security.AdminUsername
	}
	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}
	if len(*password) < 8 {
		logging.Fatal().Msg("password must be at least 8 characters")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = auth.UpsertAdmin(ctx, db, *username, *password, *reset)
	cancel()
	if closeErr := db.Close(); closeErr != nil {
		logging.Error().Err(closeErr).Msg("Error closing database")
	}

	switch {
	case errors.Is(err, database.ErrConflict):
		logging.Fatal().Str("username", *username).Msg("account exists; pass -reset to replace it")
	case err != nil:
		logging.Fatal().Err(err).Msg("Failed to store admin account")
	}
	logging.Info().Str("username", *username).Bool("reset", *reset).Msg("Admin account saved")
}
