// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

/*
Package database provides DuckDB-backed persistence for the dashboard.

It stores local user accounts, saved selections (named widget orders),
per-tag display settings, the selectable unit list, and snapshots of the
upstream tag metadata used as the second cache level.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	settings, err := db.TagSettingsMap(ctx)

Missing rows are reported with ErrNotFound and uniqueness violations with
ErrConflict; both are matched with errors.Is. Every query takes a
context; calls without a deadline get a 30 second timeout.

Schema changes go through versioned migrations recorded in
schema_migrations (see migrations.go).
*/
package database
