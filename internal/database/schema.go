// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package database

import "fmt"

// createTables creates every table the dashboard persists.
//
// Tables:
//   - users: local accounts (bcrypt hashes)
//   - saved_selections: named, ordered tag lists; tag_names holds a JSON array
//   - tag_settings: per-tag display name, multiplier and unit, keyed by lower-cased tag
//   - units: the selectable unit list
//   - metadata_cache: snapshots of the upstream tag list, newest row wins
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			username VARCHAR PRIMARY KEY,
			password_hash VARCHAR NOT NULL,
			role VARCHAR NOT NULL DEFAULT 'viewer',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS saved_selections (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			tag_names VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tag_settings (
			tag_name VARCHAR PRIMARY KEY,
			display_name VARCHAR,
			multiplier DOUBLE NOT NULL DEFAULT 1.0,
			unit VARCHAR,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE SEQUENCE IF NOT EXISTS units_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS units (
			id BIGINT PRIMARY KEY DEFAULT nextval('units_id_seq'),
			unit VARCHAR NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE SEQUENCE IF NOT EXISTS metadata_cache_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS metadata_cache (
			id BIGINT PRIMARY KEY DEFAULT nextval('metadata_cache_id_seq'),
			data VARCHAR NOT NULL,
			source VARCHAR NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	}

	for _, q := range queries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
