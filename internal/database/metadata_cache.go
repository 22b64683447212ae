// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dcsdash/internal/models"
)

// metadataRetention is how many snapshots are kept.
const metadataRetention = 5

// SaveMetadata stores a snapshot of the upstream tag list and prunes old
// snapshots.
func (db *DB) SaveMetadata(ctx context.Context, tags []models.Tag, source string) (*models.MetadataSnapshot, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	data, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	snap := &models.MetadataSnapshot{Tags: tags, Source: source, UpdatedAt: time.Now().UTC()}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO metadata_cache (data, source, updated_at) VALUES (?, ?, ?)`,
		string(data), source, snap.UpdatedAt)
	observe("INSERT", "metadata_cache", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to insert metadata snapshot: %w", err)
	}

	prune := fmt.Sprintf(`
		DELETE FROM metadata_cache WHERE id NOT IN (
			SELECT id FROM metadata_cache ORDER BY id DESC LIMIT %d
		)`, metadataRetention)
	if _, err := db.conn.ExecContext(ctx, prune); err != nil {
		return nil, fmt.Errorf("failed to prune metadata snapshots: %w", err)
	}
	return snap, nil
}

// LatestMetadata returns the newest snapshot, or ErrNotFound.
func (db *DB) LatestMetadata(ctx context.Context) (*models.MetadataSnapshot, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var data string
	snap := &models.MetadataSnapshot{}

	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`SELECT data, source, updated_at FROM metadata_cache ORDER BY id DESC LIMIT 1`,
	).Scan(&data, &snap.Source, &snap.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		observe("SELECT", "metadata_cache", start, nil)
		return nil, ErrNotFound
	}
	observe("SELECT", "metadata_cache", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &snap.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata snapshot: %w", err)
	}
	return snap, nil
}
