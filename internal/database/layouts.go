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
	"github.com/google/uuid"

	"github.com/tomtom215/dcsdash/internal/models"
)

const layoutColumns = `id, name, tag_names, created_at, updated_at`

// CreateLayout stores a named tag order and returns it with its new ID.
func (db *DB) CreateLayout(ctx context.Context, name string, tags []string) (*models.Layout, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tag names: %w", err)
	}

	now := time.Now().UTC()
	l := &models.Layout{
		ID:        uuid.New().String(),
		Name:      name,
		TagNames:  tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO saved_selections (`+layoutColumns+`) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.Name, string(tagsJSON), l.CreatedAt, l.UpdatedAt)
	observe("INSERT", "saved_selections", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to insert saved selection: %w", err)
	}
	return l, nil
}

// GetLayout returns one saved selection, or ErrNotFound.
func (db *DB) GetLayout(ctx context.Context, id string) (*models.Layout, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `SELECT `+layoutColumns+` FROM saved_selections WHERE id = ?`, id)
	l, err := scanLayout(row)
	if errors.Is(err, sql.ErrNoRows) {
		observe("SELECT", "saved_selections", start, nil)
		return nil, ErrNotFound
	}
	observe("SELECT", "saved_selections", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get saved selection: %w", err)
	}
	return l, nil
}

// ListLayouts returns every saved selection, newest first.
func (db *DB) ListLayouts(ctx context.Context) ([]models.Layout, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `SELECT `+layoutColumns+` FROM saved_selections ORDER BY created_at DESC, rowid DESC`)
	observe("SELECT", "saved_selections", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved selections: %w", err)
	}
	defer rows.Close()

	layouts := []models.Layout{}
	for rows.Next() {
		l, err := scanLayout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved selection: %w", err)
		}
		layouts = append(layouts, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved selections: %w", err)
	}
	return layouts, nil
}

// UpdateLayoutTags replaces the tag order of a saved selection.
func (db *DB) UpdateLayoutTags(ctx context.Context, id string, tags []string) (*models.Layout, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tag names: %w", err)
	}

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE saved_selections SET tag_names = ?, updated_at = ? WHERE id = ?`,
		string(tagsJSON), time.Now().UTC(), id)
	observe("UPDATE", "saved_selections", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to update saved selection: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return db.GetLayout(ctx, id)
}

// DeleteLayout removes a saved selection, or returns ErrNotFound.
func (db *DB) DeleteLayout(ctx context.Context, id string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, `DELETE FROM saved_selections WHERE id = ?`, id)
	observe("DELETE", "saved_selections", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete saved selection: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLayout(row rowScanner) (*models.Layout, error) {
	var l models.Layout
	var tagsJSON string
	if err := row.Scan(&l.ID, &l.Name, &tagsJSON, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &l.TagNames); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tag names: %w", err)
	}
	if l.TagNames == nil {
		l.TagNames = []string{}
	}
	return &l, nil
}
