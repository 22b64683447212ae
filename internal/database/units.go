// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/dcsdash/internal/models"
)

// ListUnits returns the selectable units in insertion order.
func (db *DB) ListUnits(ctx context.Context) ([]models.Unit, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `SELECT id, unit, created_at FROM units ORDER BY id`)
	observe("SELECT", "units", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	units := []models.Unit{}
	for rows.Next() {
		var u models.Unit
		if err := rows.Scan(&u.ID, &u.Unit, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating units: %w", err)
	}
	return units, nil
}

// CreateUnit adds a unit. ErrConflict if it already exists.
func (db *DB) CreateUnit(ctx context.Context, unit string) (*models.Unit, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	u := models.Unit{Unit: strings.TrimSpace(unit), CreatedAt: time.Now().UTC()}

	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO units (unit, created_at) VALUES (?, ?) RETURNING id`,
		u.Unit, u.CreatedAt).Scan(&u.ID)
	observe("INSERT", "units", start, err)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("unit %q: %w", u.Unit, ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert unit: %w", err)
	}
	return &u, nil
}

// DeleteUnit removes a unit by ID, or returns ErrNotFound.
func (db *DB) DeleteUnit(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, `DELETE FROM units WHERE id = ?`, id)
	observe("DELETE", "units", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete unit: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
