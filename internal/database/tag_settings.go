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
	"strings"
	"time"

	"github.com/tomtom215/dcsdash/internal/models"
)

// Tag settings are keyed by the lower-cased tag name so lookups are
// case-insensitive.

// UpsertTagSetting creates or replaces the setting of one tag.
func (db *DB) UpsertTagSetting(ctx context.Context, s *models.TagSetting) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	s.TagName = strings.ToLower(strings.TrimSpace(s.TagName))
	if s.Multiplier <= 0 {
		s.Multiplier = models.DefaultMultiplier
	}
	s.UpdatedAt = time.Now().UTC()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO tag_settings (tag_name, display_name, multiplier, unit, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (tag_name) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			multiplier = EXCLUDED.multiplier,
			unit = EXCLUDED.unit,
			updated_at = EXCLUDED.updated_at`,
		s.TagName, s.DisplayName, s.Multiplier, s.Unit, s.UpdatedAt)
	observe("UPSERT", "tag_settings", start, err)
	if err != nil {
		return fmt.Errorf("failed to upsert tag setting: %w", err)
	}
	return nil
}

// GetTagSetting returns the setting of a tag, or ErrNotFound.
func (db *DB) GetTagSetting(ctx context.Context, tag string) (*models.TagSetting, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `
		SELECT tag_name, COALESCE(display_name, ''), multiplier, COALESCE(unit, ''), updated_at
		FROM tag_settings WHERE tag_name = ?`, strings.ToLower(tag))
	s, err := scanTagSetting(row)
	if errors.Is(err, sql.ErrNoRows) {
		observe("SELECT", "tag_settings", start, nil)
		return nil, ErrNotFound
	}
	observe("SELECT", "tag_settings", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get tag setting: %w", err)
	}
	return s, nil
}

// ListTagSettings returns every stored setting ordered by tag name.
func (db *DB) ListTagSettings(ctx context.Context) ([]models.TagSetting, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT tag_name, COALESCE(display_name, ''), multiplier, COALESCE(unit, ''), updated_at
		FROM tag_settings ORDER BY tag_name`)
	observe("SELECT", "tag_settings", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag settings: %w", err)
	}
	defer rows.Close()

	settings := []models.TagSetting{}
	for rows.Next() {
		s, err := scanTagSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tag setting: %w", err)
		}
		settings = append(settings, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag settings: %w", err)
	}
	return settings, nil
}

// TagSettingsMap returns every setting keyed by lower-cased tag name.
func (db *DB) TagSettingsMap(ctx context.Context) (map[string]models.TagSetting, error) {
	list, err := db.ListTagSettings(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]models.TagSetting, len(list))
	for _, s := range list {
		m[s.TagName] = s
	}
	return m, nil
}

// DeleteTagSetting resets a tag to defaults, or returns ErrNotFound.
func (db *DB) DeleteTagSetting(ctx context.Context, tag string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, `DELETE FROM tag_settings WHERE tag_name = ?`, strings.ToLower(tag))
	observe("DELETE", "tag_settings", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete tag setting: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTagSetting(row rowScanner) (*models.TagSetting, error) {
	var s models.TagSetting
	if err := row.Scan(&s.TagName, &s.DisplayName, &s.Multiplier, &s.Unit, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
