// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package models

import "time"

// DefaultMultiplier applies when a tag has no setting.
const DefaultMultiplier = 1.0

// TagSetting is a per-tag display override.
type TagSetting struct {
	TagName     string    `json:"tag_name"`
	DisplayName string    `json:"display_name,omitempty"`
	Multiplier  float64   `json:"multiplier"`
	Unit        string    `json:"unit,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultTagSetting is the implied setting for a tag without a record.
func DefaultTagSetting(tagName string) TagSetting {
	return TagSetting{TagName: tagName, Multiplier: DefaultMultiplier}
}

// TagSettingRequest creates or replaces a tag setting.
type TagSettingRequest struct {
	TagName     string   `json:"tag_name" validate:"required,notblank,max=128"`
	DisplayName string   `json:"display_name" validate:"max=100"`
	Multiplier  *float64 `json:"multiplier" validate:"omitempty,gt=0"`
	Unit        string   `json:"unit" validate:"max=32"`
}

// Unit is an entry of the selectable unit catalog.
type Unit struct {
	ID        int64     `json:"id"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"created_at"`
}

// UnitRequest adds a unit to the catalog.
type UnitRequest struct {
	Unit string `json:"unit" validate:"required,notblank,max=32"`
}

// DefaultUnits seed the catalog on first start.
var DefaultUnits = []string{"kW", "V", "A", "Hz", "°C", "MPa", "m³/h", "m", "rpm", "%"}
