// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package models

import "time"

// Layout is a named, ordered list of tags saved for later recall.
type Layout struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TagNames  []string  `json:"tag_names"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LayoutRequest saves the current selection under a name.
type LayoutRequest struct {
	Name     string   `json:"name" validate:"required,notblank,max=100"`
	TagNames []string `json:"tag_names" validate:"required,min=1,max=200,dive,required,max=128"`
}

// Reorder operations.
const (
	ReorderMove   = "move"
	ReorderBefore = "before"
	ReorderDrag   = "drag"
)

// Box is the on-screen geometry of one widget, used by drag reorders.
type Box struct {
	Tag    string  `json:"tag" validate:"required"`
	Top    float64 `json:"top"`
	Height float64 `json:"height" validate:"gte=0"`
}

// ReorderRequest moves one tag of a saved layout.
//
//   - move: remove tag, insert it at target's index (drop next to target)
//   - before: insert tag immediately before anchor, or at the end when anchor is empty
//   - drag: derive the anchor from pointer_y and widget boxes
type ReorderRequest struct {
	Op       string   `json:"op" validate:"required,oneof=move before drag"`
	Tag      string   `json:"tag" validate:"required"`
	Target   string   `json:"target,omitempty" validate:"required_if=Op move"`
	Anchor   string   `json:"anchor,omitempty"`
	PointerY *float64 `json:"pointer_y,omitempty" validate:"required_if=Op drag"`
	Boxes    []Box    `json:"boxes,omitempty" validate:"required_if=Op drag,dive"`
}
