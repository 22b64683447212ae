// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package ordering

import (
	"errors"
	"math"
	"strings"
	"sync"

	"github.com/tomtom215/dcsdash/internal/models"
)

// ErrSessionClosed is returned by a DragSession after Drop or Cancel.
var ErrSessionClosed = errors.New("drag session closed")

// InsertionAnchor returns the tag the dragged widget should be inserted
// before: the closest box, other than the dragged one, whose vertical
// midpoint lies below y. It returns "" when no box qualifies, meaning the
// end of the list.
func InsertionAnchor(boxes []models.Box, dragged string, y float64) string {
	closest := math.Inf(-1)
	anchor := ""
	for _, b := range boxes {
		if strings.EqualFold(b.Tag, dragged) {
			continue
		}
		offset := y - b.Top - b.Height/2
		if offset < 0 && offset > closest {
			closest = offset
			anchor = b.Tag
		}
	}
	return anchor
}

// DragSession reorders a selection live while a widget is dragged.
type DragSession struct {
	mu       sync.Mutex
	sel      *Selection
	tag      string
	snapshot []string
	closed   bool
}

// StartDrag begins dragging tag within sel.
func StartDrag(sel *Selection, tag string) (*DragSession, error) {
	if !sel.Contains(tag) {
		return nil, ErrUnknownTag
	}
	return &DragSession{
		sel:      sel,
		tag:      tag,
		snapshot: sel.Tags(),
	}, nil
}

// Tag returns the dragged tag.
func (d *DragSession) Tag() string {
	return d.tag
}

// Over moves the dragged tag in front of the anchor computed from the
// pointer position and returns that anchor.
func (d *DragSession) Over(boxes []models.Box, y float64) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return "", ErrSessionClosed
	}
	anchor := InsertionAnchor(boxes, d.tag, y)
	if anchor != "" && !d.sel.Contains(anchor) {
		return "", ErrUnknownTag
	}
	return anchor, d.sel.MoveBefore(d.tag, anchor)
}

// Drop ends the session and returns the final order.
func (d *DragSession) Drop() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrSessionClosed
	}
	d.closed = true
	return d.sel.Tags(), nil
}

// Cancel ends the session and restores the order captured at start.
func (d *DragSession) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.sel.tags = append(d.sel.tags[:0], d.snapshot...)
}
