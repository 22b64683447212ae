// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

// Package dashboard turns wide time-series rows into per-tag series and
// formats them for display.
//
// Tag identifiers are case-insensitive. Every comparison goes through
// Canonical; the casing shown to users is whatever casing registered the
// tag first in a TagIndex.
package dashboard

import "strings"

// Canonical returns the identity key of a tag name.
func Canonical(name string) string {
	return strings.ToLower(name)
}

// TagIndex maps canonical keys to the preserved-case names that registered them.
type TagIndex struct {
	names map[string]string
	order []string
}

// NewTagIndex registers names in order; later duplicates keep the first casing.
func NewTagIndex(names ...string) *TagIndex {
	idx := &TagIndex{names: make(map[string]string, len(names))}
	for _, n := range names {
		idx.Register(n)
	}
	return idx
}

// Register adds name unless its canonical key is already known.
// It reports whether the name was added.
func (idx *TagIndex) Register(name string) bool {
	key := Canonical(name)
	if _, ok := idx.names[key]; ok {
		return false
	}
	idx.names[key] = name
	idx.order = append(idx.order, name)
	return true
}

// Lookup returns the preserved-case name for any casing of a tag.
func (idx *TagIndex) Lookup(name string) (string, bool) {
	n, ok := idx.names[Canonical(name)]
	return n, ok
}

// Names returns registered names in registration order.
func (idx *TagIndex) Names() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// Keys returns the canonical keys in registration order, which is what the
// data API expects in tag_names.
func (idx *TagIndex) Keys() []string {
	out := make([]string, len(idx.order))
	for i, n := range idx.order {
		out[i] = Canonical(n)
	}
	return out
}

// Len returns the number of distinct tags.
func (idx *TagIndex) Len() int {
	return len(idx.order)
}
