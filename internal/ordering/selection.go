// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package ordering

import (
	"errors"
	"strings"
)

// ErrUnknownTag is returned when an operation names a tag that is not in
// the selection.
var ErrUnknownTag = errors.New("tag not in selection")

// Selection is an ordered list of distinct tags. Tags compare
// case-insensitively but keep the casing they were added with.
//
// Selection is not safe for concurrent use; DragSession and Gesture
// serialize access to the selection they wrap.
type Selection struct {
	tags []string
}

// New builds a selection, dropping case-insensitive duplicates. The first
// occurrence wins.
func New(tags ...string) *Selection {
	s := &Selection{tags: make([]string, 0, len(tags))}
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

// Add appends tag unless it is empty or already present.
func (s *Selection) Add(tag string) bool {
	if strings.TrimSpace(tag) == "" || s.Contains(tag) {
		return false
	}
	s.tags = append(s.tags, tag)
	return true
}

// Remove deletes tag and reports whether it was present.
func (s *Selection) Remove(tag string) bool {
	i := s.IndexOf(tag)
	if i < 0 {
		return false
	}
	s.tags = append(s.tags[:i], s.tags[i+1:]...)
	return true
}

// Contains reports whether tag is selected.
func (s *Selection) Contains(tag string) bool {
	return s.IndexOf(tag) >= 0
}

// IndexOf returns the position of tag, or -1.
func (s *Selection) IndexOf(tag string) int {
	for i, t := range s.tags {
		if strings.EqualFold(t, tag) {
			return i
		}
	}
	return -1
}

// Tags returns a copy of the current order.
func (s *Selection) Tags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// Len returns the number of selected tags.
func (s *Selection) Len() int {
	return len(s.tags)
}

// MoveTo removes tag and reinserts it at the index target held before the
// removal. Moving forward therefore lands after target and moving backward
// lands before it: [A B C] with A onto C gives [B C A], C onto A gives
// [C A B].
func (s *Selection) MoveTo(tag, target string) error {
	from := s.IndexOf(tag)
	to := s.IndexOf(target)
	if from < 0 || to < 0 {
		return ErrUnknownTag
	}
	if from == to {
		return nil
	}
	moved := s.tags[from]
	s.tags = append(s.tags[:from], s.tags[from+1:]...)
	s.insert(to, moved)
	return nil
}

// MoveBefore places tag immediately before anchor. An empty anchor moves
// tag to the end.
func (s *Selection) MoveBefore(tag, anchor string) error {
	from := s.IndexOf(tag)
	if from < 0 {
		return ErrUnknownTag
	}
	if anchor != "" {
		if !s.Contains(anchor) {
			return ErrUnknownTag
		}
		if strings.EqualFold(tag, anchor) {
			return nil
		}
	}

	moved := s.tags[from]
	s.tags = append(s.tags[:from], s.tags[from+1:]...)
	if anchor == "" {
		s.tags = append(s.tags, moved)
		return nil
	}
	s.insert(s.IndexOf(anchor), moved)
	return nil
}

func (s *Selection) insert(i int, tag string) {
	if i >= len(s.tags) {
		s.tags = append(s.tags, tag)
		return
	}
	s.tags = append(s.tags, "")
	copy(s.tags[i+1:], s.tags[i:])
	s.tags[i] = tag
}
