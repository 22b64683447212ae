// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

// Package models holds the wire and storage types shared by the upstream
// client, the stores and the HTTP API.
package models

import "time"

// Tag is one entry of the upstream metadata list.
type Tag struct {
	TagName     string `json:"tag_name"`
	TagDesc     string `json:"tag_desc,omitempty"`
	Description string `json:"description,omitempty"`
	Company     string `json:"company,omitempty"`
}

// Label returns the metadata description, preferring tag_desc.
func (t Tag) Label() string {
	if t.TagDesc != "" {
		return t.TagDesc
	}
	return t.Description
}

// TagGroup is a company and its tags, in display order.
type TagGroup struct {
	Company string `json:"company"`
	Tags    []Tag  `json:"tags"`
}

// MetadataSnapshot is a cached copy of the upstream tag list.
type MetadataSnapshot struct {
	Tags      []Tag     `json:"data"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Row is one wide-format record: a timestamp field plus one field per tag.
type Row map[string]any

// DataRequest is the body of a time-series query.
type DataRequest struct {
	ExecFromDT string   `json:"exec_from_dt" validate:"required,dcsdate"`
	ExecToDT   string   `json:"exec_to_dt" validate:"required,dcsdate"`
	TagNames   []string `json:"tag_names,omitempty" validate:"omitempty,max=200,dive,required,max=128"`
}
