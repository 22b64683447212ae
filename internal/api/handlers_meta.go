// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/dcsdash/internal/dashboard"
	"github.com/tomtom215/dcsdash/internal/models"
)

// Meta returns the tag metadata. Unless force_refresh=true the cached copy
// is served with cached=true and its updated_at.
func (h *Handler) Meta(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force_refresh") == "true"

	res, err := h.meta.Get(r.Context(), force)
	if err != nil {
		respondErrorDetails(w, r, http.StatusBadGateway, CodeExternalService,
			"Failed to fetch metadata", err.Error(), err)
		return
	}

	tags := res.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	resp := &Response{
		Success: true,
		Message: res.Message,
		Data:    tags,
		Cached:  &res.Cached,
	}
	if res.Cached && !res.UpdatedAt.IsZero() {
		updated := res.UpdatedAt
		resp.UpdatedAt = &updated
	}
	respondJSON(w, http.StatusOK, resp)
}

// Tags returns metadata grouped by company, filtered by ?q= (name or
// description substring) and ?company=.
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	res, err := h.meta.Get(r.Context(), false)
	if err != nil {
		respondErrorDetails(w, r, http.StatusBadGateway, CodeExternalService,
			"Failed to fetch metadata", err.Error(), err)
		return
	}

	matched := dashboard.SearchTags(res.Tags, r.URL.Query().Get("q"))
	groups := dashboard.GroupByCompany(matched)

	if company := strings.TrimSpace(r.URL.Query().Get("company")); company != "" {
		filtered := groups[:0]
		for _, g := range groups {
			if strings.EqualFold(g.Company, company) {
				filtered = append(filtered, g)
			}
		}
		groups = filtered
	}

	resp := &Response{Success: true, Data: groups, Cached: &res.Cached}
	if !res.UpdatedAt.IsZero() {
		updated := res.UpdatedAt
		resp.UpdatedAt = &updated
	}
	respondJSON(w, http.StatusOK, resp)
}
