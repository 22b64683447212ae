// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/dcsdash/internal/database"
	"github.com/tomtom215/dcsdash/internal/events"
	"github.com/tomtom215/dcsdash/internal/models"
)

// TagSettingsEvent is the payload of tag_settings_changed. Setting is nil
// after a reset.
type TagSettingsEvent struct {
	TagName string             `json:"tag_name"`
	Setting *models.TagSetting `json:"setting"`
}

// ListTagSettings returns every stored override.
func (h *Handler) ListTagSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.ListTagSettings(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to list tag settings", err)
		return
	}
	if settings == nil {
		settings = []models.TagSetting{}
	}
	respondOK(w, http.StatusOK, settings)
}

// GetTagSetting returns the setting of one tag, or its defaults when none
// is stored.
func (h *Handler) GetTagSetting(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	setting, err := h.store.GetTagSetting(r.Context(), tag)
	switch {
	case errors.Is(err, database.ErrNotFound):
		def := models.DefaultTagSetting(strings.ToLower(tag))
		respondOK(w, http.StatusOK, def)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to load tag setting", err)
		return
	}
	respondOK(w, http.StatusOK, setting)
}

// SaveTagSetting creates or replaces a tag's override. An omitted
// multiplier means 1.0.
func (h *Handler) SaveTagSetting(w http.ResponseWriter, r *http.Request) {
	var req models.TagSettingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	setting := &models.TagSetting{
		TagName:     req.TagName,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Multiplier:  models.DefaultMultiplier,
		Unit:        strings.TrimSpace(req.Unit),
	}
	if req.Multiplier != nil {
		setting.Multiplier = *req.Multiplier
	}

	if err := h.store.UpsertTagSetting(r.Context(), setting); err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to save tag setting", err)
		return
	}

	h.publish(r.Context(), events.TopicTagSettingsChanged, TagSettingsEvent{TagName: setting.TagName, Setting: setting})
	respondOK(w, http.StatusOK, setting)
}

// ResetTagSetting deletes a tag's override.
func (h *Handler) ResetTagSetting(w http.ResponseWriter, r *http.Request) {
	tag := strings.ToLower(chi.URLParam(r, "tag"))
	err := h.store.DeleteTagSetting(r.Context(), tag)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Tag setting not found", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to reset tag setting", err)
		return
	}

	h.publish(r.Context(), events.TopicTagSettingsChanged, TagSettingsEvent{TagName: tag})
	respondJSON(w, http.StatusOK, &Response{Success: true, Message: "reset"})
}

// ListUnits returns the unit catalog.
func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.store.ListUnits(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to list units", err)
		return
	}
	if units == nil {
		units = []models.Unit{}
	}
	respondOK(w, http.StatusOK, units)
}

// CreateUnit adds a unit to the catalog; duplicates answer 409.
func (h *Handler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req models.UnitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	unit, err := h.store.CreateUnit(r.Context(), strings.TrimSpace(req.Unit))
	switch {
	case errors.Is(err, database.ErrConflict):
		respondError(w, r, http.StatusConflict, CodeConflict, "Unit already exists", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to add unit", err)
		return
	}
	respondOK(w, http.StatusCreated, unit)
}

// DeleteUnit removes a unit by id.
func (h *Handler) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, "id must be a positive integer", nil)
		return
	}

	err = h.store.DeleteUnit(r.Context(), id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Unit not found", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to delete unit", err)
		return
	}
	respondJSON(w, http.StatusOK, &Response{Success: true, Message: "deleted"})
}
