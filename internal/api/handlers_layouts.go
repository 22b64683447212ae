// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/dcsdash/internal/database"
	"github.com/tomtom215/dcsdash/internal/events"
	"github.com/tomtom215/dcsdash/internal/models"
	"github.com/tomtom215/dcsdash/internal/ordering"
)

// Layout change actions carried by layout_changed events.
const (
	LayoutCreated   = "created"
	LayoutReordered = "reordered"
	LayoutDeleted   = "deleted"
)

// LayoutEvent is the payload of layout_changed.
type LayoutEvent struct {
	Action string         `json:"action"`
	ID     string         `json:"id"`
	Layout *models.Layout `json:"layout,omitempty"`
}

// ListLayouts returns saved selections, newest first.
func (h *Handler) ListLayouts(w http.ResponseWriter, r *http.Request) {
	layouts, err := h.store.ListLayouts(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to list saved selections", err)
		return
	}
	if layouts == nil {
		layouts = []models.Layout{}
	}
	respondOK(w, http.StatusOK, layouts)
}

// CreateLayout saves a selection. Tags are deduplicated case-insensitively,
// keeping the first spelling and position.
func (h *Handler) CreateLayout(w http.ResponseWriter, r *http.Request) {
	var req models.LayoutRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tags := ordering.New(req.TagNames...).Tags()
	layout, err := h.store.CreateLayout(r.Context(), strings.TrimSpace(req.Name), tags)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to save selection", err)
		return
	}

	h.publish(r.Context(), events.TopicLayoutChanged, LayoutEvent{Action: LayoutCreated, ID: layout.ID, Layout: layout})
	respondOK(w, http.StatusCreated, layout)
}

// GetLayout returns one saved selection.
func (h *Handler) GetLayout(w http.ResponseWriter, r *http.Request) {
	layout, ok := h.loadLayout(w, r)
	if !ok {
		return
	}
	respondOK(w, http.StatusOK, layout)
}

// DeleteLayout removes a saved selection.
func (h *Handler) DeleteLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.store.DeleteLayout(r.Context(), id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Saved selection not found", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to delete saved selection", err)
		return
	}

	h.publish(r.Context(), events.TopicLayoutChanged, LayoutEvent{Action: LayoutDeleted, ID: id})
	respondJSON(w, http.StatusOK, &Response{Success: true, Message: "deleted"})
}

// ReorderLayout moves one tag of a saved selection with a move, before or
// drag operation and persists the resulting order.
func (h *Handler) ReorderLayout(w http.ResponseWriter, r *http.Request) {
	var req models.ReorderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	layout, ok := h.loadLayout(w, r)
	if !ok {
		return
	}

	tags, err := applyReorder(layout.TagNames, req)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error(), nil)
		return
	}

	updated, err := h.store.UpdateLayoutTags(r.Context(), layout.ID, tags)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Saved selection not found", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to reorder saved selection", err)
		return
	}

	h.publish(r.Context(), events.TopicLayoutChanged, LayoutEvent{Action: LayoutReordered, ID: updated.ID, Layout: updated})
	respondOK(w, http.StatusOK, updated)
}

func (h *Handler) loadLayout(w http.ResponseWriter, r *http.Request) (*models.Layout, bool) {
	layout, err := h.store.GetLayout(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Saved selection not found", nil)
		return nil, false
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to load saved selection", err)
		return nil, false
	}
	return layout, true
}

// applyReorder runs req against a Selection built from tags.
func applyReorder(tags []string, req models.ReorderRequest) ([]string, error) {
	sel := ordering.New(tags...)

	var err error
	switch req.Op {
	case models.ReorderMove:
		err = sel.MoveTo(req.Tag, req.Target)
	case models.ReorderBefore:
		err = sel.MoveBefore(req.Tag, req.Anchor)
	case models.ReorderDrag:
		var drag *ordering.DragSession
		if drag, err = ordering.StartDrag(sel, req.Tag); err != nil {
			break
		}
		if _, err = drag.Over(req.Boxes, *req.PointerY); err != nil {
			drag.Cancel()
			break
		}
		return drag.Drop()
	default:
		err = errors.New("unknown reorder op")
	}
	if err != nil {
		return nil, err
	}
	return sel.Tags(), nil
}
