// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/dcsdash/internal/dashboard"
	"github.com/tomtom215/dcsdash/internal/logging"
	"github.com/tomtom215/dcsdash/internal/models"
	"github.com/tomtom215/dcsdash/internal/validation"
)

// Data proxies a time-series query to the data API.
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readDataRequest(w, r)
	if !ok {
		return
	}
	req.TagNames = lowerTagNames(req.TagNames)

	logging.Ctx(r.Context()).Debug().
		Str("from", sanitizeLogValue(req.ExecFromDT)).
		Str("to", sanitizeLogValue(req.ExecToDT)).
		Int("tags", len(req.TagNames)).
		Msg("time-series query")

	res, err := h.data.Hourly(r.Context(), req)
	if err != nil {
		respondErrorDetails(w, r, http.StatusBadGateway, CodeExternalService,
			"Failed to fetch data", err.Error(), err)
		return
	}

	rows := res.Rows
	if rows == nil {
		rows = []models.Row{}
	}
	respondJSON(w, http.StatusOK, &Response{Success: true, Message: res.Message, Data: rows})
}

// DashboardView fetches, reshapes and formats the selection in tag_names
// (original casing, display order). A failed fetch still answers 200 with
// outcome fetch_failed and the last good series of each widget.
func (h *Handler) DashboardView(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readDataRequest(w, r)
	if !ok {
		return
	}
	if len(req.TagNames) == 0 {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, "tag_names is required", nil)
		return
	}

	view := h.views.Build(r.Context(), dashboard.Query{
		From:      req.ExecFromDT,
		To:        req.ExecToDT,
		Selection: req.TagNames,
	})

	message := "ok"
	switch view.Outcome {
	case dashboard.OutcomeNoData:
		message = "No data for the selected range"
	case dashboard.OutcomeFetchFailed:
		message = "Failed to fetch data"
	}
	respondJSON(w, http.StatusOK, &Response{Success: true, Message: message, Data: view})
}

// readDataRequest decodes and checks a date-range body, writing the error
// response itself.
func (h *Handler) readDataRequest(w http.ResponseWriter, r *http.Request) (models.DataRequest, bool) {
	var req models.DataRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error(), nil)
		return req, false
	}
	if strings.TrimSpace(req.ExecFromDT) == "" || strings.TrimSpace(req.ExecToDT) == "" {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, "exec_from_dt and exec_to_dt are required", nil)
		return req, false
	}
	if !validateBody(w, r, &req) {
		return req, false
	}
	if msg := h.checkRange(req); msg != "" {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, msg, nil)
		return req, false
	}
	return req, true
}

// checkRange returns a client message when the range is reversed or wider
// than the configured maximum. Dates were validated already.
func (h *Handler) checkRange(req models.DataRequest) string {
	from, _ := validation.ParseDate(req.ExecFromDT)
	to, _ := validation.ParseDate(req.ExecToDT)

	if from.After(to) {
		return "exec_from_dt must not be after exec_to_dt"
	}
	if to.Sub(from) > h.cfg.DataAPI.MaxRange() {
		return fmt.Sprintf("Date range cannot exceed %d days", h.cfg.DataAPI.MaxRangeDays)
	}
	return ""
}

// lowerTagNames lower-cases and trims names, dropping blanks.
func lowerTagNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			out = append(out, n)
		}
	}
	return out
}
