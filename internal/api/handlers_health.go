// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dcsdash/internal/logging"
)

// healthPingTimeout bounds the database check.
const healthPingTimeout = 2 * time.Second

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Environment    string    `json:"environment"`
	DataAPI        string    `json:"data_api"`
	DataAPIBreaker string    `json:"data_api_breaker,omitempty"`
	Database       string    `json:"database"`
	Uptime         float64   `json:"uptime_seconds"`
	WSClients      int       `json:"ws_clients"`
}

// Health reports process liveness. It always answers 200; the database
// field carries the store check.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.cfg.Server.Environment,
		DataAPI:     h.cfg.DataAPI.URL,
		Database:    "ok",
		Uptime:      time.Since(h.startTime).Seconds(),
	}
	if h.data != nil {
		status.DataAPIBreaker = h.data.BreakerState()
	}
	if h.hub != nil {
		status.WSClients = h.hub.GetClientCount()
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("health check: database ping failed")
		status.Database = "error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		logging.Error().Err(err).Msg("Failed to write health response")
	}
}
