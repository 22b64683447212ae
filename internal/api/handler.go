// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package api

import (
	"context"
	"time"

	"github.com/tomtom215/dcsdash/internal/auth"
	"github.com/tomtom215/dcsdash/internal/config"
	"github.com/tomtom215/dcsdash/internal/dashboard"
	"github.com/tomtom215/dcsdash/internal/events"
	"github.com/tomtom215/dcsdash/internal/logging"
	"github.com/tomtom215/dcsdash/internal/metadata"
	"github.com/tomtom215/dcsdash/internal/models"
	"github.com/tomtom215/dcsdash/internal/upstream"
	"github.com/tomtom215/dcsdash/internal/websocket"
)

// MetadataService answers tag metadata lookups.
type MetadataService interface {
	Get(ctx context.Context, forceRefresh bool) (*metadata.Result, error)
}

// DataAPI proxies time-series queries.
type DataAPI interface {
	Hourly(ctx context.Context, req models.DataRequest) (*upstream.HourlyResult, error)
	BreakerState() string
}

// ViewBuilder renders the server-side widget view.
type ViewBuilder interface {
	Build(ctx context.Context, q dashboard.Query) *dashboard.View
}

// Store is the persistence the handlers need.
type Store interface {
	Ping(ctx context.Context) error

	ListLayouts(ctx context.Context) ([]models.Layout, error)
	CreateLayout(ctx context.Context, name string, tags []string) (*models.Layout, error)
	GetLayout(ctx context.Context, id string) (*models.Layout, error)
	UpdateLayoutTags(ctx context.Context, id string, tags []string) (*models.Layout, error)
	DeleteLayout(ctx context.Context, id string) error

	ListTagSettings(ctx context.Context) ([]models.TagSetting, error)
	GetTagSetting(ctx context.Context, tag string) (*models.TagSetting, error)
	UpsertTagSetting(ctx context.Context, s *models.TagSetting) error
	DeleteTagSetting(ctx context.Context, tag string) error

	ListUnits(ctx context.Context) ([]models.Unit, error)
	CreateUnit(ctx context.Context, unit string) (*models.Unit, error)
	DeleteUnit(ctx context.Context, id int64) error
}

// Authenticator issues and revokes sessions.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*auth.Session, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

// Deps wires a Handler. Publisher and Hub may be nil.
type Deps struct {
	Config    *config.Config
	Store     Store
	Metadata  MetadataService
	DataAPI   DataAPI
	Views     ViewBuilder
	Auth      Authenticator
	Publisher events.Publisher
	Hub       *websocket.Hub
}

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	cfg       *config.Config
	store     Store
	meta      MetadataService
	data      DataAPI
	views     ViewBuilder
	auth      Authenticator
	publisher events.Publisher
	hub       *websocket.Hub
	startTime time.Time
}

// NewHandler creates a Handler.
func NewHandler(d Deps) *Handler {
	publisher := d.Publisher
	if publisher == nil {
		publisher = events.Discard
	}
	return &Handler{
		cfg:       d.Config,
		store:     d.Store,
		meta:      d.Metadata,
		data:      d.DataAPI,
		views:     d.Views,
		auth:      d.Auth,
		publisher: publisher,
		hub:       d.Hub,
		startTime: time.Now(),
	}
}

// publish announces a change. Failures are logged; the change itself has
// already been committed.
func (h *Handler) publish(ctx context.Context, topic string, data any) {
	if err := h.publisher.Publish(ctx, topic, data); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("topic", topic).Msg("failed to publish event")
	}
}
