// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

// Package metadata serves the upstream tag list through a two-level cache:
// an in-memory TTL cache in front of the newest DuckDB snapshot.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/dcsdash/internal/cache"
	"github.com/tomtom215/dcsdash/internal/database"
	"github.com/tomtom215/dcsdash/internal/events"
	"github.com/tomtom215/dcsdash/internal/logging"
	"github.com/tomtom215/dcsdash/internal/models"
	"github.com/tomtom215/dcsdash/internal/upstream"
)

// SourceAPI marks snapshots fetched from the data API.
const SourceAPI = "api"

// CachedMessage is the message of a response served from cache.
const CachedMessage = "ok (from cache)"

const cacheKey = "meta"

// Upstream fetches the tag list from the data API.
type Upstream interface {
	Meta(ctx context.Context) (*upstream.MetaResult, error)
}

// Store persists metadata snapshots.
type Store interface {
	SaveMetadata(ctx context.Context, tags []models.Tag, source string) (*models.MetadataSnapshot, error)
	LatestMetadata(ctx context.Context) (*models.MetadataSnapshot, error)
}

// Result is a metadata lookup answer.
type Result struct {
	Tags      []models.Tag
	Message   string
	Cached    bool
	UpdatedAt time.Time
}

// Service answers metadata lookups.
type Service struct {
	upstream  Upstream
	store     Store
	l1        *cache.Cache
	publisher events.Publisher
	group     singleflight.Group
}

// NewService creates a Service. l1 may be nil to disable the memory tier;
// publisher may be nil.
func NewService(up Upstream, store Store, l1 *cache.Cache, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Discard
	}
	return &Service{upstream: up, store: store, l1: l1, publisher: publisher}
}

// Get returns the tag list. Unless forceRefresh is set, the memory cache
// and then the newest stored snapshot are tried before the data API.
func (s *Service) Get(ctx context.Context, forceRefresh bool) (*Result, error) {
	if !forceRefresh {
		if snap, ok := s.cached(ctx); ok {
			return &Result{Tags: snap.Tags, Message: CachedMessage, Cached: true, UpdatedAt: snap.UpdatedAt}, nil
		}
	}

	v, err, _ := s.group.Do(cacheKey, func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

// Tags returns the tag list without forcing a refresh.
func (s *Service) Tags(ctx context.Context) ([]models.Tag, error) {
	res, err := s.Get(ctx, false)
	if err != nil {
		return nil, err
	}
	return res.Tags, nil
}

// Invalidate drops the memory tier so the next lookup reads the store.
func (s *Service) Invalidate() {
	if s.l1 != nil {
		s.l1.Delete(cacheKey)
	}
}

func (s *Service) cached(ctx context.Context) (*models.MetadataSnapshot, bool) {
	if s.l1 != nil {
		if v, ok := s.l1.Get(cacheKey); ok {
			if snap, ok := v.(*models.MetadataSnapshot); ok {
				return snap, true
			}
		}
	}
	if s.store == nil {
		return nil, false
	}

	snap, err := s.store.LatestMetadata(ctx)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return nil, false
	case err != nil:
		logging.Ctx(ctx).Warn().Err(err).Msg("metadata snapshot unavailable")
		return nil, false
	case len(snap.Tags) == 0:
		return nil, false
	}
	if s.l1 != nil {
		s.l1.Set(cacheKey, snap)
	}
	return snap, true
}

func (s *Service) refresh(ctx context.Context) (*Result, error) {
	meta, err := s.upstream.Meta(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}
	res := &Result{Tags: meta.Tags, Message: meta.Message, UpdatedAt: time.Now().UTC()}
	if len(meta.Tags) == 0 {
		return res, nil
	}

	snap := &models.MetadataSnapshot{Tags: meta.Tags, Source: SourceAPI, UpdatedAt: res.UpdatedAt}
	if s.store != nil {
		stored, err := s.store.SaveMetadata(ctx, meta.Tags, SourceAPI)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("failed to persist metadata snapshot")
		} else {
			snap = stored
			res.UpdatedAt = stored.UpdatedAt
		}
	}
	if s.l1 != nil {
		s.l1.Set(cacheKey, snap)
	}

	if err := s.publisher.Publish(ctx, events.TopicMetadataRefreshed, map[string]any{
		"count":      len(meta.Tags),
		"updated_at": snap.UpdatedAt,
	}); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("failed to publish metadata event")
	}

	logging.Ctx(ctx).Info().Int("tags", len(meta.Tags)).Msg("metadata refreshed from data API")
	return res, nil
}
