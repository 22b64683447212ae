// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package api

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/dcsdash/internal/auth"
	"github.com/tomtom215/dcsdash/internal/config"
	"github.com/tomtom215/dcsdash/internal/dashboard"
	"github.com/tomtom215/dcsdash/internal/database"
	"github.com/tomtom215/dcsdash/internal/metadata"
	"github.com/tomtom215/dcsdash/internal/models"
	"github.com/tomtom215/dcsdash/internal/upstream"
)

type fakeStore struct {
	mu       sync.Mutex
	pingErr  error
	layouts  map[string]*models.Layout
	settings map[string]models.TagSetting
	units    []models.Unit
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		layouts:  make(map[string]*models.Layout),
		settings: make(map[string]models.TagSetting),
		units:    []models.Unit{{ID: 1, Unit: "kW"}, {ID: 2, Unit: "°C"}},
	}
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func (s *fakeStore) ListLayouts(context.Context) ([]models.Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Layout, 0, len(s.layouts))
	for _, l := range s.layouts {
		out = append(out, *l)
	}
	return out, nil
}

func (s *fakeStore) CreateLayout(_ context.Context, name string, tags []string) (*models.Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	l := &models.Layout{ID: "layout-" + strconv.Itoa(s.nextID), Name: name, TagNames: tags, CreatedAt: time.Now()}
	s.layouts[l.ID] = l
	cp := *l
	return &cp, nil
}

func (s *fakeStore) GetLayout(_ context.Context, id string) (*models.Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.layouts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *l
	cp.TagNames = append([]string(nil), l.TagNames...)
	return &cp, nil
}

func (s *fakeStore) UpdateLayoutTags(_ context.Context, id string, tags []string) (*models.Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.layouts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	l.TagNames = tags
	cp := *l
	return &cp, nil
}

func (s *fakeStore) DeleteLayout(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.layouts[id]; !ok {
		return database.ErrNotFound
	}
	delete(s.layouts, id)
	return nil
}

func (s *fakeStore) ListTagSettings(context.Context) ([]models.TagSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TagSetting, 0, len(s.settings))
	for _, ts := range s.settings {
		out = append(out, ts)
	}
	return out, nil
}

func (s *fakeStore) GetTagSetting(_ context.Context, tag string) (*models.TagSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, ok := s.settings[strings.ToLower(tag)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &ts, nil
}

func (s *fakeStore) UpsertTagSetting(_ context.Context, ts *models.TagSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts.TagName = strings.ToLower(ts.TagName)
	ts.UpdatedAt = time.Now()
	s.settings[ts.TagName] = *ts
	return nil
}

func (s *fakeStore) DeleteTagSetting(_ context.Context, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tag = strings.ToLower(tag)
	if _, ok := s.settings[tag]; !ok {
		return database.ErrNotFound
	}
	delete(s.settings, tag)
	return nil
}

func (s *fakeStore) ListUnits(context.Context) ([]models.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Unit(nil), s.units...), nil
}

func (s *fakeStore) CreateUnit(_ context.Context, unit string) (*models.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.units {
		if u.Unit == unit {
			return nil, database.ErrConflict
		}
	}
	u := models.Unit{ID: int64(len(s.units) + 1), Unit: unit, CreatedAt: time.Now()}
	s.units = append(s.units, u)
	return &u, nil
}

func (s *fakeStore) DeleteUnit(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.units {
		if u.ID == id {
			s.units = append(s.units[:i], s.units[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

type fakeMetadata struct {
	res    *metadata.Result
	err    error
	forced bool
}

func (m *fakeMetadata) Get(_ context.Context, force bool) (*metadata.Result, error) {
	m.forced = force
	if m.err != nil {
		return nil, m.err
	}
	return m.res, nil
}

type fakeDataAPI struct {
	mu   sync.Mutex
	rows []models.Row
	err  error
	last models.DataRequest
}

func (d *fakeDataAPI) Hourly(_ context.Context, req models.DataRequest) (*upstream.HourlyResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = req
	if d.err != nil {
		return nil, d.err
	}
	return &upstream.HourlyResult{Message: "ok", Rows: d.rows}, nil
}

func (d *fakeDataAPI) BreakerState() string { return "closed" }

type fakeViews struct {
	view  *dashboard.View
	query dashboard.Query
}

func (v *fakeViews) Build(_ context.Context, q dashboard.Query) *dashboard.View {
	v.query = q
	return v.view
}

type fakeAuth struct {
	session *auth.Session
	err     error
	revoked []string
}

func (a *fakeAuth) Login(context.Context, string, string) (*auth.Session, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.session, nil
}

func (a *fakeAuth) Logout(_ context.Context, claims *auth.Claims) error {
	if claims != nil {
		a.revoked = append(a.revoked, claims.ID)
	}
	return nil
}

var errUpstream = errors.New("dial tcp 10.0.0.5:443: connection refused")

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Environment: "development"},
		DataAPI: config.DataAPIConfig{URL: "https://worker.example.com", MaxRangeDays: 30},
		Security: config.SecurityConfig{
			AuthMode:          "jwt",
			RateLimitDisabled: true,
			CORSOrigins:       []string{"http://localhost:3001"},
		},
	}
}

type testEnv struct {
	store *fakeStore
	meta  *fakeMetadata
	data  *fakeDataAPI
	views *fakeViews
	auth  *fakeAuth
	h     *Handler
}

func newTestEnv() *testEnv {
	e := &testEnv{
		store: newFakeStore(),
		meta: &fakeMetadata{res: &metadata.Result{
			Tags: []models.Tag{
				{TagName: "kepco_power_01", TagDesc: "Main feeder power", Company: "KEPCO"},
				{TagName: "boiler_temp_02", Description: "Boiler outlet temperature"},
			},
			Message:   "ok (from cache)",
			Cached:    true,
			UpdatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		}},
		data:  &fakeDataAPI{},
		views: &fakeViews{view: &dashboard.View{Outcome: dashboard.OutcomeOK, Widgets: []dashboard.Widget{}}},
		auth:  &fakeAuth{},
	}
	e.h = NewHandler(Deps{
		Config:   testConfig(),
		Store:    e.store,
		Metadata: e.meta,
		DataAPI:  e.data,
		Views:    e.views,
		Auth:     e.auth,
	})
	return e
}
