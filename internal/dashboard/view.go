// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/dcsdash/internal/logging"
	"github.com/tomtom215/dcsdash/internal/metrics"
	"github.com/tomtom215/dcsdash/internal/models"
)

// Fetcher returns wide rows for a date range and lower-cased tag names.
type Fetcher interface {
	FetchRows(ctx context.Context, req models.DataRequest) ([]models.Row, error)
}

// SettingsSource returns all tag settings keyed by canonical tag name.
type SettingsSource interface {
	TagSettingsMap(ctx context.Context) (map[string]models.TagSetting, error)
}

// MetadataSource returns the known tag list.
type MetadataSource interface {
	Tags(ctx context.Context) ([]models.Tag, error)
}

// Outcome classifies a view build.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeNoData      Outcome = "no_data"
	OutcomeFetchFailed Outcome = "fetch_failed"
)

// Widget statuses.
const (
	StatusOK     = "ok"
	StatusNoData = "no_data"
)

// Query asks for a view of the selection over a date range.
type Query struct {
	From      string
	To        string
	Selection []string
}

// Point is one display-ready sample. Nil pointers mean "no value".
type Point struct {
	Timestamp string   `json:"timestamp"`
	Raw       *float64 `json:"raw"`
	Value     *float64 `json:"value"`
	Display   *string  `json:"display"`
}

// Widget is everything the front end needs to render one tag.
type Widget struct {
	TagName     string   `json:"tag_name"`
	DisplayName string   `json:"display_name"`
	Company     string   `json:"company"`
	Multiplier  float64  `json:"multiplier"`
	Unit        string   `json:"unit,omitempty"`
	UnitLabel   string   `json:"unit_label,omitempty"`
	Status      string   `json:"status"`
	Points      []Point  `json:"points"`
	LastValue   *float64 `json:"last_value"`
	LastDisplay *string  `json:"last_display"`
	Stats       *Stats   `json:"stats,omitempty"`
}

// View is the result of a build. Widgets follow selection order.
type View struct {
	Outcome     Outcome  `json:"outcome"`
	Widgets     []Widget `json:"widgets"`
	DroppedRows int      `json:"dropped_rows"`
	LastHour    *int     `json:"last_hour,omitempty"`
	Err         error    `json:"-"`
}

// SeriesStore keeps the latest series per tag. A successful fetch replaces
// the whole series of every tag it carries; concurrent builds are not
// ordered, so whichever lands last wins.
type SeriesStore struct {
	mu     sync.RWMutex
	series map[string]TagSeries
}

// NewSeriesStore returns an empty store.
func NewSeriesStore() *SeriesStore {
	return &SeriesStore{series: make(map[string]TagSeries)}
}

// Replace overwrites the series of each tag in s.
func (st *SeriesStore) Replace(s map[string]TagSeries) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for tag, series := range s {
		st.series[Canonical(tag)] = series
	}
}

// Get returns the stored series of a tag.
func (st *SeriesStore) Get(tag string) (TagSeries, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.series[Canonical(tag)]
	return s, ok
}

// Delete drops the series of a removed widget.
func (st *SeriesStore) Delete(tag string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.series, Canonical(tag))
}

// Builder composes fetching, reshaping and display formatting.
type Builder struct {
	fetcher  Fetcher
	settings SettingsSource
	meta     MetadataSource
	store    *SeriesStore
	loc      *time.Location
}

// NewBuilder creates a Builder. meta and settings may be nil.
func NewBuilder(fetcher Fetcher, settings SettingsSource, meta MetadataSource, store *SeriesStore) *Builder {
	if store == nil {
		store = NewSeriesStore()
	}
	return &Builder{
		fetcher:  fetcher,
		settings: settings,
		meta:     meta,
		store:    store,
		loc:      time.Local,
	}
}

// WithLocation sets the zone used for zone-less upstream timestamps.
func (b *Builder) WithLocation(loc *time.Location) *Builder {
	if loc != nil {
		b.loc = loc
	}
	return b
}

// Store returns the series store backing the builder.
func (b *Builder) Store() *SeriesStore {
	return b.store
}

// Build fetches rows and renders the selection. A failed or empty fetch
// leaves previously stored series untouched and renders from them.
func (b *Builder) Build(ctx context.Context, q Query) *View {
	index := NewTagIndex(q.Selection...)
	view := &View{Outcome: OutcomeOK}

	rows, err := b.fetcher.FetchRows(ctx, models.DataRequest{
		ExecFromDT: q.From,
		ExecToDT:   q.To,
		TagNames:   index.Keys(),
	})

	switch {
	case err != nil:
		logging.Ctx(ctx).Warn().Err(err).Int("tags", index.Len()).Msg("time-series fetch failed")
		view.Outcome = OutcomeFetchFailed
		view.Err = err
	case len(rows) == 0:
		view.Outcome = OutcomeNoData
	default:
		result := Reshape(rows, index.Names())
		view.DroppedRows = result.DroppedRows
		if result.DroppedRows > 0 {
			metrics.ReshapeRowsDropped.Add(float64(result.DroppedRows))
			logging.Ctx(ctx).Warn().
				Int("dropped_rows", result.DroppedRows).
				Int("kept_rows", result.KeptRows).
				Msg("rows without a recognized timestamp were dropped")
		}
		if result.KeptRows == 0 {
			view.Outcome = OutcomeNoData
			break
		}
		b.store.Replace(result.Series)
		if hour, ok := LastHour(rows, b.loc); ok {
			view.LastHour = &hour
		}
	}
	metrics.ViewBuildsTotal.WithLabelValues(string(view.Outcome)).Inc()

	settings := b.loadSettings(ctx)
	meta := b.loadMeta(ctx)

	view.Widgets = make([]Widget, 0, index.Len())
	for _, tag := range index.Names() {
		setting, ok := settings[Canonical(tag)]
		if !ok {
			setting = models.DefaultTagSetting(tag)
		}
		tagMeta := meta.Get(tag)
		if tagMeta == nil && len(meta) > 0 {
			logging.Ctx(ctx).Warn().Str("tag", tag).Msg("no metadata entry for tag, using name heuristic")
		}
		series, _ := b.store.Get(tag)
		view.Widgets = append(view.Widgets, buildWidget(tag, series, setting, tagMeta))
	}

	return view
}

func (b *Builder) loadSettings(ctx context.Context) map[string]models.TagSetting {
	if b.settings == nil {
		return nil
	}
	s, err := b.settings.TagSettingsMap(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("tag settings unavailable, using defaults")
		return nil
	}
	return s
}

func (b *Builder) loadMeta(ctx context.Context) MetaIndex {
	if b.meta == nil {
		return nil
	}
	tags, err := b.meta.Tags(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("metadata unavailable, using name heuristics")
		return nil
	}
	return NewMetaIndex(tags)
}

func buildWidget(tag string, series TagSeries, s models.TagSetting, meta *models.Tag) Widget {
	w := Widget{
		TagName:     tag,
		DisplayName: DisplayName(tag, s, meta),
		Company:     DefaultCompany,
		Multiplier:  EffectiveMultiplier(s),
		Unit:        s.Unit,
		UnitLabel:   UnitLabel(tag, s),
		Status:      StatusNoData,
		Points:      make([]Point, 0, len(series)),
	}
	if meta != nil {
		w.Company = CompanyOf(*meta)
	}

	for _, p := range series {
		w.Points = append(w.Points, renderPoint(p, s))
	}
	if len(series) == 0 {
		return w
	}

	w.Status = StatusOK
	last := w.Points[len(w.Points)-1]
	w.LastValue = last.Value
	w.LastDisplay = last.Display
	if st, err := ComputeStats(series, s); err == nil {
		w.Stats = &st
	}
	return w
}

func renderPoint(p SeriesPoint, s models.TagSetting) Point {
	out := Point{Timestamp: p.Timestamp}
	if !p.Raw.Valid {
		return out
	}
	raw := p.Raw.Value
	scaled := Scale(p.Raw, s).Value
	display, _ := ApplyDisplay(p.Raw, s)
	out.Raw = &raw
	out.Value = &scaled
	out.Display = &display
	return out
}
