// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/dcsdash/internal/models"
)

type fakeFetcher struct {
	rows []models.Row
	err  error
	last models.DataRequest
}

func (f *fakeFetcher) FetchRows(_ context.Context, req models.DataRequest) ([]models.Row, error) {
	f.last = req
	return f.rows, f.err
}

type fakeSettings map[string]models.TagSetting

func (f fakeSettings) TagSettingsMap(context.Context) (map[string]models.TagSetting, error) {
	return f, nil
}

type fakeMeta []models.Tag

func (f fakeMeta) Tags(context.Context) ([]models.Tag, error) {
	return f, nil
}

type failingMeta struct{}

func (failingMeta) Tags(context.Context) ([]models.Tag, error) {
	return nil, errors.New("upstream down")
}

func TestBuilder_Build_OK(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{rows: []models.Row{
		{"dtm": "2024-01-01 08:00:00", "kepco_power_01": 10.0, "posco_temp_01": nil},
		{"dtm": "2024-01-01 09:00:00", "kepco_power_01": 20.0, "posco_temp_01": 5.0},
		{"kepco_power_01": 99.0},
	}}
	settings := fakeSettings{
		"kepco_power_01": {TagName: "kepco_power_01", Multiplier: 2, Unit: "kW"},
	}
	meta := fakeMeta{{TagName: "POSCO_TEMP_01", TagDesc: "Furnace", Company: "wie"}}

	b := NewBuilder(fetcher, settings, meta, nil).WithLocation(time.UTC)
	view := b.Build(context.Background(), Query{
		From:      "2024-01-01",
		To:        "2024-01-02",
		Selection: []string{"KEPCO_POWER_01", "posco_temp_01", "absent_tag"},
	})

	if view.Outcome != OutcomeOK {
		t.Fatalf("Outcome = %s, want ok (err %v)", view.Outcome, view.Err)
	}
	if got := fetcher.last.TagNames; len(got) != 3 || got[0] != "kepco_power_01" {
		t.Errorf("request tag names = %v, want lower-cased selection", got)
	}
	if view.DroppedRows != 1 {
		t.Errorf("DroppedRows = %d, want 1", view.DroppedRows)
	}
	if view.LastHour == nil || *view.LastHour != 9 {
		t.Errorf("LastHour = %v, want 9", view.LastHour)
	}
	if len(view.Widgets) != 3 {
		t.Fatalf("got %d widgets, want 3", len(view.Widgets))
	}

	power := view.Widgets[0]
	if power.TagName != "KEPCO_POWER_01" || power.DisplayName != "전력" {
		t.Errorf("power widget = %s/%s", power.TagName, power.DisplayName)
	}
	if power.LastDisplay == nil || *power.LastDisplay != "40.00 kW" {
		t.Errorf("power last display = %v, want 40.00 kW", power.LastDisplay)
	}
	if power.Stats == nil || power.Stats.Min != 20 || power.Stats.Max != 40 || power.Stats.Average != 30 {
		t.Errorf("power stats = %+v", power.Stats)
	}

	temp := view.Widgets[1]
	if temp.DisplayName != "Furnace" || temp.Company != "WIE" {
		t.Errorf("temp widget = %s/%s", temp.DisplayName, temp.Company)
	}
	if temp.Points[0].Value != nil || temp.Points[0].Display != nil {
		t.Error("null reading must render without value or display")
	}
	if temp.Points[1].Display == nil || *temp.Points[1].Display != "5.00" {
		t.Errorf("temp display = %v, want 5.00", temp.Points[1].Display)
	}

	if absent := view.Widgets[2]; absent.Status != StatusNoData || len(absent.Points) != 0 {
		t.Errorf("absent widget = %+v, want no_data", absent)
	}
}

func TestBuilder_Build_FailureKeepsPreviousSeries(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{rows: []models.Row{{"dtm": "t1", "x": 1.0}}}
	b := NewBuilder(fetcher, nil, nil, nil)

	first := b.Build(context.Background(), Query{Selection: []string{"x"}})
	if first.Outcome != OutcomeOK || first.Widgets[0].Status != StatusOK {
		t.Fatalf("first build = %+v", first)
	}

	fetcher.rows, fetcher.err = nil, errors.New("boom")
	failed := b.Build(context.Background(), Query{Selection: []string{"x"}})
	if failed.Outcome != OutcomeFetchFailed || failed.Err == nil {
		t.Fatalf("Outcome = %s, want fetch_failed", failed.Outcome)
	}
	if len(failed.Widgets[0].Points) != 1 {
		t.Error("failed fetch must leave stored series in place")
	}

	fetcher.err = nil
	empty := b.Build(context.Background(), Query{Selection: []string{"x"}})
	if empty.Outcome != OutcomeNoData {
		t.Errorf("Outcome = %s, want no_data", empty.Outcome)
	}
	if len(empty.Widgets[0].Points) != 1 {
		t.Error("empty fetch must leave stored series in place")
	}
}

func TestBuilder_Build_AllRowsDropped(t *testing.T) {
	t.Parallel()

	b := NewBuilder(&fakeFetcher{rows: []models.Row{{"x": 1.0}}}, nil, failingMeta{}, nil)
	view := b.Build(context.Background(), Query{Selection: []string{"x"}})

	if view.Outcome != OutcomeNoData {
		t.Errorf("Outcome = %s, want no_data", view.Outcome)
	}
	if view.Widgets[0].DisplayName != InstrumentLabel {
		t.Errorf("DisplayName = %q, want heuristic fallback", view.Widgets[0].DisplayName)
	}
}

func TestSeriesStore_LastWriteWins(t *testing.T) {
	t.Parallel()

	st := NewSeriesStore()
	st.Replace(map[string]TagSeries{"Tag": {{Timestamp: "t1", Raw: Number(1)}}})
	st.Replace(map[string]TagSeries{"tag": {{Timestamp: "t2", Raw: Number(2)}, {Timestamp: "t3", Raw: Number(3)}}})

	got, ok := st.Get("TAG")
	if !ok || len(got) != 2 || got[0].Timestamp != "t2" {
		t.Errorf("Get = %+v,%v, want the second write", got, ok)
	}

	st.Delete("tag")
	if _, ok := st.Get("tag"); ok {
		t.Error("Delete did not remove the series")
	}
}
