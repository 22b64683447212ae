// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/dcsdash/internal/models"
)

func TestApplyDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     Reading
		setting models.TagSetting
		want    string
		wantOK  bool
	}{
		{"multiplier and unit", Number(1.5), models.TagSetting{Multiplier: 2, Unit: "kW"}, "3.00 kW", true},
		{"no unit", Number(1.234), models.TagSetting{Multiplier: 1}, "1.23", true},
		{"zero multiplier falls back", Number(4), models.TagSetting{Unit: "V"}, "4.00 V", true},
		{"negative", Number(-0.5), models.TagSetting{Multiplier: 10}, "-5.00", true},
		{"sentinel", NoValue, models.TagSetting{Multiplier: 2, Unit: "kW"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ApplyDisplay(tt.raw, tt.setting)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ApplyDisplay = %q,%v, want %q,%v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	meta := &models.Tag{TagName: "kepco_power_01", TagDesc: "1호기 전력"}

	tests := []struct {
		name    string
		tag     string
		setting models.TagSetting
		meta    *models.Tag
		want    string
	}{
		{"custom name wins", "kepco_power_01", models.TagSetting{DisplayName: "Main feed"}, meta, "Main feed"},
		{"metadata description", "kepco_power_01", models.TagSetting{}, meta, "1호기 전력"},
		{"prefix table", "kepco_power_01", models.TagSetting{}, nil, "전력"},
		{"prefix is case-insensitive", "POSCO_TEMP_03", models.TagSetting{}, nil, "온도"},
		{"unknown prefix", "misc_tag", models.TagSetting{}, nil, InstrumentLabel},
		{"blank custom name ignored", "posco_flow_1", models.TagSetting{DisplayName: "  "}, nil, "유량"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DisplayName(tt.tag, tt.setting, tt.meta); got != tt.want {
				t.Errorf("DisplayName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnconfiguredTagHasNoSuffix(t *testing.T) {
	t.Parallel()

	s := models.DefaultTagSetting("kepco_power_01")
	got, ok := ApplyDisplay(Number(12), s)
	if !ok || got != "12.00" {
		t.Errorf("ApplyDisplay = %q,%v, want 12.00 with no unit", got, ok)
	}
	if label := UnitLabel("kepco_power_01", s); label != "kW" {
		t.Errorf("UnitLabel = %q, want kW hint", label)
	}
}

func TestUnitHint(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"kepco_voltage_1":  "V",
		"kepco_pf_1":       "",
		"posco_speed_2":    "rpm",
		"posco_pressure_9": "MPa",
		"x":                "",
	}
	for tag, want := range tests {
		if got := UnitHint(tag); got != want {
			t.Errorf("UnitHint(%q) = %q, want %q", tag, got, want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	t.Parallel()

	series := TagSeries{
		{Timestamp: "t1", Raw: Number(10)},
		{Timestamp: "t2", Raw: NoValue},
		{Timestamp: "t3", Raw: Number(20)},
		{Timestamp: "t4", Raw: Number(30)},
	}

	st, err := ComputeStats(series, models.TagSetting{Multiplier: 2})
	if err != nil {
		t.Fatalf("ComputeStats error: %v", err)
	}
	if st.Min != 20 || st.Max != 60 || st.Average != 40 || st.Count != 3 {
		t.Errorf("stats = %+v, want min 20 max 60 avg 40 count 3", st)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	t.Parallel()

	for name, series := range map[string]TagSeries{
		"nil":          nil,
		"all sentinel": {{Timestamp: "t1", Raw: NoValue}},
	} {
		if _, err := ComputeStats(series, models.TagSetting{}); !errors.Is(err, ErrEmptySeries) {
			t.Errorf("%s: err = %v, want ErrEmptySeries", name, err)
		}
	}
}

func TestLastHour(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("KST", 9*3600)
	rows := []models.Row{
		{"dtm": "2024-03-01 07:00:00"},
		{"dtm": "2024-03-01 14:00:00"},
		{"value": 1.0},
	}

	hour, ok := LastHour(rows, loc)
	if !ok || hour != 14 {
		t.Errorf("LastHour = %d,%v, want 14,true", hour, ok)
	}

	if _, ok := LastHour([]models.Row{{"dtm": "garbage"}}, loc); ok {
		t.Error("unparseable timestamp must report false")
	}
	if _, ok := LastHour(nil, loc); ok {
		t.Error("no rows must report false")
	}
}

func TestGroupByCompany(t *testing.T) {
	t.Parallel()

	tags := []models.Tag{
		{TagName: "a", Company: "zeta"},
		{TagName: "b"},
		{TagName: "c", Company: "WIE"},
		{TagName: "d", Company: "acme"},
		{TagName: "e", Company: "inteco"},
	}

	groups := GroupByCompany(tags)
	want := []string{"WIE", "INTECO", "ACME", "ZETA"}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(groups), len(want))
	}
	for i, g := range groups {
		if g.Company != want[i] {
			t.Errorf("group[%d] = %s, want %s", i, g.Company, want[i])
		}
	}
	if inteco := groups[1].Tags; len(inteco) != 2 || inteco[0].TagName != "b" || inteco[1].TagName != "e" {
		t.Errorf("INTECO tags = %+v, want b then e", inteco)
	}
}

func TestSearchTags(t *testing.T) {
	t.Parallel()

	tags := []models.Tag{
		{TagName: "kepco_power_01", TagDesc: "Main Feed"},
		{TagName: "posco_temp_02", Description: "Furnace"},
	}

	if got := SearchTags(tags, "POWER"); len(got) != 1 || got[0].TagName != "kepco_power_01" {
		t.Errorf("search by name = %+v", got)
	}
	if got := SearchTags(tags, "furn"); len(got) != 1 || got[0].TagName != "posco_temp_02" {
		t.Errorf("search by description = %+v", got)
	}
	if got := SearchTags(tags, " "); len(got) != 2 {
		t.Errorf("blank query returned %d tags, want 2", len(got))
	}
}
