// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package dashboard

import (
	"errors"
	"strings"
	"time"

	"github.com/tomtom215/dcsdash/internal/models"
)

// ErrEmptySeries is returned by ComputeStats when no point carries a value.
var ErrEmptySeries = errors.New("series has no values")

// Stats summarizes a scaled series.
type Stats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// ComputeStats returns min, max and mean of the multiplied values.
// NoValue points are skipped.
func ComputeStats(series TagSeries, s models.TagSetting) (Stats, error) {
	var st Stats
	var sum float64

	for _, p := range series {
		v := Scale(p.Raw, s)
		if !v.Valid {
			continue
		}
		if st.Count == 0 || v.Value < st.Min {
			st.Min = v.Value
		}
		if st.Count == 0 || v.Value > st.Max {
			st.Max = v.Value
		}
		sum += v.Value
		st.Count++
	}

	if st.Count == 0 {
		return Stats{}, ErrEmptySeries
	}
	st.Average = sum / float64(st.Count)
	return st, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp formats the data API emits. Values
// without a zone are read in loc.
func ParseTimestamp(ts string, loc *time.Location) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, ts, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// LastHour returns the hour of day of the last row timestamp, used for
// the "<hour> o'clock data" header.
func LastHour(rows []models.Row, loc *time.Location) (int, bool) {
	for i := len(rows) - 1; i >= 0; i-- {
		ts, ok := rowTimestamp(rows[i])
		if !ok {
			continue
		}
		t, ok := ParseTimestamp(ts, loc)
		if !ok {
			return 0, false
		}
		return t.In(loc).Hour(), true
	}
	return 0, false
}
