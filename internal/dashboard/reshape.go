// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package dashboard

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dcsdash/internal/models"
)

// TimestampFields are the accepted timestamp field names, in priority order.
// When a row carries more than one, the first non-empty one wins.
var TimestampFields = []string{"dtm", "timestamp", "exec_tm"}

// IsTimestampField reports whether a field name is one of TimestampFields.
func IsTimestampField(field string) bool {
	for _, f := range TimestampFields {
		if field == f {
			return true
		}
	}
	return false
}

// Reading is a raw value that may be absent. An invalid Reading is the
// "no value" sentinel: it is never multiplied or averaged.
type Reading struct {
	Value float64
	Valid bool
}

// NoValue is the sentinel Reading.
var NoValue = Reading{}

// Number returns a valid Reading.
func Number(v float64) Reading {
	return Reading{Value: v, Valid: true}
}

// SeriesPoint is one (timestamp, value) sample of a tag.
type SeriesPoint struct {
	Timestamp string
	Raw       Reading
	Tag       string
}

// TagSeries is the ordered sequence of points for one tag, in source row order.
type TagSeries []SeriesPoint

// Last returns the last point of the series.
func (s TagSeries) Last() (SeriesPoint, bool) {
	if len(s) == 0 {
		return SeriesPoint{}, false
	}
	return s[len(s)-1], true
}

// ReshapeResult is the long-format output of Reshape.
type ReshapeResult struct {
	// Series is keyed by the preserved-case tag name from the selection.
	Series map[string]TagSeries

	// DroppedRows counts rows without any recognized timestamp.
	DroppedRows int

	// KeptRows counts rows that carried a timestamp.
	KeptRows int
}

// Reshape converts wide rows into one series per selected tag.
//
// Rows lacking every field in TimestampFields are dropped. Fields whose
// lower-cased name does not match a selected tag are ignored. Tags that
// never appear get no entry in the result. Point order follows row order.
func Reshape(rows []models.Row, selection []string) ReshapeResult {
	index := NewTagIndex(selection...)
	result := ReshapeResult{Series: make(map[string]TagSeries)}

	for _, row := range rows {
		ts, ok := rowTimestamp(row)
		if !ok {
			result.DroppedRows++
			continue
		}
		result.KeptRows++

		for tag, raw := range pickFields(row, index) {
			result.Series[tag] = append(result.Series[tag], SeriesPoint{
				Timestamp: ts,
				Raw:       ParseReading(raw),
				Tag:       tag,
			})
		}
	}

	return result
}

// pickFields selects at most one field per selected tag from row. When the
// same tag appears under several casings the lower-case field wins, so
// every tag gains at most one point per row.
func pickFields(row models.Row, index *TagIndex) map[string]any {
	picked := make(map[string]any, index.Len())
	exact := make(map[string]bool, index.Len())

	for field, raw := range row {
		if IsTimestampField(field) {
			continue
		}
		tag, ok := index.Lookup(field)
		if !ok {
			continue
		}
		isExact := field == Canonical(field)
		if _, seen := picked[tag]; seen && (exact[tag] || !isExact) {
			continue
		}
		picked[tag] = raw
		exact[tag] = isExact
	}
	return picked
}

// rowTimestamp returns the first non-empty timestamp field of row.
func rowTimestamp(row models.Row) (string, bool) {
	for _, field := range TimestampFields {
		raw, ok := row[field]
		if !ok || raw == nil {
			continue
		}
		if ts := stringify(raw); ts != "" {
			return ts, true
		}
	}
	return "", false
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// ParseReading converts a decoded JSON value into a Reading. Numbers and
// numeric strings are valid; null, booleans, other strings, NaN and
// infinities are NoValue.
func ParseReading(v any) Reading {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return NoValue
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return NoValue
		}
		f = parsed
	default:
		return NoValue
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NoValue
	}
	return Number(f)
}
