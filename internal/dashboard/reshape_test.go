// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package dashboard

import (
	"math"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dcsdash/internal/models"
)

func TestReshape_BasicWideToLong(t *testing.T) {
	t.Parallel()

	rows := []models.Row{
		{"dtm": "2024-01-01 00:00", "a_tag": 1.0, "b_tag": 2.0},
		{"dtm": "2024-01-01 01:00", "a_tag": 3.0, "b_tag": 4.0},
	}

	got := Reshape(rows, []string{"A_Tag", "b_tag"})

	if got.DroppedRows != 0 || got.KeptRows != 2 {
		t.Fatalf("dropped=%d kept=%d, want 0/2", got.DroppedRows, got.KeptRows)
	}
	a := got.Series["A_Tag"]
	if len(a) != 2 {
		t.Fatalf("A_Tag has %d points, want 2", len(a))
	}
	if a[0].Timestamp != "2024-01-01 00:00" || a[0].Raw != Number(1) {
		t.Errorf("A_Tag[0] = %+v", a[0])
	}
	if a[1].Timestamp != "2024-01-01 01:00" || a[1].Raw != Number(3) {
		t.Errorf("A_Tag[1] = %+v", a[1])
	}
	if b := got.Series["b_tag"]; len(b) != 2 || b[1].Raw != Number(4) {
		t.Errorf("b_tag = %+v", b)
	}
}

func TestReshape_OnlySelectedTagsPresentInRows(t *testing.T) {
	t.Parallel()

	rows := []models.Row{
		{"timestamp": "t1", "x": 1.0, "y": 2.0, "z": 3.0},
	}

	got := Reshape(rows, []string{"x", "missing"})

	if len(got.Series) != 1 {
		t.Fatalf("got %d series, want 1: %+v", len(got.Series), got.Series)
	}
	if _, ok := got.Series["missing"]; ok {
		t.Error("tag absent from every row must not get a series")
	}
	if _, ok := got.Series["y"]; ok {
		t.Error("unselected tag leaked into the result")
	}
}

func TestReshape_DropsRowsWithoutTimestamp(t *testing.T) {
	t.Parallel()

	rows := []models.Row{
		{"dtm": "t1", "x": 1.0},
		{"x": 2.0},
		{"dtm": "", "x": 3.0},
		{"exec_tm": "t4", "x": 4.0},
	}

	got := Reshape(rows, []string{"x"})

	if got.DroppedRows != 2 {
		t.Errorf("DroppedRows = %d, want 2", got.DroppedRows)
	}
	if len(got.Series["x"]) != 2 {
		t.Fatalf("x has %d points, want 2", len(got.Series["x"]))
	}
	if got.Series["x"][1].Timestamp != "t4" {
		t.Errorf("second point timestamp = %q, want t4", got.Series["x"][1].Timestamp)
	}
}

func TestReshape_TimestampPriority(t *testing.T) {
	t.Parallel()

	rows := []models.Row{
		{"dtm": "from-dtm", "timestamp": "from-ts", "exec_tm": "from-exec", "x": 1.0},
		{"timestamp": "from-ts", "exec_tm": "from-exec", "x": 2.0},
	}

	x := Reshape(rows, []string{"x"}).Series["x"]
	if len(x) != 2 {
		t.Fatalf("x has %d points, want 2", len(x))
	}
	if x[0].Timestamp != "from-dtm" {
		t.Errorf("first timestamp = %q, want from-dtm", x[0].Timestamp)
	}
	if x[1].Timestamp != "from-ts" {
		t.Errorf("second timestamp = %q, want from-ts", x[1].Timestamp)
	}
}

func TestReshape_NullBecomesSentinel(t *testing.T) {
	t.Parallel()

	rows := []models.Row{
		{"dtm": "t1", "x": nil},
		{"dtm": "t2", "x": "n/a"},
		{"dtm": "t3", "x": "12.5"},
	}

	x := Reshape(rows, []string{"x"}).Series["x"]
	if len(x) != 3 {
		t.Fatalf("x has %d points, want 3", len(x))
	}
	if x[0].Raw.Valid || x[1].Raw.Valid {
		t.Errorf("null and non-numeric values must be NoValue: %+v %+v", x[0].Raw, x[1].Raw)
	}
	if x[2].Raw != Number(12.5) {
		t.Errorf("numeric string = %+v, want 12.5", x[2].Raw)
	}
}

func TestReshape_MixedCaseFieldsYieldOnePointPerRow(t *testing.T) {
	t.Parallel()

	rows := []models.Row{
		{"dtm": "t1", "Power": 9.0, "power": 1.0, "POWER": 8.0},
	}

	p := Reshape(rows, []string{"Power"}).Series["Power"]
	if len(p) != 1 {
		t.Fatalf("got %d points, want 1", len(p))
	}
	if p[0].Raw != Number(1) {
		t.Errorf("lower-case field must win, got %+v", p[0].Raw)
	}
}

func TestReshape_EmptyInput(t *testing.T) {
	t.Parallel()

	got := Reshape(nil, []string{"x"})
	if len(got.Series) != 0 || got.DroppedRows != 0 || got.KeptRows != 0 {
		t.Errorf("Reshape(nil) = %+v, want empty", got)
	}
}

func TestParseReading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want Reading
	}{
		{"float", 1.5, Number(1.5)},
		{"int", 3, Number(3)},
		{"int64", int64(4), Number(4)},
		{"json number", json.Number("2.25"), Number(2.25)},
		{"numeric string", " 7 ", Number(7)},
		{"nil", nil, NoValue},
		{"bool", true, NoValue},
		{"text", "abc", NoValue},
		{"nan", math.NaN(), NoValue},
		{"inf", math.Inf(1), NoValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseReading(tt.in); got != tt.want {
				t.Errorf("ParseReading(%v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTagIndex(t *testing.T) {
	t.Parallel()

	idx := NewTagIndex("Alpha", "beta", "ALPHA")
	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2", idx.Len())
	}
	if n, ok := idx.Lookup("alpha"); !ok || n != "Alpha" {
		t.Errorf("Lookup(alpha) = %q,%v, want Alpha,true", n, ok)
	}
	if got := idx.Keys(); got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("Keys = %v", got)
	}
	if idx.Register("BETA") {
		t.Error("Register must reject a case-insensitive duplicate")
	}
}
