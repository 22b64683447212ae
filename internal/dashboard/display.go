// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package dashboard

import (
	"strconv"
	"strings"

	"github.com/tomtom215/dcsdash/internal/models"
)

// InstrumentLabel is the display name used when nothing better is known.
const InstrumentLabel = "계측기"

// namePrefixes maps tag naming conventions to human labels. Order matters
// only for readability; the prefixes do not overlap.
var namePrefixes = []struct {
	prefix string
	label  string
}{
	{"kepco_power_", "전력"},      // power
	{"kepco_voltage_", "전압"},    // voltage
	{"kepco_current_", "전류"},    // current
	{"kepco_frequency_", "주파수"}, // frequency
	{"kepco_pf_", "역률"},         // power factor
	{"posco_temp_", "온도"},       // temperature
	{"posco_pressure_", "압력"},   // pressure
	{"posco_flow_", "유량"},       // flow
	{"posco_level_", "레벨"},      // level
	{"posco_speed_", "속도"},      // speed
}

// unitHints maps name substrings to unit labels. First match wins, so
// "pf" must stay ahead of the broader entries that follow it.
var unitHints = []struct {
	substr string
	unit   string
}{
	{"power", "kW"},
	{"voltage", "V"},
	{"current", "A"},
	{"frequency", "Hz"},
	{"pf", ""},
	{"temp", "°C"},
	{"pressure", "MPa"},
	{"flow", "m³/h"},
	{"level", "m"},
	{"speed", "rpm"},
}

// EffectiveMultiplier returns the setting's multiplier, or the default
// when the setting carries none.
func EffectiveMultiplier(s models.TagSetting) float64 {
	if s.Multiplier > 0 {
		return s.Multiplier
	}
	return models.DefaultMultiplier
}

// Scale applies the tag multiplier. NoValue stays NoValue.
func Scale(r Reading, s models.TagSetting) Reading {
	if !r.Valid {
		return r
	}
	return Number(r.Value * EffectiveMultiplier(s))
}

// FormatValue renders an already scaled value with two decimals and the
// configured unit.
func FormatValue(v float64, unit string) string {
	out := strconv.FormatFloat(v, 'f', 2, 64)
	if unit != "" {
		out += " " + unit
	}
	return out
}

// ApplyDisplay scales and formats a raw reading. The second result is
// false for the NoValue sentinel, in which case no string is produced.
func ApplyDisplay(r Reading, s models.TagSetting) (string, bool) {
	scaled := Scale(r, s)
	if !scaled.Valid {
		return "", false
	}
	return FormatValue(scaled.Value, s.Unit), true
}

// PrefixLabel returns the label of the first matching naming convention,
// or InstrumentLabel.
func PrefixLabel(tag string) string {
	key := Canonical(tag)
	for _, p := range namePrefixes {
		if strings.HasPrefix(key, p.prefix) {
			return p.label
		}
	}
	return InstrumentLabel
}

// DisplayName resolves the name shown on a widget: custom name, then
// metadata description, then the prefix table.
func DisplayName(tag string, s models.TagSetting, meta *models.Tag) string {
	if name := strings.TrimSpace(s.DisplayName); name != "" {
		return name
	}
	if meta != nil {
		if label := meta.Label(); label != "" {
			return label
		}
	}
	return PrefixLabel(tag)
}

// UnitHint guesses a unit label from the tag name.
func UnitHint(tag string) string {
	key := Canonical(tag)
	for _, h := range unitHints {
		if strings.Contains(key, h.substr) {
			return h.unit
		}
	}
	return ""
}

// UnitLabel returns the configured unit, falling back to UnitHint.
func UnitLabel(tag string, s models.TagSetting) string {
	if s.Unit != "" {
		return s.Unit
	}
	return UnitHint(tag)
}
