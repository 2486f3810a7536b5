// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"math"
	"strconv"
	"strings"

	"github.com/jeranaias/xspark/internal/ui/styles"
)

// =============================================================================
// SLIDER
// =============================================================================

// Slider is a bounded numeric input adjusted in fixed steps.
type Slider struct {
	Label     string
	Min       float64
	Max       float64
	Step      float64
	Precision int

	value float64
}

// NewSlider creates a slider holding value, snapped into range.
func NewSlider(label string, min, max, step float64, precision int, value float64) Slider {
	s := Slider{Label: label, Min: min, Max: max, Step: step, Precision: precision}
	s.SetValue(value)
	return s
}

// Value returns the current value.
func (s Slider) Value() float64 {
	return s.value
}

// SetValue clamps v into range and rounds it to Precision digits. Values
// set directly are not snapped to Step, so a config value like 0.73 is
// kept as is.
func (s *Slider) SetValue(v float64) {
	if math.IsNaN(v) {
		v = s.Min
	}
	v = math.Max(s.Min, math.Min(s.Max, v))
	s.value = s.round(v)
}

// Increment moves one step up.
func (s *Slider) Increment() {
	s.SetValue(s.value + s.Step)
}

// Decrement moves one step down.
func (s *Slider) Decrement() {
	s.SetValue(s.value - s.Step)
}

// Ratio returns the position of the value within the range, 0 to 1.
func (s Slider) Ratio() float64 {
	if s.Max <= s.Min {
		return 0
	}
	return (s.value - s.Min) / (s.Max - s.Min)
}

// ValueString formats the value with Precision digits.
func (s Slider) ValueString() string {
	return strconv.FormatFloat(s.value, 'f', s.Precision, 64)
}

// View renders the label line and the track.
//
//	Temperature          0.70
//	━━━━━━━━━━━━━━●──────
func (s Slider) View(theme *styles.Theme, width int, focused bool) string {
	width = max(10, width)

	label := theme.Label
	if focused {
		label = theme.LabelFocused
	}
	value := s.ValueString()
	gap := max(1, width-len(s.Label)-len(value))
	header := label.Render(s.Label) + strings.Repeat(" ", gap) + theme.Value.Render(value)

	filled := int(math.Round(s.Ratio() * float64(width-1)))
	track := theme.SliderFill.Render(strings.Repeat("━", filled)) +
		theme.SliderKnob.Render("●") +
		theme.SliderTrack.Render(strings.Repeat("─", width-1-filled))

	return header + "\n" + track
}

func (s Slider) round(v float64) float64 {
	p := math.Pow(10, float64(s.Precision))
	return math.Round(v*p) / p
}
