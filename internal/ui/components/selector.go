// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"slices"
	"strings"

	"github.com/jeranaias/xspark/internal/ui/styles"
	"github.com/jeranaias/xspark/internal/util"
)

// Selector shows one value picked from a fixed list.
type Selector struct {
	Label   string
	Options []string
	// Display maps an option to its shown name. Nil shows the option.
	Display func(string) string

	index int
}

// NewSelector creates a selector with selected chosen when present.
func NewSelector(label string, options []string, selected string) Selector {
	s := Selector{Label: label, Options: slices.Clone(options)}
	s.SetSelected(selected)
	return s
}

// Selected returns the current option, or "" when there are none.
func (s Selector) Selected() string {
	if len(s.Options) == 0 {
		return ""
	}
	return s.Options[s.index]
}

// SetSelected selects option and reports whether it was found.
func (s *Selector) SetSelected(option string) bool {
	i := slices.Index(s.Options, option)
	if i < 0 {
		return false
	}
	s.index = i
	return true
}

// SetOptions replaces the list, keeping the selection when still present.
func (s *Selector) SetOptions(options []string) {
	current := s.Selected()
	s.Options = slices.Clone(options)
	s.index = 0
	s.SetSelected(current)
}

// View renders the label and the current option between arrows.
func (s Selector) View(theme *styles.Theme, width int, focused bool) string {
	label := theme.Label
	if focused {
		label = theme.LabelFocused
	}

	name := s.Selected()
	if s.Display != nil && name != "" {
		name = s.Display(name)
	}
	inner := max(4, width-4)
	name = util.TruncateWidth(name, inner)

	var b strings.Builder
	b.WriteString(label.Render(s.Label))
	b.WriteString("\n")
	b.WriteString(theme.SelectorArrow.Render("‹ "))
	b.WriteString(theme.SelectorItem.Render(util.PadRight(name, inner)))
	b.WriteString(theme.SelectorArrow.Render(" ›"))
	return b.String()
}
