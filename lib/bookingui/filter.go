// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/eventdesk/lib/tui"
)

// FilterModel holds the catalog filter query. Matching itself is
// [catalog.Filter]; this type only edits and draws the query.
type FilterModel struct {
	// Input is the current query text.
	Input string

	// Active is true while the filter bar has keyboard focus.
	Active bool
}

// HandleRune appends a typed character.
func (filter *FilterModel) HandleRune(character rune) {
	filter.Input += string(character)
}

// HandleBackspace removes the last character. Returns true if the
// input changed.
func (filter *FilterModel) HandleBackspace() bool {
	if len(filter.Input) == 0 {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear resets the query and releases focus.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar: the input with a cursor while active,
// a faint reminder of the query while inactive, and nothing when there
// is no query.
func (filter *FilterModel) View(theme tui.Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}
	if filter.Active {
		cursor := lipgloss.NewStyle().
			Foreground(theme.AccentColor).
			Bold(true).
			Render("▎")
		return lipgloss.NewStyle().Foreground(theme.NormalText).MaxWidth(width).
			Render(" / " + filter.Input + cursor)
	}
	return lipgloss.NewStyle().Foreground(theme.FaintText).MaxWidth(width).
		Render(" filter: " + filter.Input)
}
