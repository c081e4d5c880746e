// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// Theme defines the color palette for eventdesk's terminal UI. All
// colors use lipgloss ANSI 256-color codes for broad terminal
// compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Availability column.
	Available    lipgloss.Color
	NotAvailable lipgloss.Color

	// Status line.
	ErrorText  lipgloss.Color
	NoticeText lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	AccentColor      lipgloss.Color // Focused inputs, scrollbar thumb, action keys.

	// Modal overlays.
	ModalBackground lipgloss.Color

	// Animation accents: background tint for rows that changed on the
	// last refresh. HotAccentPut is used for new or updated rows;
	// HotAccentRemove for rows that just sold out.
	HotAccentPut    lipgloss.Color
	HotAccentRemove lipgloss.Color

	// Filter match highlighting.
	SearchHighlightBackground lipgloss.Color
}

// AvailabilityColor returns the foreground for an availability label.
func (theme Theme) AvailabilityColor(availability booking.Availability) lipgloss.Color {
	if availability == booking.Available {
		return theme.Available
	}
	return theme.NotAvailable
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	Available:    lipgloss.Color("114"), // green
	NotAvailable: lipgloss.Color("196"), // red

	ErrorText:  lipgloss.Color("203"),
	NoticeText: lipgloss.Color("150"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	AccentColor:      lipgloss.Color("220"), // amber

	ModalBackground: lipgloss.Color("235"),

	HotAccentPut:    lipgloss.Color("58"), // dark amber background tint
	HotAccentRemove: lipgloss.Color("52"), // dark red background tint

	SearchHighlightBackground: lipgloss.Color("58"),
}

// LightTheme is for terminals with a light background.
var LightTheme = Theme{
	NormalText: lipgloss.Color("235"),
	FaintText:  lipgloss.Color("243"),

	SelectedBackground: lipgloss.Color("253"),
	SelectedForeground: lipgloss.Color("232"),

	Available:    lipgloss.Color("28"),
	NotAvailable: lipgloss.Color("160"),

	ErrorText:  lipgloss.Color("160"),
	NoticeText: lipgloss.Color("28"),

	HeaderForeground: lipgloss.Color("232"),
	BorderColor:      lipgloss.Color("248"),
	HelpText:         lipgloss.Color("244"),
	AccentColor:      lipgloss.Color("130"),

	ModalBackground: lipgloss.Color("255"),

	HotAccentPut:    lipgloss.Color("229"),
	HotAccentRemove: lipgloss.Color("224"),

	SearchHighlightBackground: lipgloss.Color("229"),
}

var themes = map[string]Theme{
	"dark":  DefaultTheme,
	"light": LightTheme,
}

// ThemeNames lists the names accepted by [ThemeByName], sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ThemeByName returns a built-in theme. An empty name selects
// DefaultTheme.
func ThemeByName(name string) (Theme, error) {
	if name == "" {
		return DefaultTheme, nil
	}
	theme, exists := themes[strings.ToLower(name)]
	if !exists {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return theme, nil
}
