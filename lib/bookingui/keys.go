// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for every screen. Text inputs take
// printable characters first, so bindings that must work inside forms
// use control keys.
type KeyMap struct {
	// Catalog navigation.
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Filter.
	FilterActivate key.Binding
	FilterClear    key.Binding

	// Row actions. The table shows these keys in its actions column.
	Book   key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Screen actions.
	AddEvent key.Binding
	Bookings key.Binding
	Refresh  key.Binding
	Logout   key.Binding

	// Forms and modals.
	Submit        key.Binding
	Cancel        key.Binding
	NextField     key.Binding
	PreviousField key.Binding
	Increment     key.Binding
	Decrement     key.Binding
	Register      key.Binding // Login screen: switch to registration.

	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	Book: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "book"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	AddEvent: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add event"),
	),
	Bookings: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "bookings"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Logout: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "log out"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("Tab", "next field"),
	),
	PreviousField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("S-Tab", "previous field"),
	),
	Increment: key.NewBinding(
		key.WithKeys("+", "=", "right", "up", "k"),
		key.WithHelp("+", "more seats"),
	),
	Decrement: key.NewBinding(
		key.WithKeys("-", "left", "down", "j"),
		key.WithHelp("-", "fewer seats"),
	),
	Register: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("C-n", "register"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}
