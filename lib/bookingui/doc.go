// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bookingui is the interactive eventdesk client: a bubbletea
// model with login, registration, and catalog screens.
//
// The catalog screen renders the [catalog.Controller]'s event list
// through a [tui.Table] with per-row Book, Edit, and Delete actions,
// a filter bar, a bookings badge, and a detail strip showing the
// selected event's markdown description. Booking seats, creating or
// editing an event, viewing bookings, and confirming a delete run as
// modal overlays spliced onto the catalog view. While a modal is
// visible it receives every key press.
//
// Remote calls run as tea.Cmd functions and report back with a
// completion message, so the transition that starts a request happens
// synchronously with the key press and the transition that settles it
// happens when the message arrives. The sub-flow state machines in
// [bookingflow] refuse a second submission while the first is in
// flight.
//
// Any remote rejection with HTTP 401 tears down the session and
// returns to the login screen.
package bookingui
