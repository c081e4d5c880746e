// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingflow

import (
	"slices"

	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// BookingsView shows a previously fetched booking list. Opening it
// does not fetch; it captures whatever the controller last held. It has
// no way to change a booking.
type BookingsView struct {
	open     bool
	bookings []booking.Booking
	scope    booking.Scope
}

// Open captures bookings for display.
func (view *BookingsView) Open(bookings []booking.Booking, scope booking.Scope) {
	view.open = true
	view.bookings = slices.Clone(bookings)
	view.scope = scope
}

// Active reports whether the view is showing.
func (view *BookingsView) Active() bool {
	return view.open
}

// Bookings returns the captured list.
func (view *BookingsView) Bookings() []booking.Booking {
	return view.bookings
}

// Title returns the heading for the captured scope.
func (view *BookingsView) Title() string {
	return view.scope.Label()
}

// ShowRequester reports whether each booking's requester is shown,
// which is the case for the all-bookings scope.
func (view *BookingsView) ShowRequester() bool {
	return view.scope == booking.ScopeAll
}

// Dismiss closes the view and releases the captured list.
func (view *BookingsView) Dismiss() {
	view.open = false
	view.bookings = nil
}
