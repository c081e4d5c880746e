// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingflow

import (
	"github.com/bureau-foundation/eventdesk/lib/catalog"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// BookState is the state of a [BookFlow]: one of [BookClosed],
// [BookOpen], or [BookSubmitting].
type BookState interface {
	bookState()
}

// BookClosed is the idle state.
type BookClosed struct{}

// BookOpen shows the seat picker for Event. Err is the failure of the
// previous attempt or local check, nil when there is none.
type BookOpen struct {
	Event booking.Event
	Seats int
	Err   error
}

// BookSubmitting has a booking request in flight.
type BookSubmitting struct {
	Event booking.Event
	Seats int
}

func (BookClosed) bookState()     {}
func (BookOpen) bookState()       {}
func (BookSubmitting) bookState() {}

// BookSubmission is the request a confirmed BookFlow asks the caller
// to send.
type BookSubmission struct {
	EventID string
	Seats   int
}

// BookFlow reserves seats on one event. The zero value is closed.
type BookFlow struct {
	state BookState
}

// State returns the current state.
func (flow *BookFlow) State() BookState {
	if flow.state == nil {
		return BookClosed{}
	}
	return flow.state
}

// Active reports whether the flow is anywhere but closed.
func (flow *BookFlow) Active() bool {
	_, closed := flow.State().(BookClosed)
	return !closed
}

// Open starts the flow for event with one seat selected. An event the
// cached data shows as sold out is refused with a
// *catalog.PermissionDeniedError and the flow stays closed. Returns
// false without error when the flow is already active.
func (flow *BookFlow) Open(event booking.Event) (bool, error) {
	if flow.Active() {
		return false, nil
	}
	if event.Availability() == booking.NotAvailable {
		return false, &catalog.PermissionDeniedError{Action: "book", Message: catalog.MessageNoSeatsAvailable}
	}
	flow.state = BookOpen{Event: event, Seats: 1}
	return true, nil
}

// SetSeats changes the selected seat count and clears any displayed
// error. Only valid while open.
func (flow *BookFlow) SetSeats(seats int) bool {
	open, ok := flow.State().(BookOpen)
	if !ok {
		return false
	}
	open.Seats = seats
	open.Err = nil
	flow.state = open
	return true
}

// Confirm begins the submission. A seat count below one records a
// *booking.ValidationError and stays open. Otherwise the flow moves to
// submitting and returns the one request to send. Confirm while
// submitting returns false: the request already in flight is the only
// one.
func (flow *BookFlow) Confirm() (BookSubmission, bool) {
	open, ok := flow.State().(BookOpen)
	if !ok {
		return BookSubmission{}, false
	}
	if err := booking.ValidateSeats(open.Seats); err != nil {
		open.Err = err
		flow.state = open
		return BookSubmission{}, false
	}
	flow.state = BookSubmitting{Event: open.Event, Seats: open.Seats}
	return BookSubmission{EventID: open.Event.ID, Seats: open.Seats}, true
}

// Settle reports the outcome of the submission. Success closes the
// flow; failure reopens it with the error and the same seat count.
func (flow *BookFlow) Settle(err error) bool {
	submitting, ok := flow.State().(BookSubmitting)
	if !ok {
		return false
	}
	if err == nil {
		flow.state = BookClosed{}
		return true
	}
	flow.state = BookOpen{Event: submitting.Event, Seats: submitting.Seats, Err: err}
	return true
}

// Cancel closes an open flow. A submission in flight cannot be
// cancelled.
func (flow *BookFlow) Cancel() bool {
	if _, ok := flow.State().(BookOpen); !ok {
		return false
	}
	flow.state = BookClosed{}
	return true
}
