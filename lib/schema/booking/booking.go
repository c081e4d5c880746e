// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package booking

import (
	"bytes"
	"encoding/json"
	"time"
)

// Role is the authorization level of an authenticated identity. The
// wire value travels in the "user_type" field of the login response.
type Role string

const (
	// RoleRegular may browse events, book seats, and view their own
	// bookings.
	RoleRegular Role = "user"

	// RoleAdmin may additionally create, edit, and delete events and
	// view every booking.
	RoleAdmin Role = "admin"
)

// IsAdmin reports whether the role grants administrative actions. Any
// value other than "admin" is treated as a regular user.
func (role Role) IsAdmin() bool {
	return role == RoleAdmin
}

// Identity is the authenticated principal held for the lifetime of a
// session. It is created by a successful login and destroyed at logout.
type Identity struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"user_type"`

	// Token is the bearer credential presented on every authenticated
	// request.
	Token string `json:"token"`
}

// DisplayName returns the name if set, falling back to the email.
func (identity Identity) DisplayName() string {
	if identity.Name != "" {
		return identity.Name
	}
	return identity.Email
}

// Event is a bookable event as reported by the remote service. The
// client treats Capacity and RemainingSeats as read-only: changes only
// arrive by re-fetching after a mutation.
type Event struct {
	ID             string `json:"_id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Date           string `json:"date"`
	Location       string `json:"location"`
	Capacity       int    `json:"capacity"`
	RemainingSeats int    `json:"remainingSeats"`
}

// Availability is derived from RemainingSeats. It is never stored.
type Availability int

const (
	Available Availability = iota
	NotAvailable
)

// String returns the label shown in the availability column.
func (availability Availability) String() string {
	if availability == Available {
		return "Available"
	}
	return "Not Available"
}

// Availability returns Available when at least one seat remains.
func (event Event) Availability() Availability {
	if event.RemainingSeats > 0 {
		return Available
	}
	return NotAvailable
}

// DateOnly returns the calendar-date portion of Date ("2006-01-02").
// Timestamps from the service carry a time component that forms and
// tables do not show.
func (event Event) DateOnly() string {
	return DateOnly(event.Date)
}

// Fields returns the editable subset of the event, used to seed the
// edit form.
func (event Event) Fields() EventFields {
	return EventFields{
		Title:       event.Title,
		Description: event.Description,
		Date:        event.DateOnly(),
		Location:    event.Location,
		Capacity:    event.Capacity,
	}
}

// EventSummary is the event projection embedded in a Booking.
type EventSummary struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Location    string `json:"location"`
}

// Requester is the user projection embedded in a Booking. Only shown
// in the administrator's all-bookings view. Services may omit it, send
// null, or send the bare user id as a string.
type Requester struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UnmarshalJSON accepts an object, a bare id string, or null.
func (requester *Requester) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		*requester = Requester{}
		return json.Unmarshal(trimmed, &requester.ID)
	}
	type plain Requester
	return json.Unmarshal(trimmed, (*plain)(requester))
}

// Booking is an immutable seat reservation.
type Booking struct {
	ID       string       `json:"_id"`
	Event    EventSummary `json:"event"`
	User     Requester    `json:"user"`
	Seats    int          `json:"seats"`
	BookedAt time.Time    `json:"bookedAt"`
}

// Scope selects which bookings a listing covers.
type Scope int

const (
	// ScopeOwn lists the requesting identity's bookings only.
	ScopeOwn Scope = iota
	// ScopeAll lists every booking in the system.
	ScopeAll
)

// ScopeFor derives the booking scope from a role. Administrators see
// all bookings; everyone else sees their own.
func ScopeFor(role Role) Scope {
	if role.IsAdmin() {
		return ScopeAll
	}
	return ScopeOwn
}

// Label returns the heading used for the bookings view and badge.
func (scope Scope) Label() string {
	if scope == ScopeAll {
		return "All Bookings"
	}
	return "My Bookings"
}

func (scope Scope) String() string {
	if scope == ScopeAll {
		return "all"
	}
	return "own"
}

// EventFields is the payload for creating or replacing an event.
type EventFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
}

// BookingRequest is the body of POST /bookings.
type BookingRequest struct {
	EventID string `json:"eventId"`
	Seats   int    `json:"seats"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by a successful login. The
// identity, including its token, is nested under "data".
type LoginResponse struct {
	Message string   `json:"message,omitempty"`
	Data    Identity `json:"data"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

// MessageResponse is the generic acknowledgement body returned by
// registration, deletion, and error responses.
type MessageResponse struct {
	Message string `json:"message"`
}
