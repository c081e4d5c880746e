// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/bureau-foundation/eventdesk/lib/clock"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
	"github.com/bureau-foundation/eventdesk/lib/session"
)

// Remote is the subset of the booking service the Controller calls.
// *bookingclient.Client implements it.
type Remote interface {
	Events(ctx context.Context, token string) ([]booking.Event, error)
	Event(ctx context.Context, token, eventID string) (booking.Event, error)
	CreateEvent(ctx context.Context, token string, fields booking.EventFields) (booking.Event, error)
	UpdateEvent(ctx context.Context, token, eventID string, fields booking.EventFields) (booking.Event, error)
	DeleteEvent(ctx context.Context, token, eventID string) error
	Bookings(ctx context.Context, token string) ([]booking.Booking, error)
	CreateBooking(ctx context.Context, token string, request booking.BookingRequest) (booking.Booking, error)
}

// Snapshot is a point-in-time copy of the Controller's state for
// rendering. The slices are owned by the caller.
type Snapshot struct {
	Events   []booking.Event
	Bookings []booking.Booking

	// Scope is the bookings scope of the identity at the time of the
	// last bookings refresh.
	Scope booking.Scope

	// EventsErr and BookingsErr hold the most recent refresh failure
	// for each list, cleared by the next successful refresh. The
	// lists keep their last good contents while an error is set.
	EventsErr   error
	BookingsErr error

	// EventsRefreshed and BookingsRefreshed are the times of the last
	// successful refresh, zero before the first.
	EventsRefreshed   time.Time
	BookingsRefreshed time.Time
}

// Capabilities lists the actions available to the current identity.
type Capabilities struct {
	CreateEvent bool
	EditEvent   bool
	DeleteEvent bool
	BookSeats   bool
	AllBookings bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the clock used to stamp refreshes.
func WithClock(c clock.Clock) Option {
	return func(controller *Controller) {
		controller.clock = c
	}
}

// Controller owns the event and booking lists. Safe for concurrent use:
// bubbletea commands call it from their own goroutines.
type Controller struct {
	remote  Remote
	session *session.Store
	clock   clock.Clock
	logger  *slog.Logger

	mutex    sync.Mutex
	snapshot Snapshot

	// Each refresh takes a ticket when it starts. A completed fetch
	// is applied only if its ticket is newer than the last applied
	// one, so an overtaken response never replaces fresher data.
	// Reset advances the applied marks past every in-flight fetch.
	eventsTicket    uint64
	eventsApplied   uint64
	bookingsTicket  uint64
	bookingsApplied uint64
}

// New creates a Controller with empty lists.
func New(remote Remote, store *session.Store, logger *slog.Logger, options ...Option) *Controller {
	controller := &Controller{
		remote:  remote,
		session: store,
		clock:   clock.Real(),
		logger:  logger,
	}
	for _, option := range options {
		option(controller)
	}
	return controller
}

// Snapshot returns a copy of the current state.
func (controller *Controller) Snapshot() Snapshot {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()

	snapshot := controller.snapshot
	snapshot.Events = slices.Clone(snapshot.Events)
	snapshot.Bookings = slices.Clone(snapshot.Bookings)
	return snapshot
}

// FilteredEvents applies [Filter] to the current event list.
func (controller *Controller) FilteredEvents(query string) []booking.Event {
	return Filter(controller.Snapshot().Events, query)
}

// Capabilities derives the available actions from the session identity.
// An unauthenticated session has none.
func (controller *Controller) Capabilities() Capabilities {
	identity, ok := controller.session.Identity()
	if !ok {
		return Capabilities{}
	}
	admin := identity.Role.IsAdmin()
	return Capabilities{
		CreateEvent: admin,
		EditEvent:   admin,
		DeleteEvent: admin,
		BookSeats:   true,
		AllBookings: admin,
	}
}

// Refresh fetches events then bookings. Both are attempted; the first
// error is returned.
func (controller *Controller) Refresh(ctx context.Context) error {
	eventsErr := controller.RefreshEvents(ctx)
	bookingsErr := controller.RefreshBookings(ctx)
	if eventsErr != nil {
		return eventsErr
	}
	return bookingsErr
}

// RefreshEvents fetches the event list. On success the held list is
// replaced and the events error cleared. On failure the error is
// recorded and returned, and the stale list is kept.
func (controller *Controller) RefreshEvents(ctx context.Context) error {
	controller.mutex.Lock()
	controller.eventsTicket++
	ticket := controller.eventsTicket
	controller.mutex.Unlock()

	events, err := controller.remote.Events(ctx, controller.session.Token())

	controller.mutex.Lock()
	defer controller.mutex.Unlock()

	if ticket <= controller.eventsApplied {
		return err
	}
	controller.eventsApplied = ticket
	if err != nil {
		controller.snapshot.EventsErr = err
		controller.logger.Warn("refreshing events failed", "error", err)
		return err
	}
	controller.snapshot.Events = events
	controller.snapshot.EventsErr = nil
	controller.snapshot.EventsRefreshed = controller.clock.Now()
	controller.logger.Debug("events refreshed", "count", len(events))
	return nil
}

// RefreshBookings fetches the booking list. The scope follows the
// identity's role, and the service scopes the list by token. For a
// regular identity, a booking is dropped only when both it and the
// identity carry a user id and the two differ; bookings without a
// requester are kept.
func (controller *Controller) RefreshBookings(ctx context.Context) error {
	identity, ok := controller.session.Identity()
	if !ok {
		err := &PermissionDeniedError{Action: "list bookings", Message: MessageLoginRequired}
		controller.mutex.Lock()
		controller.snapshot.Bookings = nil
		controller.snapshot.BookingsErr = err
		controller.mutex.Unlock()
		return err
	}
	scope := booking.ScopeFor(identity.Role)

	controller.mutex.Lock()
	controller.bookingsTicket++
	ticket := controller.bookingsTicket
	controller.mutex.Unlock()

	bookings, err := controller.remote.Bookings(ctx, identity.Token)
	if err == nil && scope == booking.ScopeOwn {
		bookings = slices.DeleteFunc(bookings, func(entry booking.Booking) bool {
			return entry.User.ID != "" && identity.ID != "" && entry.User.ID != identity.ID
		})
	}

	controller.mutex.Lock()
	defer controller.mutex.Unlock()

	if ticket <= controller.bookingsApplied {
		return err
	}
	controller.bookingsApplied = ticket
	if err != nil {
		controller.snapshot.BookingsErr = err
		controller.logger.Warn("refreshing bookings failed", "scope", scope.String(), "error", err)
		return err
	}
	controller.snapshot.Bookings = bookings
	controller.snapshot.Scope = scope
	controller.snapshot.BookingsErr = nil
	controller.snapshot.BookingsRefreshed = controller.clock.Now()
	controller.logger.Debug("bookings refreshed", "scope", scope.String(), "count", len(bookings))
	return nil
}

// requireAdmin returns the admin identity or a PermissionDeniedError.
func (controller *Controller) requireAdmin(action string) (booking.Identity, error) {
	identity, ok := controller.session.Identity()
	if !ok {
		return booking.Identity{}, &PermissionDeniedError{Action: action, Message: MessageLoginRequired}
	}
	if !identity.Role.IsAdmin() {
		return booking.Identity{}, adminOnly(action)
	}
	return identity, nil
}

// LoadEventForEdit fetches the current detail of one event to seed the
// edit form. Administrators only.
func (controller *Controller) LoadEventForEdit(ctx context.Context, eventID string) (booking.Event, error) {
	identity, err := controller.requireAdmin("edit event")
	if err != nil {
		return booking.Event{}, err
	}
	return controller.remote.Event(ctx, identity.Token, eventID)
}

// RequestCreate creates an event and refreshes the event list.
func (controller *Controller) RequestCreate(ctx context.Context, fields booking.EventFields) (booking.Event, error) {
	identity, err := controller.requireAdmin("create event")
	if err != nil {
		return booking.Event{}, err
	}
	if err := fields.Validate(); err != nil {
		return booking.Event{}, err
	}

	created, err := controller.remote.CreateEvent(ctx, identity.Token, fields)
	if err != nil {
		return booking.Event{}, err
	}
	controller.logger.Info("event created", "event_id", created.ID, "title", created.Title)
	controller.RefreshEvents(ctx)
	return created, nil
}

// RequestEdit replaces an event's fields and refreshes the event list.
func (controller *Controller) RequestEdit(ctx context.Context, eventID string, fields booking.EventFields) (booking.Event, error) {
	identity, err := controller.requireAdmin("edit event")
	if err != nil {
		return booking.Event{}, err
	}
	if err := fields.Validate(); err != nil {
		return booking.Event{}, err
	}

	updated, err := controller.remote.UpdateEvent(ctx, identity.Token, eventID, fields)
	if err != nil {
		return booking.Event{}, err
	}
	controller.logger.Info("event updated", "event_id", eventID)
	controller.RefreshEvents(ctx)
	return updated, nil
}

// RequestDelete deletes an event and refreshes the event list. The
// service also drops the event's bookings, so the booking list is
// refreshed too.
func (controller *Controller) RequestDelete(ctx context.Context, eventID string) error {
	identity, err := controller.requireAdmin("delete event")
	if err != nil {
		return err
	}

	if err := controller.remote.DeleteEvent(ctx, identity.Token, eventID); err != nil {
		return err
	}
	controller.logger.Info("event deleted", "event_id", eventID)
	controller.RefreshEvents(ctx)
	controller.RefreshBookings(ctx)
	return nil
}

// RequestBooking reserves seats on an event, then refreshes both lists.
// An event the snapshot shows as sold out is refused locally. An event
// absent from the snapshot is forwarded and left to the service.
func (controller *Controller) RequestBooking(ctx context.Context, eventID string, seats int) (booking.Booking, error) {
	identity, ok := controller.session.Identity()
	if !ok {
		return booking.Booking{}, &PermissionDeniedError{Action: "book", Message: MessageLoginRequired}
	}
	if err := booking.ValidateSeats(seats); err != nil {
		return booking.Booking{}, err
	}
	if event, found := controller.CachedEvent(eventID); found && event.Availability() == booking.NotAvailable {
		return booking.Booking{}, &PermissionDeniedError{Action: "book", Message: MessageNoSeatsAvailable}
	}

	created, err := controller.remote.CreateBooking(ctx, identity.Token, booking.BookingRequest{
		EventID: eventID,
		Seats:   seats,
	})
	if err != nil {
		controller.logger.Debug("booking rejected", "event_id", eventID, "seats", seats, "error", err)
		return booking.Booking{}, err
	}
	controller.logger.Info("booking created", "event_id", eventID, "seats", seats, "booking_id", created.ID)
	controller.RefreshEvents(ctx)
	controller.RefreshBookings(ctx)
	return created, nil
}

// CachedEvent returns the event with the given ID from the last
// successful refresh.
func (controller *Controller) CachedEvent(eventID string) (booking.Event, bool) {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()

	for _, event := range controller.snapshot.Events {
		if event.ID == eventID {
			return event, true
		}
	}
	return booking.Event{}, false
}

// Reset discards both lists and their errors. Called at logout so the
// next identity never sees the previous identity's bookings.
func (controller *Controller) Reset() {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()

	controller.snapshot = Snapshot{}
	controller.eventsApplied = controller.eventsTicket
	controller.bookingsApplied = controller.bookingsTicket
}
