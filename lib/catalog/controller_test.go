// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bureau-foundation/eventdesk/lib/bookingclient"
	"github.com/bureau-foundation/eventdesk/lib/bookingmock"
	"github.com/bureau-foundation/eventdesk/lib/clock"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
	"github.com/bureau-foundation/eventdesk/lib/session"
	"github.com/bureau-foundation/eventdesk/lib/testutil"
)

// newController returns a Controller logged in as identity against the
// fixture's mock service.
func newController(t *testing.T, fixture *bookingmock.Fixture, identity booking.Identity) *Controller {
	t.Helper()
	client, err := bookingclient.New(fixture.URL)
	if err != nil {
		t.Fatal(err)
	}
	store := session.NewMemory()
	if err := store.Init(identity); err != nil {
		t.Fatal(err)
	}
	return New(client, store, testutil.Logger(t))
}

func findEvent(t *testing.T, events []booking.Event, eventID string) booking.Event {
	t.Helper()
	for _, event := range events {
		if event.ID == eventID {
			return event
		}
	}
	t.Fatalf("event %s not in list of %d", eventID, len(events))
	return booking.Event{}
}

func TestCapabilities(t *testing.T) {
	t.Parallel()
	fixture := bookingmock.NewFixture(t)

	admin := newController(t, fixture, fixture.Admin).Capabilities()
	if !admin.CreateEvent || !admin.EditEvent || !admin.DeleteEvent || !admin.BookSeats || !admin.AllBookings {
		t.Errorf("admin capabilities = %+v, want all", admin)
	}

	regular := newController(t, fixture, fixture.User).Capabilities()
	want := Capabilities{BookSeats: true}
	if regular != want {
		t.Errorf("regular capabilities = %+v, want %+v", regular, want)
	}

	anonymous := New(nil, session.NewMemory(), testutil.Logger(t)).Capabilities()
	if anonymous != (Capabilities{}) {
		t.Errorf("anonymous capabilities = %+v, want none", anonymous)
	}
}

func TestRefreshEventsAndBookings(t *testing.T) {
	t.Parallel()
	fixture := bookingmock.NewFixture(t)
	refreshed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	fake := clock.Fake(refreshed)

	event := fixture.AddEvent(t, booking.EventFields{Title: "Gig", Date: "2026-03-01", Location: "Club", Capacity: 10})
	fixture.BookAsAdmin(t, event.ID, 2)
	if _, err := fixture.Server.Book(fixture.User.ID, event.ID, 1); err != nil {
		t.Fatal(err)
	}

	client, _ := bookingclient.New(fixture.URL)
	store := session.NewMemory()
	store.Init(fixture.Admin)
	controller := New(client, store, testutil.Logger(t), WithClock(fake))

	if err := controller.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	snapshot := controller.Snapshot()
	if len(snapshot.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(snapshot.Events))
	}
	if snapshot.Scope != booking.ScopeAll {
		t.Errorf("admin scope = %v, want all", snapshot.Scope)
	}
	if len(snapshot.Bookings) != 2 {
		t.Errorf("admin sees %d bookings, want 2", len(snapshot.Bookings))
	}
	if !snapshot.EventsRefreshed.Equal(refreshed) || !snapshot.BookingsRefreshed.Equal(refreshed) {
		t.Errorf("refresh times = %v / %v, want %v", snapshot.EventsRefreshed, snapshot.BookingsRefreshed, refreshed)
	}

	regular := newController(t, fixture, fixture.User)
	if err := regular.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	snapshot = regular.Snapshot()
	if snapshot.Scope != booking.ScopeOwn {
		t.Errorf("regular scope = %v, want own", snapshot.Scope)
	}
	if len(snapshot.Bookings) != 1 || snapshot.Bookings[0].User.ID != fixture.User.ID {
		t.Errorf("regular bookings = %+v", snapshot.Bookings)
	}
}

func TestBookingUpdatesRemainingSeatsFromServer(t *testing.T) {
	t.Parallel()
	fixture := bookingmock.NewFixture(t)
	event := fixture.AddEvent(t, booking.EventFields{Title: "Gig", Date: "2026-03-01", Location: "Club", Capacity: 10})
	fixture.BookAsAdmin(t, event.ID, 7)

	controller := newController(t, fixture, fixture.User)
	ctx := context.Background()
	if err := controller.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if got := findEvent(t, controller.Snapshot().Events, event.ID).RemainingSeats; got != 3 {
		t.Fatalf("initial remaining = %d, want 3", got)
	}

	created, err := controller.RequestBooking(ctx, event.ID, 2)
	if err != nil {
		t.Fatalf("RequestBooking: %v", err)
	}
	if created.Seats != 2 {
		t.Errorf("booking seats = %d, want 2", created.Seats)
	}

	snapshot := controller.Snapshot()
	if got := findEvent(t, snapshot.Events, event.ID).RemainingSeats; got != 1 {
		t.Errorf("remaining after booking = %d, want 1", got)
	}
	if len(snapshot.Bookings) != 1 {
		t.Errorf("bookings after booking = %d, want 1", len(snapshot.Bookings))
	}
}

func TestBookingSoldOutBlockedLocally(t *testing.T) {
	t.Parallel()
	fixture := bookingmock.NewFixture(t)
	event := fixture.AddEvent(t, booking.EventFields{Title: "Tiny", Date: "2026-03-01", Location: "Room", Capacity: 2})
	fixture.BookAsAdmin(t, event.ID, 2)

	controller := newController(t, fixture, fixture.User)
	if err := controller.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	fixture.Server.ResetRequests()

	_, err := controller.RequestBooking(context.Background(), event.ID, 1)
	var denied *PermissionDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("error = %v, want PermissionDeniedError", err)
	}
	if denied.Message != MessageNoSeatsAvailable {
		t.Errorf("message = %q, want %q", denied.Message, MessageNoSeatsAvailable)
	}
	if got := fixture.Server.CountRequests("", "/"); got != 0 {
		t.Errorf("%d requests sent for a sold-out booking, want 0", got)
	}
}

func TestBookingInvalidSeatsBlockedLocally(t *testing.T) {
	t.Parallel()
	fixture := bookingmock.NewFixture(t)
	event := fixture.AddEvent(t, booking.EventFields{Title: "Gig", Date: "2026-03-01", Location: "Club", Capacity: 10})
	controller := newController(t, fixture, fixture.User)

	for _, seats := range []int{0, -1} {
		_, err := controller.RequestBooking(context.Background(), event.ID, seats)
		var validation *booking.ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("RequestBooking(%d) error = %v, want ValidationError", seats, err)
		}
	}
	if got := fixture.Server.CountRequests("", "/"); got != 0 {
		t.Errorf("%d requests sent for invalid seat counts, want 0", got)
	}
}

func TestBookingWithoutSessionDenied(t *testing.T) {
	t.Parallel()
	fixture := bookingmock.NewFixture(t)
	client, _ := bookingclient.New(fixture.URL)
	controller := New(client, session.NewMemory(), testutil.Logger(t))

	_, err := controller.RequestBooking(context.Background(), "any", 1)
	if !IsPermissionDenied(err) {
		t.Errorf("error = %v, want PermissionDeniedError", err)
	}
	if got := fixture.Server.CountRequests("", "/"); got != 0 {
		t.Errorf("%d requests sent without a session, want 0", got)
	}
}

func TestBookingUnknownEventForwarded(t *testing.T) {
	t.Parallel()
	fixture := bookingmock.NewFixture(t)
	event := fixture.AddEvent(t, booking.EventFields{Title: "Gig", Date: "2026-03-01", Location: "Club", Capacity: 10})
	controller := newController(t, fixture, fixture.User)
	if err := controller.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Deleted behind the controller's back: the snapshot still shows
	// seats, so the request goes out and the service rejects it.
	if err := fixture.Server.DeleteEvent(event.ID); err != nil {
		t.Fatal(err)
	}
	_, err := controller.RequestBooking(context.Background(), event.ID, 1)
	if !bookingclient.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("error = %v, want 404 APIError", err)
	}
	if err.Error() != "Event not found" {
		t.Errorf("message = %q", err.Error())
	}
	if got := findEvent(t, controller.Snapshot().Events, event.ID); got.ID != event.ID {
		t.Errorf("failed booking changed the held list")
	}
}

func TestRegularUserCannotMutateEvents(t *testing.T) {
	t.Parallel()
	fixture := bookingmock.NewFixture(t)
	event := fixture.AddEvent(t, booking.EventFields{Title: "Gig", Date: "2026-03-01", Location: "Club", Capacity: 10})
	controller := newController(t, fixture, fixture.User)
	ctx := context.Background()
	fields := event.Fields()

	checks := map[string]error{}
	_, checks["create"] = controller.RequestCreate(ctx, fields)
	_, checks["edit"] = controller.RequestEdit(ctx, event.ID, fields)
	checks["delete"] = controller.RequestDelete(ctx, event.ID)
	_, checks["load"] = controller.LoadEventForEdit(ctx, event.ID)

	for action, err := range checks {
		var denied *PermissionDeniedError
		if !errors.As(err, &denied) {
			t.Errorf("%s error = %v, want PermissionDeniedError", action, err)
			continue
		}
		if denied.Message != MessageAdminOnly {
			t.Errorf("%s message = %q", action, denied.Message)
		}
	}
	if got := fixture.Server.CountRequests("", "/"); got != 0 {
		t.Errorf("%d requests sent by a regular user's event mutations, want 0", got)
	}
}

func TestAdminCreatesEvent(t *testing.T) {
	t.Parallel()
	fixture := bookingmock.NewFixture(t)
	controller := newController(t, fixture, fixture.Admin)

	created, err := controller.RequestCreate(context.Background(), booking.EventFields{
		Title: "Launch", Date: "2025-01-01", Location: "HQ", Capacity: 50,
	})
	if err != nil {
		t.Fatalf("RequestCreate: %v", err)
	}
	listed := findEvent(t, controller.Snapshot().Events, created.ID)
	if listed.Title != "Launch" || listed.RemainingSeats != 50 {
		t.Errorf("listed = %+v", listed)
	}
	if got := fixture.Server.CountRequests(http.MethodGet, "/events"); got != 1 {
		t.Errorf("GET /events after create = %d, want 1", got)
	}
}

func TestCreateValidatedLocally(t *testing.T) {
	t.Parallel()
	fixture := bookingmock.NewFixture(t)
	controller := newController(t, fixture, fixture.Admin)

	_, err := controller.RequestCreate(context.Background(), booking.EventFields{Title: "Launch", Date: "soon", Capacity: 0})
	var validation *booking.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	for _, field := range []string{"date", "location", "capacity"} {
		if validation.Problem(field) == "" {
			t.Errorf("no problem recorded for %s", field)
		}
	}
	if got := fixture.Server.CountRequests("", "/"); got != 0 {
		t.Errorf("%d requests sent for invalid fields, want 0", got)
	}
}

func TestAdminEditsAndDeletesEvent(t *testing.T) {
	t.Parallel()
	fixture := bookingmock.NewFixture(t)
	event := fixture.AddEvent(t, booking.EventFields{Title: "Gig", Date: "2026-03-01", Location: "Club", Capacity: 10})
	controller := newController(t, fixture, fixture.Admin)
	ctx := context.Background()

	loaded, err := controller.LoadEventForEdit(ctx, event.ID)
	if err != nil {
		t.Fatalf("LoadEventForEdit: %v", err)
	}
	fields := loaded.Fields()
	fields.Title = "Gig (moved)"
	if _, err := controller.RequestEdit(ctx, event.ID, fields); err != nil {
		t.Fatalf("RequestEdit: %v", err)
	}
	if got := findEvent(t, controller.Snapshot().Events, event.ID).Title; got != "Gig (moved)" {
		t.Errorf("title after edit = %q", got)
	}

	if err := controller.RequestDelete(ctx, event.ID); err != nil {
		t.Fatalf("RequestDelete: %v", err)
	}
	if got := len(controller.Snapshot().Events); got != 0 {
		t.Errorf("events after delete = %d, want 0", got)
	}
}

func TestRemoteRejectionLeavesListsUntouched(t *testing.T) {
	t.Parallel()
	fixture := bookingmock.NewFixture(t)
	event := fixture.AddEvent(t, booking.EventFields{Title: "Gig", Date: "2026-03-01", Location: "Club", Capacity: 10})
	fixture.BookAsAdmin(t, event.ID, 4)
	controller := newController(t, fixture, fixture.Admin)
	ctx := context.Background()
	if err := controller.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	before := controller.Snapshot()

	fields := event.Fields()
	fields.Capacity = 2
	_, err := controller.RequestEdit(ctx, event.ID, fields)
	if !bookingclient.IsStatus(err, http.StatusConflict) {
		t.Fatalf("error = %v, want 409", err)
	}
	after := controller.Snapshot()
	if !after.EventsRefreshed.Equal(before.EventsRefreshed) {
		t.Error("failed edit triggered a refresh")
	}
	if findEvent(t, after.Events, event.ID).Capacity != 10 {
		t.Error("failed edit changed the held list")
	}
}

// stubRemote is a Remote whose responses are set per test.
type stubRemote struct {
	events      []booking.Event
	eventsErr   error
	bookings    []booking.Booking
	bookingsErr error

	// When non-nil, each Events call sends a reply channel on calls
	// and blocks until the test answers on it.
	calls chan chan []booking.Event
}

func (remote *stubRemote) Events(ctx context.Context, token string) ([]booking.Event, error) {
	if remote.calls != nil {
		reply := make(chan []booking.Event)
		remote.calls <- reply
		return <-reply, nil
	}
	return remote.events, remote.eventsErr
}

func (remote *stubRemote) Event(ctx context.Context, token, eventID string) (booking.Event, error) {
	return booking.Event{}, errors.New("not implemented")
}

func (remote *stubRemote) CreateEvent(ctx context.Context, token string, fields booking.EventFields) (booking.Event, error) {
	return booking.Event{ID: "new", Title: fields.Title, Capacity: fields.Capacity, RemainingSeats: fields.Capacity}, nil
}

func (remote *stubRemote) UpdateEvent(ctx context.Context, token, eventID string, fields booking.EventFields) (booking.Event, error) {
	return booking.Event{}, errors.New("not implemented")
}

func (remote *stubRemote) DeleteEvent(ctx context.Context, token, eventID string) error {
	return errors.New("not implemented")
}

func (remote *stubRemote) Bookings(ctx context.Context, token string) ([]booking.Booking, error) {
	return remote.bookings, remote.bookingsErr
}

func (remote *stubRemote) CreateBooking(ctx context.Context, token string, request booking.BookingRequest) (booking.Booking, error) {
	return booking.Booking{}, errors.New("not implemented")
}

func stubController(t *testing.T, remote Remote, role booking.Role) *Controller {
	t.Helper()
	store := session.NewMemory()
	if err := store.Init(booking.Identity{ID: "me", Email: "me@example.com", Role: role, Token: "token"}); err != nil {
		t.Fatal(err)
	}
	return New(remote, store, testutil.Logger(t))
}

func TestRefreshFailureKeepsStaleList(t *testing.T) {
	t.Parallel()
	remote := &stubRemote{events: []booking.Event{{ID: "a", Title: "Alpha", Capacity: 1, RemainingSeats: 1}}}
	controller := stubController(t, remote, booking.RoleRegular)
	ctx := context.Background()

	if err := controller.RefreshEvents(ctx); err != nil {
		t.Fatal(err)
	}
	remote.eventsErr = &bookingclient.TransportError{Method: "GET", Path: "/events", Err: errors.New("connection refused")}
	if err := controller.RefreshEvents(ctx); err == nil {
		t.Fatal("RefreshEvents succeeded, want error")
	}

	snapshot := controller.Snapshot()
	if len(snapshot.Events) != 1 || snapshot.Events[0].ID != "a" {
		t.Errorf("stale list not kept: %+v", snapshot.Events)
	}
	if snapshot.EventsErr == nil {
		t.Error("EventsErr not recorded")
	}

	remote.eventsErr = nil
	if err := controller.RefreshEvents(ctx); err != nil {
		t.Fatal(err)
	}
	if controller.Snapshot().EventsErr != nil {
		t.Error("EventsErr not cleared by a successful refresh")
	}
}

func TestMutationSucceedsWhenRefreshFails(t *testing.T) {
	t.Parallel()
	remote := &stubRemote{eventsErr: errors.New("list unavailable")}
	controller := stubController(t, remote, booking.RoleAdmin)

	created, err := controller.RequestCreate(context.Background(), booking.EventFields{
		Title: "Launch", Date: "2025-01-01", Location: "HQ", Capacity: 50,
	})
	if err != nil {
		t.Fatalf("RequestCreate = %v, want success despite refresh failure", err)
	}
	if created.ID != "new" {
		t.Errorf("created = %+v", created)
	}
	if controller.Snapshot().EventsErr == nil {
		t.Error("refresh failure not recorded")
	}
}

func TestRegularBookingsDropOtherRequesters(t *testing.T) {
	t.Parallel()
	remote := &stubRemote{bookings: []booking.Booking{
		{ID: "1", User: booking.Requester{ID: "me"}, Seats: 1},
		{ID: "2", User: booking.Requester{ID: "someone-else"}, Seats: 1},
	}}
	controller := stubController(t, remote, booking.RoleRegular)

	if err := controller.RefreshBookings(context.Background()); err != nil {
		t.Fatal(err)
	}
	bookings := controller.Snapshot().Bookings
	if len(bookings) != 1 || bookings[0].ID != "1" {
		t.Errorf("bookings = %+v, want only the identity's own", bookings)
	}
}

func TestRegularBookingsWithoutRequesterKept(t *testing.T) {
	t.Parallel()
	remote := &stubRemote{bookings: []booking.Booking{
		{ID: "b1", Event: booking.EventSummary{ID: "e1", Title: "Gig"}, Seats: 2},
	}}
	controller := stubController(t, remote, booking.RoleRegular)

	if err := controller.RefreshBookings(context.Background()); err != nil {
		t.Fatal(err)
	}
	bookings := controller.Snapshot().Bookings
	if len(bookings) != 1 || bookings[0].ID != "b1" {
		t.Errorf("bookings = %+v, want the service's own booking kept", bookings)
	}
}

func TestRegularBookingsKeptForIdentityWithoutID(t *testing.T) {
	t.Parallel()
	remote := &stubRemote{bookings: []booking.Booking{
		{ID: "b1", User: booking.Requester{ID: "u1"}, Seats: 1},
	}}
	store := session.NewMemory()
	if err := store.Init(booking.Identity{Email: "me@example.com", Role: booking.RoleRegular, Token: "token"}); err != nil {
		t.Fatal(err)
	}
	controller := New(remote, store, testutil.Logger(t))

	if err := controller.RefreshBookings(context.Background()); err != nil {
		t.Fatal(err)
	}
	if bookings := controller.Snapshot().Bookings; len(bookings) != 1 {
		t.Errorf("bookings = %+v, want 1", bookings)
	}
}

func TestOvertakenRefreshDiscarded(t *testing.T) {
	t.Parallel()
	remote := &stubRemote{calls: make(chan chan []booking.Event)}
	controller := stubController(t, remote, booking.RoleRegular)
	ctx := context.Background()

	slowDone := make(chan struct{})
	go func() {
		defer close(slowDone)
		controller.RefreshEvents(ctx)
	}()
	slow := testutil.RequireReceive(t, remote.calls, 5*time.Second, "slow fetch started")

	fastDone := make(chan struct{})
	go func() {
		defer close(fastDone)
		controller.RefreshEvents(ctx)
	}()
	fast := testutil.RequireReceive(t, remote.calls, 5*time.Second, "fast fetch started")

	// The later fetch completes first. The earlier one then completes
	// with older data, which must not replace it.
	testutil.RequireSend(t, fast, []booking.Event{{ID: "fresh"}}, 5*time.Second, "answering fast fetch")
	testutil.RequireClosed(t, fastDone, 5*time.Second, "fast refresh finished")
	testutil.RequireSend(t, slow, []booking.Event{{ID: "stale"}}, 5*time.Second, "answering slow fetch")
	testutil.RequireClosed(t, slowDone, 5*time.Second, "slow refresh finished")

	events := controller.Snapshot().Events
	if len(events) != 1 || events[0].ID != "fresh" {
		t.Errorf("events = %+v, want the fresher response kept", events)
	}
}

func TestResetClearsState(t *testing.T) {
	t.Parallel()
	remote := &stubRemote{
		events:   []booking.Event{{ID: "a"}},
		bookings: []booking.Booking{{ID: "1", User: booking.Requester{ID: "me"}}},
	}
	controller := stubController(t, remote, booking.RoleRegular)
	if err := controller.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	controller.Reset()
	snapshot := controller.Snapshot()
	if len(snapshot.Events) != 0 || len(snapshot.Bookings) != 0 {
		t.Errorf("snapshot after Reset = %+v", snapshot)
	}
}
