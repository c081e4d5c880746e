// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingmock

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bureau-foundation/eventdesk/lib/clock"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// call performs one JSON request against the fixture and returns the
// status and decoded message field.
func call(t *testing.T, fixture *Fixture, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	request, err := http.NewRequest(method, fixture.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer response.Body.Close()

	var buffer bytes.Buffer
	buffer.ReadFrom(response.Body)
	return response.StatusCode, buffer.Bytes()
}

func message(t *testing.T, body []byte) string {
	t.Helper()
	var decoded booking.MessageResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decoding message from %q: %v", body, err)
	}
	return decoded.Message
}

func launchFields() booking.EventFields {
	return booking.EventFields{Title: "Launch", Date: "2025-01-01", Location: "HQ", Capacity: 50}
}

func TestLoginIssuesUsableToken(t *testing.T) {
	t.Parallel()
	fixture := NewFixture(t)

	status, body := call(t, fixture, http.MethodPost, "/auth/login", "", booking.LoginRequest{
		Email:    "USER@example.com",
		Password: FixtureUserPassword,
	})
	if status != http.StatusOK {
		t.Fatalf("login status = %d, body %s", status, body)
	}
	var response booking.LoginResponse
	if err := json.Unmarshal(body, &response); err != nil {
		t.Fatal(err)
	}
	if response.Data.Token == "" || response.Data.Role != booking.RoleRegular {
		t.Fatalf("unexpected login data: %+v", response.Data)
	}

	status, _ = call(t, fixture, http.MethodGet, "/events", response.Data.Token, nil)
	if status != http.StatusOK {
		t.Errorf("GET /events with issued token: status %d", status)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	t.Parallel()
	fixture := NewFixture(t)

	status, body := call(t, fixture, http.MethodPost, "/auth/login", "", booking.LoginRequest{
		Email:    "user@example.com",
		Password: "wrong",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
	if got := message(t, body); got != "Invalid email or password" {
		t.Errorf("message = %q", got)
	}
}

func TestRegisterThenDuplicate(t *testing.T) {
	t.Parallel()
	fixture := NewFixture(t)

	request := booking.RegisterRequest{Name: "New", Email: "new@example.com", Mobile: "0123456789", Password: "secret1"}
	if status, body := call(t, fixture, http.MethodPost, "/auth/register", "", request); status != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", status, body)
	}
	status, body := call(t, fixture, http.MethodPost, "/auth/register", "", request)
	if status != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", status)
	}
	if got := message(t, body); got != "User already exists" {
		t.Errorf("message = %q", got)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()
	fixture := NewFixture(t)

	for _, path := range []string{"/events", "/bookings"} {
		status, body := call(t, fixture, http.MethodGet, path, "", nil)
		if status != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status %d", path, status)
		}
		if got := message(t, body); got != "No token provided" {
			t.Errorf("GET %s message = %q", path, got)
		}
	}
	if status, _ := call(t, fixture, http.MethodGet, "/events", "garbage", nil); status != http.StatusUnauthorized {
		t.Errorf("garbage token: status %d, want 401", status)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	server := New(Config{BcryptCost: bcrypt.MinCost, Clock: fake, TokenLifetime: time.Hour})
	userID, err := server.AddUser("U", "u@example.com", "5550000000", "password", booking.RoleRegular)
	if err != nil {
		t.Fatal(err)
	}
	token, err := server.IssueToken(userID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := server.parseToken(token); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}
	fake.Advance(2 * time.Hour)
	if _, err := server.parseToken(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestEventMutationsAdminOnly(t *testing.T) {
	t.Parallel()
	fixture := NewFixture(t)
	event := fixture.AddEvent(t, launchFields())

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/events", launchFields()},
		{http.MethodPut, "/events/" + event.ID, launchFields()},
		{http.MethodDelete, "/events/" + event.ID, nil},
	}
	for _, test := range tests {
		status, body := call(t, fixture, test.method, test.path, fixture.User.Token, test.body)
		if status != http.StatusForbidden {
			t.Errorf("%s %s as user: status %d, want 403", test.method, test.path, status)
			continue
		}
		if got := message(t, body); got != "Access denied. Admins only." {
			t.Errorf("%s %s message = %q", test.method, test.path, got)
		}
	}
	if len(fixture.Server.Events()) != 1 {
		t.Errorf("events changed by forbidden requests: %v", fixture.Server.Events())
	}
}

func TestCreateEventStartsFullyAvailable(t *testing.T) {
	t.Parallel()
	fixture := NewFixture(t)

	status, body := call(t, fixture, http.MethodPost, "/events", fixture.Admin.Token, launchFields())
	if status != http.StatusCreated {
		t.Fatalf("status = %d, body %s", status, body)
	}
	var event booking.Event
	if err := json.Unmarshal(body, &event); err != nil {
		t.Fatal(err)
	}
	if event.ID == "" {
		t.Error("created event has no ID")
	}
	if event.RemainingSeats != 50 {
		t.Errorf("RemainingSeats = %d, want 50", event.RemainingSeats)
	}
	if event.Date != "2025-01-01T00:00:00Z" {
		t.Errorf("Date = %q, want normalized timestamp", event.Date)
	}
}

func TestCreateEventValidation(t *testing.T) {
	t.Parallel()
	fixture := NewFixture(t)

	fields := launchFields()
	fields.Capacity = 0
	status, body := call(t, fixture, http.MethodPost, "/events", fixture.Admin.Token, fields)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if got := message(t, body); got != "capacity must be at least 1" {
		t.Errorf("message = %q", got)
	}
}

func TestBookingDecrementsRemainingSeats(t *testing.T) {
	t.Parallel()
	fixture := NewFixture(t)
	event := fixture.AddEvent(t, booking.EventFields{Title: "Gig", Date: "2026-03-01", Location: "Club", Capacity: 10})
	fixture.BookAsAdmin(t, event.ID, 7)

	status, body := call(t, fixture, http.MethodPost, "/bookings", fixture.User.Token, booking.BookingRequest{EventID: event.ID, Seats: 2})
	if status != http.StatusCreated {
		t.Fatalf("status = %d, body %s", status, body)
	}
	var created booking.Booking
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	if created.Seats != 2 || created.Event.ID != event.ID || created.User.ID != fixture.User.ID {
		t.Errorf("unexpected booking: %+v", created)
	}

	updated, _ := fixture.Server.Event(event.ID)
	if updated.RemainingSeats != 1 {
		t.Errorf("RemainingSeats = %d, want 1", updated.RemainingSeats)
	}

	status, body = call(t, fixture, http.MethodPost, "/bookings", fixture.User.Token, booking.BookingRequest{EventID: event.ID, Seats: 2})
	if status != http.StatusBadRequest {
		t.Fatalf("overbooking status = %d, want 400", status)
	}
	if got := message(t, body); got != "Not enough seats available" {
		t.Errorf("message = %q", got)
	}
}

func TestBookingDeletedEventIsNotFound(t *testing.T) {
	t.Parallel()
	fixture := NewFixture(t)
	event := fixture.AddEvent(t, launchFields())
	if err := fixture.Server.DeleteEvent(event.ID); err != nil {
		t.Fatal(err)
	}

	status, body := call(t, fixture, http.MethodPost, "/bookings", fixture.User.Token, booking.BookingRequest{EventID: event.ID, Seats: 1})
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if got := message(t, body); got != "Event not found" {
		t.Errorf("message = %q", got)
	}
}

func TestBookingsScopedByRole(t *testing.T) {
	t.Parallel()
	fixture := NewFixture(t)
	event := fixture.AddEvent(t, launchFields())
	fixture.BookAsAdmin(t, event.ID, 3)
	if _, err := fixture.Server.Book(fixture.User.ID, event.ID, 1); err != nil {
		t.Fatal(err)
	}

	var own []booking.Booking
	_, body := call(t, fixture, http.MethodGet, "/bookings", fixture.User.Token, nil)
	if err := json.Unmarshal(body, &own); err != nil {
		t.Fatal(err)
	}
	if len(own) != 1 || own[0].User.ID != fixture.User.ID {
		t.Errorf("user sees %d bookings: %+v", len(own), own)
	}

	var all []booking.Booking
	_, body = call(t, fixture, http.MethodGet, "/bookings", fixture.Admin.Token, nil)
	if err := json.Unmarshal(body, &all); err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("admin sees %d bookings, want 2", len(all))
	}
}

func TestUpdateEventKeepsBookedSeats(t *testing.T) {
	t.Parallel()
	fixture := NewFixture(t)
	event := fixture.AddEvent(t, booking.EventFields{Title: "Gig", Date: "2026-03-01", Location: "Club", Capacity: 10})
	fixture.BookAsAdmin(t, event.ID, 4)

	fields := event.Fields()
	fields.Capacity = 3
	if _, err := fixture.Server.UpdateEvent(event.ID, fields); !errors.Is(err, ErrCapacityBelowBooked) {
		t.Fatalf("UpdateEvent below booked = %v, want ErrCapacityBelowBooked", err)
	}

	fields.Capacity = 20
	updated, err := fixture.Server.UpdateEvent(event.ID, fields)
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if updated.RemainingSeats != 16 {
		t.Errorf("RemainingSeats = %d, want 16", updated.RemainingSeats)
	}
}

func TestDeleteEventRemovesBookings(t *testing.T) {
	t.Parallel()
	fixture := NewFixture(t)
	event := fixture.AddEvent(t, launchFields())
	fixture.BookAsAdmin(t, event.ID, 2)

	status, _ := call(t, fixture, http.MethodDelete, "/events/"+event.ID, fixture.Admin.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("delete status = %d", status)
	}
	if got := fixture.Server.Bookings(""); len(got) != 0 {
		t.Errorf("bookings survived event deletion: %+v", got)
	}
	if status, _ := call(t, fixture, http.MethodGet, "/events/"+event.ID, fixture.Admin.Token, nil); status != http.StatusNotFound {
		t.Errorf("GET deleted event: status %d, want 404", status)
	}
}

func TestConcurrentBookingsNeverOversell(t *testing.T) {
	t.Parallel()
	fixture := NewFixture(t)
	event := fixture.AddEvent(t, booking.EventFields{Title: "Tiny", Date: "2026-03-01", Location: "Room", Capacity: 5})

	var group sync.WaitGroup
	var mutex sync.Mutex
	succeeded := 0
	for range 20 {
		group.Add(1)
		go func() {
			defer group.Done()
			if _, err := fixture.Server.Book(fixture.User.ID, event.ID, 1); err == nil {
				mutex.Lock()
				succeeded++
				mutex.Unlock()
			}
		}()
	}
	group.Wait()

	if succeeded != 5 {
		t.Errorf("%d bookings succeeded, want 5", succeeded)
	}
	final, _ := fixture.Server.Event(event.ID)
	if final.RemainingSeats != 0 {
		t.Errorf("RemainingSeats = %d, want 0", final.RemainingSeats)
	}
}

func TestRequestsRecorded(t *testing.T) {
	t.Parallel()
	fixture := NewFixture(t)

	call(t, fixture, http.MethodGet, "/events", fixture.User.Token, nil)
	call(t, fixture, http.MethodGet, "/bookings", fixture.User.Token, nil)

	if got := fixture.Server.CountRequests(http.MethodGet, "/events"); got != 1 {
		t.Errorf("CountRequests(GET /events) = %d, want 1", got)
	}
	if got := fixture.Server.CountRequests("", "/"); got != 2 {
		t.Errorf("CountRequests(any) = %d, want 2", got)
	}
	for _, recorded := range fixture.Server.Requests() {
		if recorded.RequestID == "" {
			t.Errorf("request %s %s has no request ID", recorded.Method, recorded.Path)
		}
	}
	fixture.Server.ResetRequests()
	if got := len(fixture.Server.Requests()); got != 0 {
		t.Errorf("after reset, %d requests recorded", got)
	}
}

func TestSeed(t *testing.T) {
	t.Parallel()

	server := New(Config{BcryptCost: bcrypt.MinCost})
	if err := server.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	events := server.Events()
	if len(events) != 3 {
		t.Fatalf("seeded %d events, want 3", len(events))
	}
	soldOut := 0
	for _, event := range events {
		if event.Availability() == booking.NotAvailable {
			soldOut++
		}
	}
	if soldOut != 1 {
		t.Errorf("%d sold-out events, want 1", soldOut)
	}
	if _, err := server.authenticate(DemoAdminEmail, DemoAdminPassword); err != nil {
		t.Errorf("demo admin login: %v", err)
	}
}
