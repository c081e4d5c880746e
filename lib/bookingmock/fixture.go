// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingmock

import (
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// Fixture is a running mock service with one administrator and one
// regular user already logged in. Used by tests in other packages.
type Fixture struct {
	Server *Server
	URL    string
	Admin  booking.Identity
	User   booking.Identity
}

// Fixture passwords, for tests that exercise the login flow.
const (
	FixtureAdminPassword = "admin-password"
	FixtureUserPassword  = "user-password"
)

// NewFixture starts a Server behind httptest and creates the two
// accounts. The server is closed when the test completes.
func NewFixture(t testing.TB) *Fixture {
	t.Helper()

	server := New(Config{BcryptCost: bcrypt.MinCost, Secret: "fixture-secret"})
	httpServer := httptest.NewServer(server)
	t.Cleanup(httpServer.Close)

	adminID, err := server.AddUser("Ada Admin", "admin@example.com", "5550000001", FixtureAdminPassword, booking.RoleAdmin)
	if err != nil {
		t.Fatalf("creating admin: %v", err)
	}
	userID, err := server.AddUser("Uma User", "user@example.com", "5550000002", FixtureUserPassword, booking.RoleRegular)
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	admin, err := server.Identity(adminID)
	if err != nil {
		t.Fatalf("issuing admin token: %v", err)
	}
	regular, err := server.Identity(userID)
	if err != nil {
		t.Fatalf("issuing user token: %v", err)
	}

	return &Fixture{
		Server: server,
		URL:    httpServer.URL,
		Admin:  admin,
		User:   regular,
	}
}

// AddEvent creates an event and fails the test on error.
func (fixture *Fixture) AddEvent(t testing.TB, fields booking.EventFields) booking.Event {
	t.Helper()
	event, err := fixture.Server.AddEvent(fields)
	if err != nil {
		t.Fatalf("adding event %q: %v", fields.Title, err)
	}
	return event
}

// BookAsAdmin consumes seats on an event on the administrator's behalf,
// to set up remaining-seat counts without touching the regular user's
// bookings.
func (fixture *Fixture) BookAsAdmin(t testing.TB, eventID string, seats int) {
	t.Helper()
	if _, err := fixture.Server.Book(fixture.Admin.ID, eventID, seats); err != nil {
		t.Fatalf("booking %d seats on %s: %v", seats, eventID, err)
	}
}
