// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/eventdesk/cmd/eventdesk/cli"
	"github.com/bureau-foundation/eventdesk/lib/bookingmock"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
	"github.com/bureau-foundation/eventdesk/lib/session"
	"github.com/bureau-foundation/eventdesk/lib/testutil"
)

// harness runs commands against a mock service with an isolated config
// and session file. Commands write through package-level writers, so
// tests using it do not run in parallel.
type harness struct {
	fixture     *bookingmock.Fixture
	directory   string
	configPath  string
	sessionPath string

	stdin  string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		fixture:   bookingmock.NewFixture(t),
		directory: t.TempDir(),
	}
	h.sessionPath = filepath.Join(h.directory, "session.json")
	h.configPath = h.writeFile(t, "eventdesk.yaml", fmt.Sprintf(
		"service:\n  base_url: %s\nsession:\n  file: %s\nlog:\n  level: warn\n",
		h.fixture.URL, h.sessionPath))

	previousStdout, previousStderr, previousStdin := cli.Stdout, stderr, stdin
	t.Cleanup(func() {
		cli.Stdout, stderr, stdin = previousStdout, previousStderr, previousStdin
	})
	return h
}

func (h *harness) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(h.directory, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// run executes one command line with --config appended.
func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	cli.Stdout = &h.stdout
	stderr = &h.stderr
	stdin = strings.NewReader(h.stdin)
	return root().Execute(context.Background(), append(args, "--config", h.configPath))
}

// loginAs writes a session for identity without going through the
// login command.
func (h *harness) loginAs(t *testing.T, identity booking.Identity) {
	t.Helper()
	store, err := session.Open(h.sessionPath)
	if err != nil {
		t.Fatalf("opening session: %v", err)
	}
	if err := store.Init(identity); err != nil {
		t.Fatalf("saving session: %v", err)
	}
}

func requireCategory(t *testing.T, err error, want cli.ErrorCategory) *cli.ToolError {
	t.Helper()
	var toolError *cli.ToolError
	if !errors.As(err, &toolError) {
		t.Fatalf("error = %v (%T), want a %s ToolError", err, err, want)
	}
	if toolError.Category != want {
		t.Fatalf("Category = %q, want %q (error: %v)", toolError.Category, want, err)
	}
	return toolError
}

func concert(capacity int) booking.EventFields {
	return booking.EventFields{
		Title:       "Jazz Night",
		Description: "Live quartet.",
		Date:        "2026-11-20",
		Location:    "Blue Room",
		Capacity:    capacity,
	}
}

func TestLoginSavesSession(t *testing.T) {
	h := newHarness(t)
	passwordFile := h.writeFile(t, "password", bookingmock.FixtureUserPassword+"\n")

	if err := h.run(t, "login", "user@example.com", "--password-file", passwordFile); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(h.stderr.String(), "Logged in as Uma User (user)") {
		t.Errorf("stderr = %q", h.stderr.String())
	}

	store, err := session.Open(h.sessionPath)
	if err != nil {
		t.Fatalf("reopening session: %v", err)
	}
	identity, ok := store.Identity()
	if !ok || identity.Email != "user@example.com" || identity.Token == "" {
		t.Errorf("saved identity = %+v, %v", identity, ok)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h := newHarness(t)
	passwordFile := h.writeFile(t, "password", "not-the-password")

	err := h.run(t, "login", "user@example.com", "--password-file", passwordFile)
	requireCategory(t, err, cli.CategoryForbidden)
	if err.Error() != "Invalid email or password" {
		t.Errorf("error = %q, want the service message without a session hint", err.Error())
	}
	if _, statErr := os.Stat(h.sessionPath); !os.IsNotExist(statErr) {
		t.Error("a failed login wrote a session file")
	}
}

func TestLoginRequiresEmail(t *testing.T) {
	h := newHarness(t)
	requireCategory(t, h.run(t, "login"), cli.CategoryValidation)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.User)

	if err := h.run(t, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := os.Stat(h.sessionPath); !os.IsNotExist(err) {
		t.Error("session file still exists after logout")
	}

	err := h.run(t, "whoami")
	toolError := requireCategory(t, err, cli.CategoryForbidden)
	if !strings.Contains(toolError.Hint, "eventdesk login") {
		t.Errorf("Hint = %q, want a pointer to login", toolError.Hint)
	}
}

func TestWhoamiJSON(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.Admin)

	if err := h.run(t, "whoami", "--json"); err != nil {
		t.Fatalf("whoami: %v", err)
	}
	var result whoamiResult
	if err := json.Unmarshal(h.stdout.Bytes(), &result); err != nil {
		t.Fatalf("decoding %q: %v", h.stdout.String(), err)
	}
	if result.Email != "admin@example.com" || result.Role != booking.RoleAdmin || result.Scope != "all" {
		t.Errorf("whoami = %+v", result)
	}
	if strings.Contains(h.stdout.String(), h.fixture.Admin.Token) {
		t.Error("whoami --json printed the bearer token")
	}
}

func TestRegisterThenLogin(t *testing.T) {
	h := newHarness(t)
	passwordFile := h.writeFile(t, "password", "s3cret-pass\n")
	email := testutil.UniqueID("rae") + "@example.com"

	err := h.run(t, "register", "--name", "Rae Reader", "--email", email,
		"--mobile", "5551234567", "--password-file", passwordFile)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(h.stderr.String(), "User registered successfully") {
		t.Errorf("stderr = %q", h.stderr.String())
	}

	if err := h.run(t, "login", email, "--password-file", passwordFile); err != nil {
		t.Fatalf("login after register: %v", err)
	}
}

func TestRegisterValidatedLocally(t *testing.T) {
	h := newHarness(t)
	passwordFile := h.writeFile(t, "password", "s3cret-pass")
	h.fixture.Server.ResetRequests()

	err := h.run(t, "register", "--name", "Rae", "--email", "rae@example.com",
		"--mobile", "12345", "--password-file", passwordFile)
	requireCategory(t, err, cli.CategoryValidation)
	if count := h.fixture.Server.CountRequests("", "/auth"); count != 0 {
		t.Errorf("%d requests sent for an invalid registration", count)
	}
}

func TestEventsListFilter(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.User)
	jazz := h.fixture.AddEvent(t, concert(10))
	h.fixture.AddEvent(t, booking.EventFields{Title: "Go Meetup", Date: "2026-11-12", Location: "Community Hall", Capacity: 40})

	if err := h.run(t, "events", "list", "--filter", "BLUE"); err != nil {
		t.Fatalf("events list: %v", err)
	}
	output := h.stdout.String()
	if !strings.Contains(output, "Jazz Night") || strings.Contains(output, "Go Meetup") {
		t.Errorf("filtered listing = %q", output)
	}
	if !strings.Contains(output, "10/10") || !strings.Contains(output, "Available") {
		t.Errorf("listing lacks seats or availability: %q", output)
	}

	if err := h.run(t, "events", "list", "--json"); err != nil {
		t.Fatalf("events list --json: %v", err)
	}
	var events []booking.Event
	if err := json.Unmarshal(h.stdout.Bytes(), &events); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(events) != 2 || events[0].ID != jazz.ID {
		t.Errorf("events = %+v", events)
	}

	if err := h.run(t, "events", "list", "--filter", "opera"); err != nil {
		t.Fatalf("events list: %v", err)
	}
	if !strings.Contains(h.stdout.String(), `No events match "opera".`) {
		t.Errorf("empty filter output = %q", h.stdout.String())
	}
}

func TestEventsListRequiresSession(t *testing.T) {
	h := newHarness(t)
	requireCategory(t, h.run(t, "events", "list"), cli.CategoryForbidden)
	if count := h.fixture.Server.CountRequests("", "/events"); count != 0 {
		t.Errorf("%d requests sent without a session", count)
	}
}

func TestEventsShow(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.User)
	event := h.fixture.AddEvent(t, concert(10))

	if err := h.run(t, "events", "show", event.ID); err != nil {
		t.Fatalf("events show: %v", err)
	}
	for _, want := range []string{"Jazz Night", "2026-11-20 · Blue Room", "10 of 10 seats remaining (Available)", "Live quartet."} {
		if !strings.Contains(h.stdout.String(), want) {
			t.Errorf("show output missing %q:\n%s", want, h.stdout.String())
		}
	}

	err := h.run(t, "events", "show", "no-such-event")
	requireCategory(t, err, cli.CategoryNotFound)
}

func TestEventsCreateAdminOnly(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.User)

	err := h.run(t, "events", "create", "--title", "Launch", "--date", "2025-01-01", "--location", "HQ", "--capacity", "50")
	requireCategory(t, err, cli.CategoryForbidden)
	if count := h.fixture.Server.CountRequests("POST", "/events"); count != 0 {
		t.Errorf("%d create requests sent by a regular user", count)
	}
}

func TestEventsCreate(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.Admin)

	err := h.run(t, "events", "create", "--title", "Launch", "--date", "2025-01-01", "--location", "HQ", "--capacity", "50")
	if err != nil {
		t.Fatalf("events create: %v", err)
	}
	if !strings.Contains(h.stdout.String(), `Created "Launch"`) || !strings.Contains(h.stdout.String(), "with 50 seats") {
		t.Errorf("stdout = %q", h.stdout.String())
	}

	events := h.fixture.Server.Events()
	if len(events) != 1 || events[0].Title != "Launch" || events[0].RemainingSeats != 50 {
		t.Errorf("service events = %+v", events)
	}
}

func TestEventsCreateValidatedLocally(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.Admin)

	err := h.run(t, "events", "create", "--title", "Launch", "--date", "someday", "--location", "HQ", "--capacity", "0")
	requireCategory(t, err, cli.CategoryValidation)
	if count := h.fixture.Server.CountRequests("POST", "/events"); count != 0 {
		t.Errorf("%d create requests sent for invalid fields", count)
	}
}

func TestEventsEditChangesOnlyGivenFields(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.Admin)
	event := h.fixture.AddEvent(t, concert(10))
	h.fixture.BookAsAdmin(t, event.ID, 4)

	if err := h.run(t, "events", "edit", event.ID, "--location", "Main Hall", "--capacity", "20"); err != nil {
		t.Fatalf("events edit: %v", err)
	}

	updated, err := h.fixture.Server.Event(event.ID)
	if err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if updated.Location != "Main Hall" || updated.Capacity != 20 || updated.RemainingSeats != 16 {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Title != "Jazz Night" || updated.Description != "Live quartet." {
		t.Errorf("unchanged fields were modified: %+v", updated)
	}

	err = h.run(t, "events", "edit", event.ID)
	requireCategory(t, err, cli.CategoryValidation)
}

func TestEventsEditCapacityBelowBooked(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.Admin)
	event := h.fixture.AddEvent(t, concert(10))
	h.fixture.BookAsAdmin(t, event.ID, 6)

	err := h.run(t, "events", "edit", event.ID, "--capacity", "5")
	requireCategory(t, err, cli.CategoryConflict)
}

func TestEventsDeleteConfirmation(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.Admin)
	event := h.fixture.AddEvent(t, concert(10))

	h.stdin = "n\n"
	err := h.run(t, "events", "delete", event.ID)
	var exitError *cli.ExitError
	if !errors.As(err, &exitError) || exitError.Code != 1 {
		t.Fatalf("declined delete = %v, want ExitError 1", err)
	}
	if _, err := h.fixture.Server.Event(event.ID); err != nil {
		t.Fatalf("declined delete removed the event: %v", err)
	}

	h.stdin = "y\n"
	if err := h.run(t, "events", "delete", event.ID); err != nil {
		t.Fatalf("confirmed delete: %v", err)
	}
	if !strings.Contains(h.stdout.String(), `Deleted "Jazz Night".`) {
		t.Errorf("stdout = %q", h.stdout.String())
	}
	if len(h.fixture.Server.Events()) != 0 {
		t.Error("event still listed after delete")
	}
}

func TestEventsDeleteWithYes(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.Admin)
	event := h.fixture.AddEvent(t, concert(10))

	if err := h.run(t, "events", "delete", event.ID, "--yes"); err != nil {
		t.Fatalf("delete --yes: %v", err)
	}
	if h.stderr.Len() != 0 {
		t.Errorf("--yes still prompted: %q", h.stderr.String())
	}

	err := h.run(t, "events", "delete", event.ID, "--yes")
	requireCategory(t, err, cli.CategoryNotFound)
}

func TestBookShowsServerRemaining(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.User)
	event := h.fixture.AddEvent(t, concert(10))
	h.fixture.BookAsAdmin(t, event.ID, 7)

	if err := h.run(t, "book", event.ID, "--seats", "2"); err != nil {
		t.Fatalf("book: %v", err)
	}
	output := h.stdout.String()
	if !strings.Contains(output, `Booked 2 seats for "Jazz Night".`) {
		t.Errorf("stdout = %q", output)
	}
	if !strings.Contains(output, "1 of 10 seats remaining.") {
		t.Errorf("stdout = %q, want remaining seats from the service", output)
	}
}

func TestBookSoldOutRefusedLocally(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.User)
	event := h.fixture.AddEvent(t, concert(3))
	h.fixture.BookAsAdmin(t, event.ID, 3)
	h.fixture.Server.ResetRequests()

	err := h.run(t, "book", event.ID)
	requireCategory(t, err, cli.CategoryForbidden)
	if !strings.Contains(err.Error(), "No seats available") {
		t.Errorf("error = %q", err.Error())
	}
	if count := h.fixture.Server.CountRequests("POST", "/bookings"); count != 0 {
		t.Errorf("%d booking requests sent for a sold-out event", count)
	}
}

func TestBookInvalidSeats(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.User)
	event := h.fixture.AddEvent(t, concert(3))

	requireCategory(t, h.run(t, "book", event.ID, "--seats", "0"), cli.CategoryValidation)
	if count := h.fixture.Server.CountRequests("POST", "/bookings"); count != 0 {
		t.Errorf("%d booking requests sent for zero seats", count)
	}
}

func TestBookMoreThanRemaining(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.User)
	event := h.fixture.AddEvent(t, concert(3))

	err := h.run(t, "book", event.ID, "--seats", "5")
	requireCategory(t, err, cli.CategoryValidation)
	if err.Error() != "Not enough seats available" {
		t.Errorf("error = %q, want the service message", err.Error())
	}
}

func TestBookingsScopedByRole(t *testing.T) {
	h := newHarness(t)
	event := h.fixture.AddEvent(t, concert(10))
	h.fixture.BookAsAdmin(t, event.ID, 2)

	h.loginAs(t, h.fixture.User)
	if err := h.run(t, "book", event.ID, "--seats", "1"); err != nil {
		t.Fatalf("book: %v", err)
	}

	if err := h.run(t, "bookings"); err != nil {
		t.Fatalf("bookings: %v", err)
	}
	if !strings.HasPrefix(h.stdout.String(), "My Bookings (1)") || strings.Contains(h.stdout.String(), "REQUESTER") {
		t.Errorf("regular bookings = %q", h.stdout.String())
	}

	h.loginAs(t, h.fixture.Admin)
	if err := h.run(t, "bookings"); err != nil {
		t.Fatalf("bookings: %v", err)
	}
	output := h.stdout.String()
	if !strings.HasPrefix(output, "All Bookings (2)") || !strings.Contains(output, "Uma User <user@example.com>") {
		t.Errorf("admin bookings = %q", output)
	}

	if err := h.run(t, "bookings", "--json"); err != nil {
		t.Fatalf("bookings --json: %v", err)
	}
	var bookings []booking.Booking
	if err := json.Unmarshal(h.stdout.Bytes(), &bookings); err != nil || len(bookings) != 2 {
		t.Errorf("bookings --json = %q (%v)", h.stdout.String(), err)
	}
}

func TestExpiredSessionHint(t *testing.T) {
	h := newHarness(t)
	expired := h.fixture.User
	expired.Token = "not-a-valid-token"
	h.loginAs(t, expired)

	toolError := requireCategory(t, h.run(t, "events", "list"), cli.CategoryForbidden)
	if !strings.Contains(toolError.Hint, "session has expired") {
		t.Errorf("Hint = %q", toolError.Hint)
	}
}

func TestLogOutputFile(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, h.fixture.User)
	event := h.fixture.AddEvent(t, concert(10))
	logPath := filepath.Join(h.directory, "eventdesk.log")

	if err := h.run(t, "book", event.ID, "--log-output", logPath); err != nil {
		t.Fatalf("book: %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"booking created"`) || !strings.Contains(string(data), `"command":"book"`) {
		t.Errorf("log file = %q", data)
	}
}

func TestInvalidConfig(t *testing.T) {
	h := newHarness(t)
	h.configPath = h.writeFile(t, "bad.yaml", "service:\n  base_url: ftp://events.example.com\n")

	err := h.run(t, "whoami")
	requireCategory(t, err, cli.CategoryValidation)
	if !strings.Contains(err.Error(), "http or https") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestUnknownCommandSuggestion(t *testing.T) {
	err := root().Execute(context.Background(), []string{"evnets"})
	if err == nil || !strings.Contains(err.Error(), `did you mean "events"`) {
		t.Errorf("error = %v, want a suggestion for events", err)
	}
}
