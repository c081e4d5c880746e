// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingmock

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// Domain errors returned by the state methods. Handlers map each one to
// an HTTP status and message.
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrNotEnoughSeats      = errors.New("not enough seats available")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrCapacityBelowBooked = errors.New("capacity below booked seats")
)

// user is an account held by the mock authority.
type user struct {
	id           string
	name         string
	email        string
	mobile       string
	role         booking.Role
	passwordHash []byte
}

func (u *user) requester() booking.Requester {
	return booking.Requester{ID: u.id, Name: u.name, Email: u.email}
}

// bookingRecord is a stored reservation. The event summary and
// requester are resolved at listing time so that edits to the event
// show through.
type bookingRecord struct {
	id       string
	eventID  string
	userID   string
	seats    int
	bookedAt time.Time
}

// AddUser creates an account. Email addresses are unique and compared
// case-insensitively.
func (server *Server) AddUser(name, email, mobile, password string, role booking.Role) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), server.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	server.mutex.Lock()
	defer server.mutex.Unlock()

	key := strings.ToLower(strings.TrimSpace(email))
	if _, exists := server.usersByEmail[key]; exists {
		return "", ErrUserExists
	}
	account := &user{
		id:           uuid.NewString(),
		name:         strings.TrimSpace(name),
		email:        strings.TrimSpace(email),
		mobile:       mobile,
		role:         role,
		passwordHash: hash,
	}
	server.users[account.id] = account
	server.usersByEmail[key] = account.id
	return account.id, nil
}

// authenticate checks credentials and returns the matching account.
func (server *Server) authenticate(email, password string) (*user, error) {
	server.mutex.Lock()
	id, exists := server.usersByEmail[strings.ToLower(strings.TrimSpace(email))]
	account := server.users[id]
	server.mutex.Unlock()

	if !exists || account == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(account.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

func (server *Server) lookupUser(id string) (*user, bool) {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	account, exists := server.users[id]
	return account, exists
}

// AddEvent creates an event with every seat available. The date is
// stored as an RFC 3339 timestamp at midnight UTC.
func (server *Server) AddEvent(fields booking.EventFields) (booking.Event, error) {
	if err := fields.Validate(); err != nil {
		return booking.Event{}, err
	}
	date, _ := booking.ParseDate(fields.Date)

	server.mutex.Lock()
	defer server.mutex.Unlock()

	event := booking.Event{
		ID:             uuid.NewString(),
		Title:          strings.TrimSpace(fields.Title),
		Description:    fields.Description,
		Date:           date.UTC().Format(time.RFC3339),
		Location:       strings.TrimSpace(fields.Location),
		Capacity:       fields.Capacity,
		RemainingSeats: fields.Capacity,
	}
	server.events[event.ID] = &event
	server.eventOrder = append(server.eventOrder, event.ID)
	return event, nil
}

// UpdateEvent replaces an event's fields. The seats already booked stay
// booked: remaining seats are recomputed from the new capacity.
func (server *Server) UpdateEvent(eventID string, fields booking.EventFields) (booking.Event, error) {
	if err := fields.Validate(); err != nil {
		return booking.Event{}, err
	}
	date, _ := booking.ParseDate(fields.Date)

	server.mutex.Lock()
	defer server.mutex.Unlock()

	event, exists := server.events[eventID]
	if !exists {
		return booking.Event{}, ErrEventNotFound
	}
	booked := event.Capacity - event.RemainingSeats
	if fields.Capacity < booked {
		return booking.Event{}, ErrCapacityBelowBooked
	}
	event.Title = strings.TrimSpace(fields.Title)
	event.Description = fields.Description
	event.Date = date.UTC().Format(time.RFC3339)
	event.Location = strings.TrimSpace(fields.Location)
	event.Capacity = fields.Capacity
	event.RemainingSeats = fields.Capacity - booked
	return *event, nil
}

// DeleteEvent removes an event and every booking against it.
func (server *Server) DeleteEvent(eventID string) error {
	server.mutex.Lock()
	defer server.mutex.Unlock()

	if _, exists := server.events[eventID]; !exists {
		return ErrEventNotFound
	}
	delete(server.events, eventID)
	server.eventOrder = slices.DeleteFunc(server.eventOrder, func(id string) bool { return id == eventID })
	server.bookings = slices.DeleteFunc(server.bookings, func(record *bookingRecord) bool {
		return record.eventID == eventID
	})
	return nil
}

// Event returns a copy of one event.
func (server *Server) Event(eventID string) (booking.Event, error) {
	server.mutex.Lock()
	defer server.mutex.Unlock()

	event, exists := server.events[eventID]
	if !exists {
		return booking.Event{}, ErrEventNotFound
	}
	return *event, nil
}

// Events returns every event in creation order.
func (server *Server) Events() []booking.Event {
	server.mutex.Lock()
	defer server.mutex.Unlock()

	events := make([]booking.Event, 0, len(server.eventOrder))
	for _, id := range server.eventOrder {
		events = append(events, *server.events[id])
	}
	return events
}

// Book reserves seats for a user. The seat check and the decrement
// happen under one lock, so concurrent bookings never oversell.
func (server *Server) Book(userID, eventID string, seats int) (booking.Booking, error) {
	if err := booking.ValidateSeats(seats); err != nil {
		return booking.Booking{}, err
	}

	server.mutex.Lock()
	defer server.mutex.Unlock()

	account, exists := server.users[userID]
	if !exists {
		return booking.Booking{}, ErrUserNotFound
	}
	event, exists := server.events[eventID]
	if !exists {
		return booking.Booking{}, ErrEventNotFound
	}
	if seats > event.RemainingSeats {
		return booking.Booking{}, ErrNotEnoughSeats
	}
	event.RemainingSeats -= seats

	record := &bookingRecord{
		id:       uuid.NewString(),
		eventID:  eventID,
		userID:   userID,
		seats:    seats,
		bookedAt: server.clock.Now().UTC(),
	}
	server.bookings = append(server.bookings, record)
	return server.resolveLocked(record, account), nil
}

// Bookings lists bookings for one user, or every booking when userID is
// empty.
func (server *Server) Bookings(userID string) []booking.Booking {
	server.mutex.Lock()
	defer server.mutex.Unlock()

	result := make([]booking.Booking, 0, len(server.bookings))
	for _, record := range server.bookings {
		if userID != "" && record.userID != userID {
			continue
		}
		result = append(result, server.resolveLocked(record, server.users[record.userID]))
	}
	return result
}

// resolveLocked expands a record into the wire form. Caller holds the
// mutex.
func (server *Server) resolveLocked(record *bookingRecord, account *user) booking.Booking {
	result := booking.Booking{
		ID:       record.id,
		Seats:    record.seats,
		BookedAt: record.bookedAt,
	}
	if event, exists := server.events[record.eventID]; exists {
		result.Event = booking.EventSummary{
			ID:          event.ID,
			Title:       event.Title,
			Description: event.Description,
			Date:        event.Date,
			Location:    event.Location,
		}
	}
	if account != nil {
		result.User = account.requester()
	}
	return result
}
