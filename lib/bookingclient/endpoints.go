// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// Service paths. Event-scoped paths append "/" and the escaped ID.
const (
	PathLogin    = "/auth/login"
	PathRegister = "/auth/register"
	PathEvents   = "/events"
	PathBookings = "/bookings"
)

func eventPath(eventID string) string {
	return PathEvents + "/" + url.PathEscape(eventID)
}

// Login exchanges credentials for an identity carrying a bearer token.
func (client *Client) Login(ctx context.Context, request booking.LoginRequest) (booking.Identity, error) {
	var response booking.LoginResponse
	if err := client.Create(ctx, PathLogin, "", request, &response); err != nil {
		return booking.Identity{}, err
	}
	if response.Data.Token == "" {
		return booking.Identity{}, &TransportError{
			Method: http.MethodPost,
			Path:   PathLogin,
			Err:    errors.New("login response carried no token"),
		}
	}
	return response.Data, nil
}

// Register creates a new regular account. Returns the service's
// acknowledgement message.
func (client *Client) Register(ctx context.Context, request booking.RegisterRequest) (string, error) {
	var response booking.MessageResponse
	if err := client.Create(ctx, PathRegister, "", request, &response); err != nil {
		return "", err
	}
	return response.Message, nil
}

// Events lists every event.
func (client *Client) Events(ctx context.Context, token string) ([]booking.Event, error) {
	var events []booking.Event
	if err := client.Fetch(ctx, PathEvents, token, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Event fetches one event's current detail.
func (client *Client) Event(ctx context.Context, token, eventID string) (booking.Event, error) {
	var event booking.Event
	if err := client.Fetch(ctx, eventPath(eventID), token, &event); err != nil {
		return booking.Event{}, err
	}
	return event, nil
}

// CreateEvent creates an event. Administrators only.
func (client *Client) CreateEvent(ctx context.Context, token string, fields booking.EventFields) (booking.Event, error) {
	var event booking.Event
	if err := client.Create(ctx, PathEvents, token, fields, &event); err != nil {
		return booking.Event{}, err
	}
	return event, nil
}

// UpdateEvent replaces an event's fields. Administrators only.
func (client *Client) UpdateEvent(ctx context.Context, token, eventID string, fields booking.EventFields) (booking.Event, error) {
	var event booking.Event
	if err := client.Replace(ctx, eventPath(eventID), token, fields, &event); err != nil {
		return booking.Event{}, err
	}
	return event, nil
}

// DeleteEvent removes an event and its bookings. Administrators only.
func (client *Client) DeleteEvent(ctx context.Context, token, eventID string) error {
	return client.Remove(ctx, eventPath(eventID), token, nil)
}

// Bookings lists bookings visible to the token's identity: its own for
// regular users, every booking for administrators.
func (client *Client) Bookings(ctx context.Context, token string) ([]booking.Booking, error) {
	var bookings []booking.Booking
	if err := client.Fetch(ctx, PathBookings, token, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBooking reserves seats on an event.
func (client *Client) CreateBooking(ctx context.Context, token string, request booking.BookingRequest) (booking.Booking, error) {
	var created booking.Booking
	if err := client.Create(ctx, PathBookings, token, request, &created); err != nil {
		return booking.Booking{}, err
	}
	return created, nil
}
