// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingmock

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bureau-foundation/eventdesk/lib/netutil"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// writeError maps a state error to its status and wire message.
func writeError(writer http.ResponseWriter, err error) {
	var validation *booking.ValidationError
	switch {
	case errors.As(err, &validation):
		netutil.WriteMessage(writer, http.StatusBadRequest, validation.Error())
	case errors.Is(err, ErrEventNotFound):
		netutil.WriteMessage(writer, http.StatusNotFound, "Event not found")
	case errors.Is(err, ErrNotEnoughSeats):
		netutil.WriteMessage(writer, http.StatusBadRequest, "Not enough seats available")
	case errors.Is(err, ErrCapacityBelowBooked):
		netutil.WriteMessage(writer, http.StatusConflict, "Capacity cannot be less than the number of seats already booked")
	case errors.Is(err, ErrUserNotFound):
		netutil.WriteMessage(writer, http.StatusUnauthorized, "Invalid or expired token")
	default:
		netutil.WriteMessage(writer, http.StatusInternalServerError, "Internal server error")
	}
}

func (server *Server) handleListEvents(writer http.ResponseWriter, request *http.Request) {
	netutil.WriteJSON(writer, http.StatusOK, server.Events())
}

func (server *Server) handleGetEvent(writer http.ResponseWriter, request *http.Request) {
	event, err := server.Event(chi.URLParam(request, "id"))
	if err != nil {
		writeError(writer, err)
		return
	}
	netutil.WriteJSON(writer, http.StatusOK, event)
}

func (server *Server) handleCreateEvent(writer http.ResponseWriter, request *http.Request) {
	var fields booking.EventFields
	if err := decodeJSON(request, &fields); err != nil {
		netutil.WriteMessage(writer, http.StatusBadRequest, "Invalid request body")
		return
	}
	event, err := server.AddEvent(fields)
	if err != nil {
		writeError(writer, err)
		return
	}
	netutil.WriteJSON(writer, http.StatusCreated, event)
}

func (server *Server) handleUpdateEvent(writer http.ResponseWriter, request *http.Request) {
	var fields booking.EventFields
	if err := decodeJSON(request, &fields); err != nil {
		netutil.WriteMessage(writer, http.StatusBadRequest, "Invalid request body")
		return
	}
	event, err := server.UpdateEvent(chi.URLParam(request, "id"), fields)
	if err != nil {
		writeError(writer, err)
		return
	}
	netutil.WriteJSON(writer, http.StatusOK, event)
}

func (server *Server) handleDeleteEvent(writer http.ResponseWriter, request *http.Request) {
	if err := server.DeleteEvent(chi.URLParam(request, "id")); err != nil {
		writeError(writer, err)
		return
	}
	netutil.WriteMessage(writer, http.StatusOK, "Event deleted successfully")
}

func (server *Server) handleListBookings(writer http.ResponseWriter, request *http.Request) {
	account := caller(request.Context())
	userID := account.id
	if account.role.IsAdmin() {
		userID = ""
	}
	netutil.WriteJSON(writer, http.StatusOK, server.Bookings(userID))
}

func (server *Server) handleCreateBooking(writer http.ResponseWriter, request *http.Request) {
	var body booking.BookingRequest
	if err := decodeJSON(request, &body); err != nil {
		netutil.WriteMessage(writer, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.EventID == "" {
		netutil.WriteMessage(writer, http.StatusBadRequest, "eventId is required")
		return
	}
	created, err := server.Book(caller(request.Context()).id, body.EventID, body.Seats)
	if err != nil {
		writeError(writer, err)
		return
	}
	server.logger.Info("booking created",
		"booking_id", created.ID,
		"event_id", body.EventID,
		"seats", body.Seats,
	)
	netutil.WriteJSON(writer, http.StatusCreated, created)
}
