// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/eventdesk/cmd/eventdesk/cli"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

type bookParams struct {
	connectionParams
	cli.JSONOutput
	Seats int `json:"seats" flag:"seats,n" desc:"number of seats to book" default:"1"`
}

// bookResult is the --json shape of book: the booking and the event as
// the service reports it afterwards.
type bookResult struct {
	Booking booking.Booking `json:"booking"`
	Event   *booking.Event  `json:"event,omitempty"`
}

func bookCommand() *cli.Command {
	var params bookParams
	return &cli.Command{
		Name:    "book",
		Summary: "Book seats for an event",
		Description: `Book seats for an event. Sold-out events are refused before any
request is sent; otherwise the service decides, and the remaining
seat count it reports afterwards is printed.`,
		Usage: "eventdesk book <event-id> [flags]",
		Examples: []cli.Example{
			{Description: "Book two seats", Command: "eventdesk book e1 --seats 2"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			eventID, err := singleEventID(args, "eventdesk book <event-id> [flags]")
			if err != nil {
				return err
			}
			env, err := params.open()
			if err != nil {
				return err
			}
			defer env.close()
			if err := env.requireSession(); err != nil {
				return err
			}

			controller := env.controller("book")
			// The availability check runs against the current list.
			// A failed refresh leaves the decision to the service.
			controller.RefreshEvents(ctx)

			created, err := controller.RequestBooking(ctx, eventID, params.Seats)
			if err != nil {
				return cli.FromRemote(err)
			}

			result := bookResult{Booking: created}
			if event, found := controller.CachedEvent(eventID); found {
				result.Event = &event
			}
			if done, err := params.EmitJSON(result); done {
				return err
			}

			title := created.Event.Title
			if result.Event != nil {
				title = result.Event.Title
			}
			fmt.Fprintf(cli.Stdout, "Booked %d %s for %q.\n", created.Seats, seatWord(created.Seats), title)
			if result.Event != nil {
				fmt.Fprintf(cli.Stdout, "%d of %d seats remaining.\n", result.Event.RemainingSeats, result.Event.Capacity)
			}
			return nil
		},
	}
}

func seatWord(seats int) string {
	if seats == 1 {
		return "seat"
	}
	return "seats"
}

type bookingsParams struct {
	connectionParams
	cli.JSONOutput
}

func bookingsCommand() *cli.Command {
	var params bookingsParams
	return &cli.Command{
		Name:    "bookings",
		Summary: "List bookings (your own, or all for administrators)",
		Usage:   "eventdesk bookings [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			env, err := params.open()
			if err != nil {
				return err
			}
			defer env.close()

			controller := env.controller("bookings")
			if err := controller.RefreshBookings(ctx); err != nil {
				return cli.FromRemote(err)
			}
			bookings := controller.Snapshot().Bookings

			if done, err := params.EmitJSON(bookings); done {
				return err
			}

			identity, _ := env.session.Identity()
			scope := booking.ScopeFor(identity.Role)
			fmt.Fprintf(cli.Stdout, "%s (%d)\n", scope.Label(), len(bookings))
			if len(bookings) == 0 {
				fmt.Fprintln(cli.Stdout, "No bookings.")
				return nil
			}
			writeBookingTable(cli.Stdout, bookings, scope == booking.ScopeAll)
			return nil
		},
	}
}
