// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingmock

import (
	"fmt"

	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// Demo account credentials created by Seed.
const (
	DemoAdminEmail    = "admin@eventdesk.local"
	DemoAdminPassword = "admin123"
	DemoUserEmail     = "user@eventdesk.local"
	DemoUserPassword  = "user1234"
)

// Seed populates a demo administrator, a demo regular user, a handful
// of events, and one sold-out event so every availability state is
// visible.
func (server *Server) Seed() error {
	if _, err := server.AddUser("Demo Admin", DemoAdminEmail, "5550000001", DemoAdminPassword, booking.RoleAdmin); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	userID, err := server.AddUser("Demo User", DemoUserEmail, "5550000002", DemoUserPassword, booking.RoleRegular)
	if err != nil {
		return fmt.Errorf("seeding user: %w", err)
	}

	events := []booking.EventFields{
		{
			Title:       "Go Meetup",
			Description: "Monthly meetup. Talks on **concurrency** and `context` propagation.",
			Date:        "2026-11-12",
			Location:    "Community Hall",
			Capacity:    40,
		},
		{
			Title:       "Product Launch",
			Description: "Keynote followed by demos.\n\n- doors at 9:00\n- keynote at 10:00",
			Date:        "2026-12-01",
			Location:    "HQ Auditorium",
			Capacity:    120,
		},
		{
			Title:       "Chamber Concert",
			Description: "An evening of string quartets.",
			Date:        "2026-11-20",
			Location:    "Riverside Theatre",
			Capacity:    4,
		},
	}
	var lastEvent booking.Event
	for _, fields := range events {
		event, err := server.AddEvent(fields)
		if err != nil {
			return fmt.Errorf("seeding event %q: %w", fields.Title, err)
		}
		lastEvent = event
	}
	if _, err := server.Book(userID, lastEvent.ID, lastEvent.Capacity); err != nil {
		return fmt.Errorf("seeding sold-out booking: %w", err)
	}
	return nil
}
