// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"strconv"
	"strings"

	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// Filter returns the events with at least one field containing query,
// compared case-insensitively. The searched fields are the ID, title,
// description, date, location, and the capacity and remaining seat
// counts in decimal. The query is trimmed first; an empty query returns
// events itself. Order is preserved and events is never modified.
func Filter(events []booking.Event, query string) []booking.Event {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return events
	}

	matched := make([]booking.Event, 0, len(events))
	for _, event := range events {
		if Matches(event, query) {
			matched = append(matched, event)
		}
	}
	return matched
}

// Matches reports whether any searchable field of event contains the
// lowercase query.
func Matches(event booking.Event, query string) bool {
	for _, field := range SearchableFields(event) {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// SearchableFields returns the field values Filter inspects, in a fixed
// order.
func SearchableFields(event booking.Event) []string {
	return []string{
		event.ID,
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		strconv.Itoa(event.Capacity),
		strconv.Itoa(event.RemainingSeats),
	}
}
