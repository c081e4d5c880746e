// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package booking defines the event-booking protocol types shared by
// the client, the catalog controller, and the mock authority: identities
// and roles, events, bookings, mutation payloads, and the local
// validation rules applied before any request leaves the process.
//
// JSON field names mirror the remote service's wire format ("_id",
// "remainingSeats", "user_type"), so these types are decoded directly
// from response bodies without an intermediate representation.
package booking
