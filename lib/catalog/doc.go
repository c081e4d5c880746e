// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog owns the client's canonical view of events and
// bookings.
//
// A [Controller] holds the last fetched event list and booking list,
// replaces each wholesale on refresh, and is the only path through which
// the interactive client and the CLI mutate remote state. Every mutating
// request is checked locally first: role gating (administrators only for
// event changes), field validation, and the last-known seat
// availability. A request that fails a local check returns
// [PermissionDeniedError] or [booking.ValidationError] without touching
// the network. A request that succeeds is followed by a refetch, so the
// held lists always reflect what the service reported rather than a
// local guess.
//
// The service remains the enforcement point. The local checks exist to
// give immediate guidance; a stale snapshot that lets a request through
// is corrected by the service's rejection and the next refresh.
package catalog
