// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bookingflow implements the modal sub-flows of the catalog
// screen as explicit state machines: [BookFlow] for reserving seats,
// [EventForm] for creating and editing events, and [BookingsView] for
// the read-only bookings list.
//
// Each flow's state is a sealed interface with one concrete type per
// state, so a flow is always in exactly one well-defined state and the
// data it carries is the data that state needs. Transitions are methods
// that check the current state and do nothing (returning false) when
// called from the wrong one. In particular a second Confirm or Submit
// while a submission is in flight cannot produce another submission.
//
// Flows never call the service. A transition that begins a submission
// returns the request for the caller to run (through the catalog
// controller), and the caller reports the outcome back with Settle.
package bookingflow
