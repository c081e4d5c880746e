// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable source of the current time.
//
// Code that stamps records (booking times, token expiry) or drives
// time-based rendering (change-highlight decay) accepts a Clock instead
// of calling time.Now directly. Production code passes Real(); tests
// pass Fake() and move time explicitly with Advance or Set.
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	server := bookingmock.New(bookingmock.Config{Clock: c})
//	c.Advance(time.Hour)
package clock
