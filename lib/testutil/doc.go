// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for eventdesk packages.
//
// [Logger] returns a *slog.Logger whose output goes to the test log, so
// a failing test shows what the component under test logged and a
// passing test stays quiet.
//
// [RequireReceive], [RequireSend], and [RequireClosed] encapsulate the
// timeout safety valve pattern (select with time.After fallback) for
// tests that coordinate with goroutines, such as a remote call held
// open until the test releases it. These are the only place in the
// test suite where real wall-clock timeouts are used.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation: account emails, event titles, and similar values
// that must not collide across parallel tests sharing a fixture.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no eventdesk-internal dependencies.
package testutil
