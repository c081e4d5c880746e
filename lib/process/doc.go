// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for the eventdesk
// binaries. It centralizes the raw I/O that happens after run() returns,
// when a structured logger may never have been set up: printing the
// final error to stderr and choosing the exit code.
package process
