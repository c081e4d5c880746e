// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
)

// Logger returns a debug-level text logger that writes to t.Log. Output
// after the test completes is dropped instead of panicking, since
// commands started by the test may still be settling.
func Logger(t testing.TB) *slog.Logger {
	t.Helper()
	writer := &testWriter{t: t}
	t.Cleanup(func() { writer.done.Store(true) })
	return slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type testWriter struct {
	t    testing.TB
	done atomic.Bool
}

func (writer *testWriter) Write(data []byte) (int, error) {
	if !writer.done.Load() {
		writer.t.Log(strings.TrimRight(string(data), "\n"))
	}
	return len(data), nil
}
