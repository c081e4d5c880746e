// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"sync/atomic"
)

var uniqueCounter atomic.Uint64

// UniqueID returns a string of the form "prefix-N" where N is a
// monotonically increasing integer, for values that must not collide
// across tests sharing one mock service.
//
//	email := testutil.UniqueID("reader") + "@example.com"  // "reader-1@example.com"
//	title := testutil.UniqueID("Launch")                   // "Launch-2", ...
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}
