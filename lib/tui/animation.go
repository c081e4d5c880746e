// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

// HeatDecayDuration is how long a row glows after it changes. Heat
// starts at 1.0 and decays linearly to 0.0 over this duration.
const HeatDecayDuration = 5 * time.Second

// HeatTickInterval is the re-render interval while any rows are hot.
// 100ms gives ~10fps animation for smooth color decay.
const HeatTickInterval = 100 * time.Millisecond

// HeatKind distinguishes different types of changes for color selection.
type HeatKind int

const (
	// HeatPut marks a row that appeared or changed (amber glow).
	HeatPut HeatKind = iota
	// HeatRemove marks a row that lost something, such as its last
	// seat (red glow).
	HeatRemove
)

// heatEntry records when and how a row last changed.
type heatEntry struct {
	ignition time.Time
	kind     HeatKind
}

// HeatTracker maps row IDs to ignition timestamps for animated change
// highlighting. Each change "ignites" a row, which then decays from
// full intensity to zero over [HeatDecayDuration].
type HeatTracker struct {
	entries map[string]heatEntry
}

// NewHeatTracker creates an empty heat tracker.
func NewHeatTracker() *HeatTracker {
	return &HeatTracker{
		entries: make(map[string]heatEntry),
	}
}

// Ignite records a change for a row. Resets the decay timer if the row
// was already hot.
func (tracker *HeatTracker) Ignite(rowID string, kind HeatKind, now time.Time) {
	tracker.entries[rowID] = heatEntry{ignition: now, kind: kind}
}

// Heat returns the current intensity for a row: 1.0 at ignition,
// linearly decaying to 0.0 over [HeatDecayDuration]. Returns 0.0 for
// rows that were never ignited or have fully decayed.
func (tracker *HeatTracker) Heat(rowID string, now time.Time) float64 {
	entry, exists := tracker.entries[rowID]
	if !exists {
		return 0.0
	}
	elapsed := now.Sub(entry.ignition)
	if elapsed >= HeatDecayDuration {
		return 0.0
	}
	return 1.0 - float64(elapsed)/float64(HeatDecayDuration)
}

// Kind returns the heat kind for a row. Only meaningful when Heat
// returns > 0.
func (tracker *HeatTracker) Kind(rowID string) HeatKind {
	entry, exists := tracker.entries[rowID]
	if !exists {
		return HeatPut
	}
	return entry.kind
}

// HasHot returns true if any tracked row still has heat > 0, meaning
// the tick timer should keep running for animation.
func (tracker *HeatTracker) HasHot(now time.Time) bool {
	hot := false
	for rowID, entry := range tracker.entries {
		if now.Sub(entry.ignition) < HeatDecayDuration {
			hot = true
			continue
		}
		// Garbage-collect fully decayed entries.
		delete(tracker.entries, rowID)
	}
	return hot
}

// Fingerprint is a content hash of one rendered row.
type Fingerprint [32]byte

// FingerprintOf hashes the given field values. Fields are separated by
// NUL so that ("ab", "c") and ("a", "bc") differ.
func FingerprintOf(fields ...string) Fingerprint {
	return Fingerprint(blake3.Sum256([]byte(strings.Join(fields, "\x00"))))
}

// ChangeDetector compares successive sets of row fingerprints and
// reports which rows are new or changed. The first set only primes the
// detector, so the initial load does not light up every row.
type ChangeDetector struct {
	previous map[string]Fingerprint
	primed   bool
}

// Observe records the current fingerprints and returns the IDs whose
// fingerprint differs from the previous observation (including IDs not
// seen before), in no particular order.
func (detector *ChangeDetector) Observe(current map[string]Fingerprint) []string {
	var changed []string
	if detector.primed {
		for rowID, fingerprint := range current {
			if previous, exists := detector.previous[rowID]; !exists || previous != fingerprint {
				changed = append(changed, rowID)
			}
		}
	}
	detector.previous = current
	detector.primed = true
	return changed
}

// Reset forgets all observations; the next Observe primes again.
func (detector *ChangeDetector) Reset() {
	detector.previous = nil
	detector.primed = false
}
