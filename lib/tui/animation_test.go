// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"slices"
	"testing"
	"time"
)

func TestHeatDecay(t *testing.T) {
	t.Parallel()
	tracker := NewHeatTracker()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if heat := tracker.Heat("a", start); heat != 0 {
		t.Errorf("heat of unknown row = %v, want 0", heat)
	}

	tracker.Ignite("a", HeatRemove, start)
	if heat := tracker.Heat("a", start); heat != 1.0 {
		t.Errorf("heat at ignition = %v, want 1.0", heat)
	}
	if heat := tracker.Heat("a", start.Add(HeatDecayDuration/2)); heat < 0.49 || heat > 0.51 {
		t.Errorf("heat at half decay = %v, want 0.5", heat)
	}
	if tracker.Kind("a") != HeatRemove {
		t.Errorf("kind = %v, want HeatRemove", tracker.Kind("a"))
	}
	if !tracker.HasHot(start.Add(time.Second)) {
		t.Error("HasHot = false while a row is hot")
	}

	expired := start.Add(HeatDecayDuration)
	if heat := tracker.Heat("a", expired); heat != 0 {
		t.Errorf("heat after decay = %v, want 0", heat)
	}
	if tracker.HasHot(expired) {
		t.Error("HasHot = true after every row decayed")
	}
	if tracker.Kind("a") != HeatPut {
		t.Error("decayed entry was not collected")
	}
}

func TestFingerprintOfSeparatesFields(t *testing.T) {
	t.Parallel()
	if FingerprintOf("ab", "c") == FingerprintOf("a", "bc") {
		t.Error("field boundaries do not affect the fingerprint")
	}
	if FingerprintOf("gig", "3") != FingerprintOf("gig", "3") {
		t.Error("fingerprint is not deterministic")
	}
}

func TestChangeDetector(t *testing.T) {
	t.Parallel()
	var detector ChangeDetector
	first := map[string]Fingerprint{
		"a": FingerprintOf("Gig", "3"),
		"b": FingerprintOf("Talk", "10"),
	}
	if changed := detector.Observe(first); changed != nil {
		t.Errorf("first Observe = %v, want nil", changed)
	}

	second := map[string]Fingerprint{
		"a": FingerprintOf("Gig", "1"),
		"b": FingerprintOf("Talk", "10"),
		"c": FingerprintOf("Launch", "50"),
	}
	changed := detector.Observe(second)
	slices.Sort(changed)
	if !slices.Equal(changed, []string{"a", "c"}) {
		t.Errorf("changed = %v, want [a c]", changed)
	}

	if changed := detector.Observe(second); len(changed) != 0 {
		t.Errorf("unchanged Observe = %v, want none", changed)
	}

	detector.Reset()
	if changed := detector.Observe(first); changed != nil {
		t.Errorf("Observe after Reset = %v, want nil", changed)
	}
}
