// ABOUTME: Tests for the backoff helper
// ABOUTME: Verifies growth, jitter bounds, and the 30s cap
package util

import (
	"testing"
	"time"
)

func TestBackoffFirstAttemptIsZero(t *testing.T) {
	b := Backoff{Base: time.Second, Max: 30 * time.Second}
	if got := b.Delay(0); got != 0 {
		t.Errorf("Delay(0) = %v, want 0", got)
	}
	if got := b.Delay(-1); got != 0 {
		t.Errorf("Delay(-1) = %v, want 0", got)
	}
}

func TestBackoffStaysInWindow(t *testing.T) {
	b := Backoff{Base: 100 * time.Millisecond, Max: 30 * time.Second}
	for attempt := 1; attempt <= 4; attempt++ {
		window := b.Base << uint(attempt-1)
		got := b.Delay(attempt)

		// Delays draw from the upper half of the doubling window.
		if got < window/2 || got > window {
			t.Errorf("Delay(%d) = %v, want within [%v, %v]", attempt, got, window/2, window)
		}
	}
}

func TestBackoffCapped(t *testing.T) {
	b := Backoff{Base: 2 * time.Second, Max: 30 * time.Second}
	got := b.Delay(20)
	if got < b.Max/2 || got > b.Max {
		t.Errorf("Delay at high attempt = %v, want within [%v, %v]", got, b.Max/2, b.Max)
	}
}
