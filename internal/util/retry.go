// ABOUTME: Retry pacing for embedding backend calls
// ABOUTME: Exponential window with upper-half jitter, capped at Max
package util

import (
	"math/rand"
	"time"
)

// Backoff paces retries of a failing backend call. The window doubles per
// attempt from Base up to Max.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
}

// Delay returns the wait before the given attempt. Attempt 0 is the first
// try and never waits. The delay is drawn uniformly from the upper half of
// the window, so concurrent retriers spread out without any of them coming
// back early.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt <= 0 || b.Base <= 0 {
		return 0
	}
	if attempt > 20 {
		attempt = 20
	}
	window := b.Base << uint(attempt-1)
	if window <= 0 || (b.Max > 0 && window > b.Max) {
		window = b.Max
	}
	half := window / 2
	return half + time.Duration(rand.Int63n(int64(half) + 1))
}
