package task

import (
	"time"
)

// Backoff is the retry policy for analyzer calls: a bounded attempt count
// with exponentially growing delays between attempts.
type Backoff struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// DefaultBackoff returns the standard policy: 3 attempts with delays of
// 2s, 3s, 4.5s between them.
func DefaultBackoff() Backoff {
	return Backoff{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		Multiplier:  1.5,
	}
}

// Delay returns the sleep before retrying after the given 1-based attempt:
// BaseDelay * Multiplier^(attempt-1).
func (b Backoff) Delay(attempt int) time.Duration {
	d := float64(b.BaseDelay)
	for i := 1; i < attempt; i++ {
		d *= b.Multiplier
	}
	return time.Duration(d)
}
