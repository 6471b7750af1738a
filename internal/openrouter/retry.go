package openrouter

import (
	"math"
	"math/rand/v2"
	"time"
)

// Policy controls retries of transient failures. The zero value is not
// usable; start from DefaultPolicy.
type Policy struct {
	// MaxAttempts is the total number of tries, the first one included.
	MaxAttempts int
	// BaseDelay is the wait after the first failed attempt.
	BaseDelay time.Duration
	// Multiplier grows the delay after every further failure.
	Multiplier float64
	// MaxDelay caps the grown delay. Zero means no cap.
	MaxDelay time.Duration
	// Jitter adds up to this fraction of the delay as random slack,
	// spreading out clients that fail in lockstep. Zero disables it.
	Jitter float64
}

// DefaultPolicy matches the API's published rate-limit guidance: three tries
// with exponential backoff starting at one second.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Multiplier:  2,
		MaxDelay:    30 * time.Second,
	}
}

// Delay returns the wait before the retry that follows the given 1-based
// attempt. With Jitter zero it is a pure function of the attempt number.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	if p.Jitter > 0 {
		d += rand.Float64() * p.Jitter * d
	}
	return time.Duration(d)
}
