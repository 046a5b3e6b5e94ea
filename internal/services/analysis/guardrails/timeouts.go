// Package guardrails holds the time budgets of one analysis run
package guardrails

import (
	"context"
	"time"
)

// Timeouts bounds a run. Zero values mean no extra timeout at that level
type Timeouts struct {
	// Request is the overall budget of one analysis
	Request time.Duration

	// Month caps fetching and decoding one monthly export
	Month time.Duration
}

// WithRequest returns a context limited by the request budget without extending any parent deadline
func WithRequest(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Request)
}

// ForMonth returns a sub context for one month bounded by Month and any remaining parent budget
func ForMonth(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Month)
}

// Remaining returns the time until the deadline on ctx or zero when none is set or already expired
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return 0
}

// withChildTimeout picks the tighter of d and the parent remainder; never extends the parent
func withChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
