package respgen

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/getmockd/mockd/pkg/mapping"
)

// ResolveDelay computes the delay to apply for one response: the
// mapping's fixed delay, or a uniform draw from its inclusive random delay
// range, whichever is set (spec.md 4.10). Exactly one of Timing's two
// fields is expected to be set; if both are, the fixed delay wins.
func ResolveDelay(timing mapping.Timing) time.Duration {
	if timing.FixedDelay > 0 {
		return timing.FixedDelay
	}
	if timing.RandomDelay != nil {
		r := timing.RandomDelay
		if r.Max <= r.Min {
			return r.Min
		}
		span := int64(r.Max - r.Min)
		return r.Min + time.Duration(rand.Int64N(span+1))
	}
	return 0
}

// ApplyDelay sleeps for d, honoring ctx cancellation: a canceled context
// (client disconnect, server shutdown) aborts the wait early and reports
// false, so the caller can log the response as canceled (spec.md 5).
func ApplyDelay(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
