package utils

import (
	"context"
	"time"
)

// Poll invokes pred up to attempts times, sleeping delay between tries,
// and reports whether pred ever returned true. Exhausting the attempt
// budget is not an error; callers decide what exhaustion means. The
// context is only checked between attempts, so a running pred is never
// interrupted.
func Poll(ctx context.Context, attempts int, delay time.Duration, pred func() bool) bool {
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if ctx.Err() != nil {
				return false
			}
			time.Sleep(delay)
		}
		if pred() {
			return true
		}
	}
	return false
}
