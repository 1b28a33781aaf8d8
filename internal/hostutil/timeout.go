// Package hostutil carries the one piece of host-level concurrency
// control the proof engine needs: racing a query against a deadline
// without the engine itself having to know about time.
package hostutil

import (
	"context"
	"fmt"
)

// WithTimeout runs fn on its own goroutine and races it against ctx.
// If fn returns first, its error is returned. If ctx is done first
// (deadline exceeded or caller cancellation), WithTimeout returns
// immediately with that error; fn's goroutine is left to finish on its
// own, since the proof search has no cooperative cancellation point
// inside it.
//
// This is the one shape the engine's single-threaded, synchronous
// search (pkg/engine) needs from a host: an external deadline, not an
// internal worker pool.
func WithTimeout(ctx context.Context, description string, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%s: timed out: %w", description, ctx.Err())
		}
		return ctx.Err()
	}
}
