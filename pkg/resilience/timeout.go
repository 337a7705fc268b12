package resilience

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/errors"
)

// WithTimeout runs fn under a context that expires after timeout. A zero or
// negative timeout runs fn directly. When the limit passes first the error
// matches both apperrors.ErrTimeout and context.DeadlineExceeded; fn keeps
// running in the background until it notices its context.
func WithTimeout(ctx context.Context, timeout time.Duration, op string, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(tctx)
	}()
	select {
	case err := <-done:
		return err
	case <-tctx.Done():
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: cancelled: %w", op, err)
		}
		return fmt.Errorf("%s: %w after %v: %w", op, apperrors.ErrTimeout, timeout, context.DeadlineExceeded)
	}
}
