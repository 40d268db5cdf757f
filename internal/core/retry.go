package core

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy is the shared backoff policy applied to transient
// collaborator failures: exponential backoff with jitter and a fixed
// attempt budget. Permanent failures bypass it entirely.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	Jitter         time.Duration
}

// DefaultRetryPolicy matches the production defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		Jitter:         250 * time.Millisecond,
	}
}

func (p RetryPolicy) backoff() retry.Backoff {
	initial := p.InitialBackoff
	if initial <= 0 {
		initial = time.Millisecond
	}
	b := retry.NewExponential(initial)
	if p.Jitter > 0 {
		b = retry.WithJitter(p.Jitter, b)
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return retry.WithMaxRetries(uint64(attempts-1), b)
}

// DoTransient runs fn, retrying only failures carrying the transient
// classification until the attempt budget is exhausted. Any other error
// aborts immediately.
func (p RetryPolicy) DoTransient(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			if IsTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}
