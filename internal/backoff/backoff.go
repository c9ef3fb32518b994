// Package backoff provides the single retry policy applied to every
// outbound call. Call sites parameterize the policy instead of
// duplicating retry loops.
package backoff

import (
	"context"
	"math/rand"
	"time"

	"github.com/avast/retry-go/v4"
)

// jitterFraction is the ± spread applied to each computed delay.
const jitterFraction = 0.2

// Policy describes how a call site retries. The zero value never
// retries; use New for the standard rate-limit policy.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// BaseDelay is the first retry delay; each subsequent delay doubles.
	BaseDelay time.Duration
	// IsRetryable decides which errors are worth retrying. Errors it
	// rejects fail immediately.
	IsRetryable func(error) bool
}

// New returns the standard policy used against rate-limited APIs:
// 3 retries, delays doubling from 2s, ±20% jitter.
func New(isRetryable func(error) bool) Policy {
	return Policy{
		MaxRetries:  3,
		BaseDelay:   2 * time.Second,
		IsRetryable: isRetryable,
	}
}

// Do runs fn with the policy's retry schedule. Context cancellation stops
// retries immediately; non-retryable errors are returned as-is on the
// attempt that produced them.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	retryIf := p.IsRetryable
	if retryIf == nil {
		retryIf = func(error) bool { return false }
	}

	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(uint(p.MaxRetries)+1),
		retry.RetryIf(retryIf),
		retry.DelayType(p.delay),
		retry.LastErrorOnly(true),
	)
}

// delay computes the n-th retry delay: BaseDelay * 2^n with ±20% jitter.
func (p Policy) delay(n uint, _ error, _ *retry.Config) time.Duration {
	d := p.BaseDelay << n
	if d <= 0 {
		return 0
	}
	jitter := 1 - jitterFraction + 2*jitterFraction*rand.Float64()
	return time.Duration(float64(d) * jitter)
}
