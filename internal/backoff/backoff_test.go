package backoff

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errRetryable = errors.New("rate limited")

func isRetryable(err error) bool { return errors.Is(err, errRetryable) }

func fastPolicy(maxRetries int) Policy {
	return Policy{
		MaxRetries:  maxRetries,
		BaseDelay:   time.Millisecond,
		IsRetryable: isRetryable,
	}
}

func TestPolicy_SucceedsAfterRetries(t *testing.T) {
	attempts := 0
	err := fastPolicy(3).Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errRetryable
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestPolicy_ExhaustsRetries(t *testing.T) {
	attempts := 0
	err := fastPolicy(3).Do(context.Background(), func() error {
		attempts++
		return errRetryable
	})
	if err == nil {
		t.Fatal("want error after exhausting retries")
	}
	if !errors.Is(err, errRetryable) {
		t.Errorf("err = %v, want wrapped retryable error", err)
	}
	// 1 initial attempt + 3 retries
	if attempts != 4 {
		t.Errorf("attempts = %d, want 4", attempts)
	}
}

func TestPolicy_NonRetryableFailsImmediately(t *testing.T) {
	fatal := errors.New("schema mismatch")
	attempts := 0
	err := fastPolicy(3).Do(context.Background(), func() error {
		attempts++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Errorf("err = %v, want %v", err, fatal)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestPolicy_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	policy := Policy{MaxRetries: 10, BaseDelay: 50 * time.Millisecond, IsRetryable: isRetryable}
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := policy.Do(ctx, func() error {
		attempts++
		return errRetryable
	})
	if err == nil {
		t.Fatal("want error on cancellation")
	}
	if attempts > 3 {
		t.Errorf("attempts = %d, cancellation did not stop retries", attempts)
	}
}

func TestPolicy_DelayDoubles(t *testing.T) {
	p := Policy{MaxRetries: 3, BaseDelay: 100 * time.Millisecond}
	for n := uint(0); n < 3; n++ {
		d := p.delay(n, nil, nil)
		base := float64(int64(100*time.Millisecond) << n)
		if float64(d) < base*(1-jitterFraction)-1 || float64(d) > base*(1+jitterFraction)+1 {
			t.Errorf("delay(%d) = %v, outside ±20%% of %v", n, d, time.Duration(base))
		}
	}
}
