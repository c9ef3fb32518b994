// Package providers implements the external vision/text completion
// capability consumed by the OCR orchestrator, plus the rate limiting
// and output validation that go with it.
package providers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// VisionClient is the completion capability: a system prompt, user
// content and optional page images in, transcribed text out.
//
// Implementations must return a *RateLimitError (possibly wrapped) when
// the upstream API reports a rate-limit condition, so callers can
// distinguish retryable pressure from terminal failures.
type VisionClient interface {
	// Complete sends one completion request. images are raw JPEG/PNG
	// bytes attached to the user message.
	Complete(ctx context.Context, systemPrompt, userContent string, images [][]byte) (string, error)

	// Name returns the client identifier (e.g. "openai", "passthrough").
	Name() string
}

// RateLimitError reports an upstream rate-limit response.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
	StatusCode int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
	}
	return e.Message
}

// IsRateLimitError unwraps err looking for a RateLimitError.
func IsRateLimitError(err error) (*RateLimitError, bool) {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return rle, true
	}
	return nil, false
}

// IsRateLimited reports whether err carries a RateLimitError. It is the
// predicate form used by retry policies and status classification.
func IsRateLimited(err error) bool {
	_, ok := IsRateLimitError(err)
	return ok
}

// parseRetryAfter parses a Retry-After header value (seconds form only).
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
