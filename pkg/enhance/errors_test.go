package enhance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestRetryable(t *testing.T) {
	base := APIError{Code: 500, Message: "overloaded"}
	if !Retryable(&ServerError{APIError: base}) {
		t.Error("server errors should be retryable")
	}
	if !Retryable(&RateLimitError{APIError: APIError{Code: 429, Message: "slow down"}}) {
		t.Error("rate limits should be retryable")
	}
	if Retryable(&AuthError{APIError: APIError{Code: 401, Message: "bad key"}}) {
		t.Error("auth failures should not be retryable")
	}
	if Retryable(fmt.Errorf("plain")) {
		t.Error("untyped errors should not be retryable")
	}
}

func TestRetryable_Wrapped(t *testing.T) {
	err := fmt.Errorf("rewrite: %w", &ServerError{APIError: APIError{Code: 503, Message: "down"}})
	if !Retryable(err) {
		t.Error("wrapped server error should stay retryable")
	}
}

func TestWithRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("err = %v, calls = %d; want nil, 1", err, calls)
	}
}

func TestWithRetry_NonRetryableShortCircuits(t *testing.T) {
	calls := 0
	authErr := &AuthError{APIError: APIError{Code: 401, Message: "bad key"}}
	err := withRetry(context.Background(), 3, func() error {
		calls++
		return authErr
	})
	if !errors.Is(err, authErr) {
		t.Errorf("err = %v, want the auth error unmodified", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries on auth failure)", calls)
	}
}

func TestWithRetry_HonorsRetryAfter(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 2, func() error {
		calls++
		return &RateLimitError{
			APIError:   APIError{Code: 429, Message: "slow down"},
			RetryAfter: time.Millisecond,
		}
	})
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if err == nil || !strings.Contains(err.Error(), "gave up after 2 attempts") {
		t.Errorf("err = %v, want exhaustion error", err)
	}
}

func TestWithRetry_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, 5, func() error {
		return &ServerError{APIError: APIError{Code: 503, Message: "down"}}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
