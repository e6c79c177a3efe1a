package enhance

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// APIError is the base error for rewrite failures reported by the provider.
type APIError struct {
	Code    int
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("enhance error %d: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("enhance error %d: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.Cause }

// RateLimitError is returned when the provider rate-limits the request.
// RetryAfter carries the provider's requested delay when one was sent.
type RateLimitError struct {
	APIError
	RetryAfter time.Duration
}

// ServerError is returned on 5xx responses from the provider.
type ServerError struct{ APIError }

// AuthError is returned on authentication/authorization failures.
type AuthError struct{ APIError }

// Retryable reports whether the error is transient.
func Retryable(err error) bool {
	var rl *RateLimitError
	var se *ServerError
	return errors.As(err, &rl) || errors.As(err, &se)
}

// withRetry retries fn for transient failures. Prompt rewrites are
// interactive, so backoff starts sub-second and is capped low; a
// provider-supplied Retry-After overrides the computed delay.
func withRetry(ctx context.Context, maxAttempts int, fn func() error) error {
	var lastErr error
	for i := range maxAttempts {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !Retryable(lastErr) {
			return lastErr
		}
		if i == maxAttempts-1 {
			break
		}
		delay := min(400*time.Millisecond<<uint(i), 8*time.Second)
		var rl *RateLimitError
		if errors.As(lastErr, &rl) && rl.RetryAfter > 0 {
			delay = rl.RetryAfter
		}
		delay += time.Duration(rand.Float64() * 0.25 * float64(delay))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", maxAttempts, lastErr)
}
