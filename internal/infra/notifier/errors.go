package notifier

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// RateLimitError is a 429 from the webhook service, carrying the server's
// requested backoff.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("webhook rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError is a non-429 4xx from the webhook service. Not retryable;
// the payload or URL is wrong and will stay wrong.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError is a 5xx from the webhook service. Retryable.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// isRetryable reports whether an attempt is worth repeating. Server and
// network errors are; client errors are not. 429s are handled separately
// through the RetryAfter duration.
func isRetryable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return false
	}
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return false
	}
	return true
}

// retryAfterFrom reads the Retry-After header, falling back to a default
// when it is missing or unparsable.
func retryAfterFrom(resp *http.Response, fallback time.Duration) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
