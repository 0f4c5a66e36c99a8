package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultRetryAfter applies when a provider rate limits without saying for
// how long.
const DefaultRetryAfter = time.Minute

var errCircuitOpen = errors.New("circuit open")

// RateLimitError reports that a provider refused a completion because of
// rate limiting. Model is empty when the provider was never reached.
type RateLimitError struct {
	Provider   string
	Model      string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	name := e.Provider
	if e.Model != "" {
		name += "/" + e.Model
	}
	return fmt.Sprintf("%s rate limited (retry after %s): %v", name, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. A non-positive retryAfter
// becomes DefaultRetryAfter.
func NewRateLimitError(provider, model string, retryAfter time.Duration, err error) *RateLimitError {
	if retryAfter <= 0 {
		retryAfter = DefaultRetryAfter
	}
	return &RateLimitError{
		Provider:   provider,
		Model:      model,
		RetryAfter: retryAfter,
		Err:        err,
	}
}

// RetryAfter reads a Retry-After header given in seconds or as an HTTP date.
// A missing, malformed or past value yields 0.
func RetryAfter(h http.Header, now time.Time) time.Duration {
	val := strings.TrimSpace(h.Get("Retry-After"))
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(val); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

// Truncate shortens provider payloads for error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
