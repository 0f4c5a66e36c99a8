package llm

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"docanalyzer/internal/logger"
	"docanalyzer/internal/port"
)

// CircuitBreaker wraps a LanguageModel and stops calling it while the
// provider is rate limited. It never retries.
type CircuitBreaker struct {
	next    port.LanguageModel
	name    string
	now     func() time.Time
	log     *zap.Logger
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
	model   string    // model named by the error that opened the circuit
}

// NewCircuitBreaker wraps next. name is used in errors and logs.
func NewCircuitBreaker(next port.LanguageModel, name string, log *zap.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		next: next,
		name: name,
		now:  time.Now,
		log:  logger.OrNop(log).Named("llm"),
	}
}

// WithClock replaces the time source (used in tests).
func (c *CircuitBreaker) WithClock(now func() time.Time) *CircuitBreaker {
	c.now = now
	return c
}

// OpenUntil reports when the circuit closes again, and whether it is open.
func (c *CircuitBreaker) OpenUntil() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && c.now().Before(c.resetAt)
}

func (c *CircuitBreaker) open(resetAt time.Time, model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
	c.model = model
}

func (c *CircuitBreaker) Complete(ctx context.Context, input port.CompletionInput) (*port.CompletionOutput, error) {
	if resetAt, open := c.OpenUntil(); open {
		c.mu.RLock()
		model := c.model
		c.mu.RUnlock()
		return nil, NewRateLimitError(c.name, model, resetAt.Sub(c.now()), errCircuitOpen)
	}

	out, err := c.next.Complete(ctx, input)
	if err == nil {
		return out, nil
	}

	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		resetAt := c.now().Add(rlErr.RetryAfter)
		c.open(resetAt, rlErr.Model)
		c.log.Warn("llm.CircuitBreaker: provider rate limited, circuit opened",
			zap.String("provider", c.name), zap.String("model", rlErr.Model), zap.Time("reset_at", resetAt))
	}
	return nil, err
}
