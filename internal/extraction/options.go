package extraction

import (
	"math/rand/v2"
	"time"
)

type settings struct {
	now    func() time.Time
	random func(n int) int
}

func newSettings(opts []Option) settings {
	s := settings{
		now:    time.Now,
		random: rand.IntN,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures an extractor.
type Option func(*settings)

// WithClock overrides the source of the current date.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRandom overrides the generator for fallback document numbers. It must
// return a value in [0, n).
func WithRandom(random func(n int) int) Option {
	return func(s *settings) {
		if random != nil {
			s.random = random
		}
	}
}
