// Package ratelimit throttles periodic reporting, such as progress lines.
package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

type Limiter struct {
	limiter *rate.Limiter
}

// New uses 0 or negative limit for no rate limiting.
func New(eventsPerSecond float64) *Limiter {
	if eventsPerSecond <= 0 {
		return &Limiter{
			limiter: rate.NewLimiter(rate.Inf, 1),
		}
	}

	// burst of 1: the first event passes, the rest are spaced by the rate
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(eventsPerSecond), 1),
	}
}

// Allow is non-blocking: it reports whether an event may happen now.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// AllowAt is Allow at an explicit instant.
func (l *Limiter) AllowAt(t time.Time) bool {
	return l.limiter.AllowN(t, 1)
}

func (l *Limiter) Limit() float64 {
	limit := l.limiter.Limit()
	if limit == rate.Inf {
		return 0 // Indicate no rate limiting
	}
	return float64(limit)
}
