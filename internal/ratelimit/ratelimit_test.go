package ratelimit

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		eventsPerSecond float64
		expectUnlimited bool
	}{
		{name: "unlimited_zero", eventsPerSecond: 0, expectUnlimited: true},
		{name: "unlimited_negative", eventsPerSecond: -1, expectUnlimited: true},
		{name: "limited_one_per_second", eventsPerSecond: 1},
		{name: "limited_ten_per_second", eventsPerSecond: 10},
		{name: "limited_fractional", eventsPerSecond: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := New(tt.eventsPerSecond)
			if limiter == nil {
				t.Fatal("New() returned nil")
			}

			limit := limiter.Limit()
			if tt.expectUnlimited {
				if limit != 0 {
					t.Errorf("Expected unlimited (0), got %f", limit)
				}
			} else if limit != tt.eventsPerSecond {
				t.Errorf("Expected limit %f, got %f", tt.eventsPerSecond, limit)
			}
		})
	}
}

func TestLimiter_Allow(t *testing.T) {
	t.Parallel()

	t.Run("unlimited_allows_all", func(t *testing.T) {
		limiter := New(0)

		for i := range 10 {
			if !limiter.Allow() {
				t.Errorf("Unlimited limiter should allow event %d", i)
			}
		}
	})

	t.Run("limited_respects_rate", func(t *testing.T) {
		limiter := New(1)

		if !limiter.Allow() {
			t.Error("First event should be allowed")
		}
		if limiter.Allow() {
			t.Error("Second immediate event should be throttled")
		}
	})
}

func TestLimiter_AllowAt(t *testing.T) {
	t.Parallel()

	limiter := New(2) // one event every 500ms
	start := time.Now()

	allowed := 0
	for ms := 0; ms < 2000; ms += 100 {
		if limiter.AllowAt(start.Add(time.Duration(ms) * time.Millisecond)) {
			allowed++
		}
	}

	// t=0, 500ms, 1000ms, 1500ms
	if allowed != 4 {
		t.Errorf("allowed %d events over 2s at 2/s, want 4", allowed)
	}
}
