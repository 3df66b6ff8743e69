package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// midpoint keeps jitter arithmetic deterministic: (0.5-0.5)*2 = 0, so the
// computed delay is the pure exponential value.
func midpoint() float64 { return 0.5 }

func TestExponentialBackoff_Defaults(t *testing.T) {
	b := NewExponentialBackoff(3)

	assert.Equal(t, 3, b.MaxAttempts())
	assert.Equal(t, 100*time.Millisecond, b.InitialDelay())
	assert.Equal(t, 30*time.Second, b.MaxDelay())
	assert.Equal(t, 0.1, b.Jitter())
}

func TestExponentialBackoff_Growth(t *testing.T) {
	b := NewExponentialBackoff(5,
		WithInitialDelay(100*time.Millisecond),
		WithJitterFunc(midpoint),
	)

	assert.Equal(t, 100*time.Millisecond, b.NextDelay(0))
	assert.Equal(t, 200*time.Millisecond, b.NextDelay(1))
	assert.Equal(t, 400*time.Millisecond, b.NextDelay(2))
	assert.Equal(t, 800*time.Millisecond, b.NextDelay(3))
}

func TestExponentialBackoff_MaxDelayCap(t *testing.T) {
	b := NewExponentialBackoff(10,
		WithInitialDelay(1*time.Second),
		WithMaxDelay(5*time.Second),
		WithJitterFunc(midpoint),
	)

	assert.Equal(t, 5*time.Second, b.NextDelay(6))
	assert.Equal(t, 5*time.Second, b.NextDelay(20))
}

func TestExponentialBackoff_JitterBounds(t *testing.T) {
	low := NewExponentialBackoff(3,
		WithInitialDelay(1*time.Second),
		WithJitter(0.1),
		WithJitterFunc(func() float64 { return 0.0 }),
	)
	high := NewExponentialBackoff(3,
		WithInitialDelay(1*time.Second),
		WithJitter(0.1),
		WithJitterFunc(func() float64 { return 0.999 }),
	)

	// jitter 0.1 keeps delays within +/- 10% of the base value
	assert.Equal(t, 900*time.Millisecond, low.NextDelay(0))
	assert.InDelta(t, 1100, float64(high.NextDelay(0).Milliseconds()), 10)
}

func TestExponentialBackoff_ZeroJitter(t *testing.T) {
	b := NewExponentialBackoff(3, WithInitialDelay(250*time.Millisecond), WithJitter(0))

	// Without jitter the delay sequence is exact, no random source needed.
	assert.Equal(t, 250*time.Millisecond, b.NextDelay(0))
	assert.Equal(t, 500*time.Millisecond, b.NextDelay(1))
}

func TestExponentialBackoff_Multiplier(t *testing.T) {
	b := NewExponentialBackoff(3,
		WithInitialDelay(100*time.Millisecond),
		WithMultiplier(3.0),
		WithJitterFunc(midpoint),
	)

	assert.Equal(t, 100*time.Millisecond, b.NextDelay(0))
	assert.Equal(t, 300*time.Millisecond, b.NextDelay(1))
	assert.Equal(t, 900*time.Millisecond, b.NextDelay(2))
}
