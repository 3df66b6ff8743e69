package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	transient bool
}

func (s *stubClassifier) IsTransient(err error) bool { return s.transient }

type stubStrategy struct {
	delay       time.Duration
	maxAttempts int
}

func (s *stubStrategy) NextDelay(attempt int) time.Duration { return s.delay }
func (s *stubStrategy) MaxAttempts() int                    { return s.maxAttempts }

func TestExecutor_SuccessFirstAttempt(t *testing.T) {
	e := NewExecutor(&stubClassifier{transient: true}, &stubStrategy{maxAttempts: 3})

	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecutor_FatalErrorNoRetry(t *testing.T) {
	e := NewExecutor(&stubClassifier{transient: false}, &stubStrategy{maxAttempts: 3})

	fatal := errors.New("syntax error")
	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return fatal
	})

	assert.Equal(t, fatal, err)
	assert.Equal(t, 1, calls)
}

func TestExecutor_RetriesUntilSuccess(t *testing.T) {
	e := NewExecutor(&stubClassifier{transient: true}, &stubStrategy{delay: time.Millisecond, maxAttempts: 5})

	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecutor_ExhaustsAttempts(t *testing.T) {
	e := NewExecutor(&stubClassifier{transient: true}, &stubStrategy{delay: time.Millisecond, maxAttempts: 2})

	transient := errors.New("connection refused")
	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return transient
	})

	assert.Equal(t, transient, err)
	// Initial attempt plus two retries.
	assert.Equal(t, 3, calls)
}

func TestExecutor_ContextCancellation(t *testing.T) {
	e := NewExecutor(&stubClassifier{transient: true}, &stubStrategy{delay: time.Minute, maxAttempts: 3})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := e.Execute(ctx, func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecutor_OnRetryCallback(t *testing.T) {
	base := NewExecutor(&stubClassifier{transient: true}, &stubStrategy{delay: time.Millisecond, maxAttempts: 2})

	var attempts []int
	e := base.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		attempts = append(attempts, attempt)
	})

	_ = e.Execute(context.Background(), func(ctx context.Context) error { //nolint:errcheck
		return errors.New("connection refused")
	})

	assert.Equal(t, []int{0, 1}, attempts)
	assert.Nil(t, base.onRetry)
}

func TestNewExecutor_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, &stubStrategy{}) })
	assert.Panics(t, func() { NewExecutor(&stubClassifier{}, nil) })
}
