package concurrency_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zielww/apollo/internal/concurrency"
)

func Test_ThrottledWorker_Run(t *testing.T) {
	var seen []string
	worker := concurrency.NewThrottledWorker(10*time.Millisecond, func(_ context.Context, arg string) error {
		seen = append(seen, arg)
		if arg == "b" {
			return errors.New("unreachable")
		}
		return nil
	})

	start := time.Now()
	errs := worker.Run(context.Background(), []string{"a", "b", "c"})
	elapsed := time.Since(start)

	assert.Equal(t, []string{"a", "b", "c"}, seen)
	require.Len(t, errs, 1)
	assert.EqualError(t, errs["b"], "unreachable")

	// one job per tick
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

func Test_ThrottledWorker_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	worker := concurrency.NewThrottledWorker(time.Hour, func(_ context.Context, _ string) error {
		called = true
		return nil
	})

	errs := worker.Run(ctx, []string{"a", "b"})
	assert.False(t, called)
	assert.ErrorIs(t, errs["a"], context.Canceled)
	assert.ErrorIs(t, errs["b"], context.Canceled)
}

func Test_ThrottledWorker_NoJobs(t *testing.T) {
	worker := concurrency.NewThrottledWorker(0, func(_ context.Context, _ string) error { return nil })
	assert.Empty(t, worker.Run(context.Background(), nil))
}
