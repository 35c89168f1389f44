package concurrency

import (
	"context"
	"time"

	"github.com/zielww/apollo/internal/constants"
)

// ThrottledWorker runs a job per argument, one after another, at most once per interval
type ThrottledWorker struct {
	interval    time.Duration
	jobCallback func(ctx context.Context, arg string) error
}

func NewThrottledWorker(interval time.Duration, jobCallback func(ctx context.Context, arg string) error) ThrottledWorker {
	if interval <= 0 {
		interval = constants.DefaultPushInterval
	}
	return ThrottledWorker{interval: interval, jobCallback: jobCallback}
}

// Run returns the errors of failed jobs keyed by their argument. Jobs not yet
// started when ctx is cancelled fail with the context error.
func (w *ThrottledWorker) Run(ctx context.Context, jobArgs []string) map[string]error {
	errs := map[string]error{}

	jobArgsChannel := make(chan string, len(jobArgs))
	for _, arg := range jobArgs {
		jobArgsChannel <- arg
	}
	close(jobArgsChannel)

	limiter := time.NewTicker(w.interval)
	defer limiter.Stop()

	for arg := range jobArgsChannel {
		select {
		case <-ctx.Done():
			errs[arg] = ctx.Err()
			continue
		case <-limiter.C:
		}
		if err := w.jobCallback(ctx, arg); err != nil {
			errs[arg] = err
		}
	}

	return errs
}
