// Package tasks provides a single-worker background queue with a
// completion signal.
//
// Statement processing is triggered by uploads but must not block the
// upload response. Instead of fire-and-forget goroutines, jobs go through
// a Runner so shutdown can drain them and tests can wait for completion
// deterministically.
package tasks

import (
	"context"
	"log/slog"
	"sync"
)

type job struct {
	name string
	fn   func(context.Context) error
}

// Runner executes submitted jobs sequentially on one worker goroutine.
// Job errors are logged, never propagated: background work is
// best-effort by contract.
type Runner struct {
	logger  *slog.Logger
	jobs    chan job
	wg      sync.WaitGroup
	stopped chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewRunner creates a runner and starts its worker.
func NewRunner(logger *slog.Logger, buffer int) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if buffer <= 0 {
		buffer = 64
	}
	r := &Runner{
		logger:  logger,
		jobs:    make(chan job, buffer),
		stopped: make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Runner) run() {
	for j := range r.jobs {
		if err := j.fn(context.Background()); err != nil {
			r.logger.Error("background job failed", "job", j.name, "error", err)
		}
		r.wg.Done()
	}
	close(r.stopped)
}

// Submit enqueues a job. It blocks only when the queue buffer is full.
// Submitting after Close is a no-op.
func (r *Runner) Submit(name string, fn func(context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.logger.Warn("job submitted after shutdown", "job", name)
		return
	}
	r.wg.Add(1)
	r.jobs <- job{name: name, fn: fn}
}

// Wait blocks until every job submitted so far has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close stops accepting jobs, drains the queue and waits for the worker
// to exit.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.stopped
		return
	}
	r.closed = true
	close(r.jobs)
	r.mu.Unlock()
	<-r.stopped
}
