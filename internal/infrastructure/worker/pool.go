// Package worker provides the bounded background job pool that runs
// document processing off the webhook request path.
package worker

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// ErrQueueFull is returned by Submit when the queue has no room.
var ErrQueueFull = errors.New("worker queue is full")

// Job is a unit of background work.
type Job func(ctx context.Context)

// Pool runs submitted jobs on a fixed number of workers over a bounded
// queue. Implements the dispatch.JobQueue interface.
type Pool struct {
	jobs    chan Job
	workers int
	logger  *slog.Logger
}

// NewPool creates a pool with the given worker count and queue size.
func NewPool(workers, queueSize int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		logger:  logger,
	}
}

// Submit enqueues a job without blocking. Returns ErrQueueFull when
// the queue is saturated; the caller decides how to degrade.
func (p *Pool) Submit(job func(ctx context.Context)) error {
	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run starts the workers and blocks until ctx is canceled and all
// in-flight jobs have finished. Jobs already running when shutdown
// begins are allowed to complete.
func (p *Pool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		id := i
		g.Go(func() error {
			p.worker(ctx, id)
			return nil
		})
	}
	return g.Wait()
}

func (p *Pool) worker(ctx context.Context, id int) {
	p.logger.Debug("worker started", "worker_id", id)
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("worker stopping", "worker_id", id)
			return
		case job := <-p.jobs:
			p.safeRun(ctx, job)
		}
	}
}

// safeRun executes a job detached from the shutdown signal, so a job
// picked up just before cancellation still finishes cleanly.
func (p *Pool) safeRun(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("job panicked", "panic", r)
		}
	}()
	job(context.WithoutCancel(ctx))
}

// QueueDepth reports the number of jobs waiting to run.
func (p *Pool) QueueDepth() int {
	return len(p.jobs)
}
