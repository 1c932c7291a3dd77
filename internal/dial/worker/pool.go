// Package worker implements the bounded FIFO pool that serializes
// state-changing DIAL operations (spec.md §4.5). It is grounded in the
// teacher's drain.Coordinator, which bounds concurrent session
// migrations with a golang.org/x/sync/semaphore.Weighted; this pool
// generalizes that to a FIFO queue with a fixed pending-depth cap and a
// "paused response" handoff instead of drain's fire-and-forget goroutine
// per task.
package worker

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// PendingQueueCap is the maximum number of tasks that may be queued
// ahead of the ones currently executing. Enqueue beyond this cap fails
// immediately (spec.md §4.5) so the caller can answer 403 synchronously.
const PendingQueueCap = 5

// Task is one state-changing operation. Run executes the operation; Done
// is called exactly once after Run returns, on the same goroutine that
// ran Run. The api handlers pass a no-op Done and instead release their
// held-open HTTP response through a result channel written by Run
// (spec.md §4.5, §5).
type Task struct {
	Run  func(ctx context.Context)
	Done func()
}

// Pool is a bounded, ordered work queue. Concurrency defaults to 1 (the
// source's single-worker default, spec.md §4.5) but can be raised; a
// semaphore bounds how many tasks run at once while a single dispatcher
// goroutine preserves FIFO order of the queue itself.
type Pool struct {
	sem    *semaphore.Weighted
	queue  chan *Task
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a pool with the given concurrency (>=1) and starts its
// dispatcher goroutine. Callers must call Close on shutdown.
func New(concurrency int64) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		sem:    semaphore.NewWeighted(concurrency),
		queue:  make(chan *Task, PendingQueueCap),
		ctx:    ctx,
		cancel: cancel,
	}

	go p.dispatch()
	return p
}

// Push enqueues a task. It returns false without blocking if the pending
// queue is already at PendingQueueCap — callers map that to HTTP 403
// (spec.md §4.5).
func (p *Pool) Push(t *Task) bool {
	select {
	case p.queue <- t:
		return true
	default:
		return false
	}
}

// Pending reports the current queue depth, for diagnostics and tests.
func (p *Pool) Pending() int {
	return len(p.queue)
}

// dispatch acquires a concurrency slot before pulling the next task off
// the queue, not after. That ordering keeps the channel buffer an exact
// reflection of "queued but not yet started" — otherwise a task could be
// pulled out of the channel while merely waiting for a slot, letting one
// extra task slip in past the advertised PendingQueueCap.
func (p *Pool) dispatch() {
	for {
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			return
		}

		select {
		case <-p.ctx.Done():
			p.sem.Release(1)
			return
		case t := <-p.queue:
			go p.run(t)
		}
	}
}

func (p *Pool) run(t *Task) {
	defer p.sem.Release(1)
	defer t.Done()
	t.Run(p.ctx)
}

// Close stops the dispatcher. In-flight tasks are allowed to finish;
// queued-but-undispatched tasks are abandoned.
func (p *Pool) Close() {
	p.cancel()
}
