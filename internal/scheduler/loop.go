package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Loop is a single-worker FIFO executor.
//
// Tasks run one at a time on the goroutine that calls Run, in the order they
// were submitted. Each task is stamped with a sequence number from a
// monotonic counter so logs can be correlated with submission order.
type Loop struct {
	queue  *taskQueue
	seq    atomic.Int64
	logger *slog.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLogger sets the logger for loop lifecycle and task panics.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// NewLoop creates a stopped loop. Call Run to start processing.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{queue: newTaskQueue()}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Submit queues task. Returns false once the loop has been stopped.
func (l *Loop) Submit(task func()) bool {
	if task == nil {
		return false
	}
	seq := l.seq.Add(1)
	ok := l.queue.Enqueue(task)
	if ok {
		l.logger.Debug("task queued", "seq", seq)
	}
	return ok
}

// Pending returns the number of queued tasks that have not started.
func (l *Loop) Pending() int {
	return l.queue.Len()
}

// Run processes tasks until ctx is cancelled or Stop is called and the
// queue has drained. Must be called from exactly one goroutine.
//
// Cancellation closes the queue and runs every task accepted before the
// close, so a successful Submit always runs before Run returns.
//
// A panicking task is logged and does not stop the loop.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Debug("loop starting")

	for {
		if task, ok := l.queue.TryDequeue(); ok {
			l.runTask(task)
			continue
		}

		select {
		case <-ctx.Done():
			l.logger.Debug("loop stopping: context cancelled")
			l.queue.Close()
			for {
				task, ok := l.queue.TryDequeue()
				if !ok {
					break
				}
				l.runTask(task)
			}
			return ctx.Err()

		case _, open := <-l.queue.Wait():
			// A closed signal channel means Stop was called; drain first.
			if !open && l.queue.Len() == 0 {
				l.logger.Debug("loop stopping: queue closed")
				return nil
			}
		}
	}
}

// RunPending runs the tasks that are queued right now on the calling
// goroutine and returns how many ran. Tasks submitted while draining are
// left for the next call. Intended for tests that step the loop manually.
func (l *Loop) RunPending() int {
	n := l.queue.Len()
	ran := 0
	for ; ran < n; ran++ {
		task, ok := l.queue.TryDequeue()
		if !ok {
			break
		}
		l.runTask(task)
	}
	return ran
}

func (l *Loop) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked", "panic", r)
		}
	}()
	task()
}

// Stop stops accepting tasks. Run returns after draining what is queued.
func (l *Loop) Stop() {
	l.queue.Close()
}
