package object

import (
	"context"
	"errors"
	"sync"
	"weak"

	"github.com/roach88/suiobject/internal/scheduler"
)

// Executor runs scheduled work off the caller's goroutine.
// Submit returns false if the task was rejected.
//
// scheduler.Go and *scheduler.Loop implement it.
type Executor interface {
	Submit(task func()) bool
}

// ErrPending is returned by Future.Result before the future settles.
var ErrPending = errors.New("future pending")

// Future is the eventual result of an async invocation.
// It settles exactly once, either resolved with a container or rejected
// with an error.
type Future struct {
	done  chan struct{}
	once  sync.Once
	value *Object
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// settle records the outcome. Later calls are ignored.
func (f *Future) settle(value *Object, err error) {
	f.once.Do(func() {
		f.value, f.err = value, err
		close(f.done)
	})
}

// Done is closed once the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx ends. A ctx ending does not
// cancel the invocation; the future stays pending for other waiters.
func (f *Future) Await(ctx context.Context) (*Object, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome without blocking, or ErrPending.
func (f *Future) Result() (*Object, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
		return nil, ErrPending
	}
}

// OnComplete runs fn on its own goroutine once the future settles.
func (f *Future) OnComplete(fn func(*Object, error)) {
	go func() {
		<-f.done
		fn(f.value, f.err)
	}()
}

// Async schedules the named function on the container's executor and
// returns immediately. A nil value is replaced by an empty container.
//
// Unlike Run, failures are surfaced: the future is rejected with the error
// the function returned, or an *InvocationError if it panicked.
//
// The container is held weakly while the call is queued. If it has been
// collected or released by the time the call starts, the future resolves
// with an empty container as if no function were registered.
func (o *Object) Async(name string, value any) *Future {
	if value == nil {
		value = New(nil)
	}
	return o.schedule(name, value)
}

// AsyncWith is Async with the named internal value as the argument.
// The value is captured when AsyncWith is called, not when the call runs.
func (o *Object) AsyncWith(name, internalName string) *Future {
	return o.schedule(name, o.Variable(internalName))
}

func (o *Object) schedule(name string, arg any) *Future {
	f := newFuture()

	o.mu.RLock()
	exec := o.executor
	o.mu.RUnlock()
	if exec == nil {
		exec = scheduler.Go{}
	}

	// The task must not capture o, only the weak pointer.
	wp := weak.Make(o)
	task := func() {
		owner := wp.Value()
		if owner == nil || owner.Released() {
			f.settle(New(nil), nil)
			return
		}
		result, err := call(name, owner.Function(name), arg)
		if err != nil {
			owner.log().Debug("async function failed",
				"function", name,
				"error", err,
			)
			f.settle(nil, err)
			return
		}
		f.settle(owner.derive(result), nil)
	}

	if !exec.Submit(task) {
		f.settle(nil, ErrExecutorClosed)
	}
	return f
}
