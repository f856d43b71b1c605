package object

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"testing"
	"time"

	"github.com/roach88/suiobject/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoop() *scheduler.Loop {
	return scheduler.NewLoop(scheduler.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestAsync_ReturnsImmediatelyThenResolves(t *testing.T) {
	loop := testLoop()
	o := New(nil, WithExecutor(loop))
	o.AddFunction("upper", func(v any) (any, error) { return "DONE", nil })

	f := o.Async("upper", "x")

	_, err := f.Result()
	assert.ErrorIs(t, err, ErrPending)

	require.Equal(t, 1, loop.RunPending())

	res, err := f.Result()
	require.NoError(t, err)
	got, ok := res.StringValue()
	require.True(t, ok)
	assert.Equal(t, "DONE", got)

	select {
	case <-f.Done():
	default:
		t.Fatal("Done should be closed after settling")
	}
}

func TestAsync_RejectsWithOriginalError(t *testing.T) {
	errBoom := errors.New("boom")
	loop := testLoop()
	o := New(nil, WithExecutor(loop))
	o.AddFunction("fail", func(any) (any, error) { return nil, errBoom })

	f := o.Async("fail", nil)
	loop.RunPending()

	res, err := f.Result()
	assert.Nil(t, res)
	assert.ErrorIs(t, err, errBoom)
}

func TestAsync_PanicRejectsWithInvocationError(t *testing.T) {
	loop := testLoop()
	o := New(nil, WithExecutor(loop))
	o.AddFunction("explode", func(any) (any, error) { panic("bad") })

	f := o.Async("explode", nil)
	loop.RunPending()

	_, err := f.Result()
	require.Error(t, err)
	assert.True(t, IsInvocationError(err))
}

func TestAsync_ReleasedOwnerResolvesEmpty(t *testing.T) {
	loop := testLoop()
	o := New(nil, WithExecutor(loop))
	called := false
	o.AddFunction("f", func(any) (any, error) {
		called = true
		return "ran", nil
	})

	f := o.Async("f", nil)
	o.Release()
	loop.RunPending()

	res, err := f.Result()
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
	assert.False(t, called)
}

//go:noinline
func asyncOnTemporary(loop *scheduler.Loop, called *bool) *Future {
	o := New(nil, WithExecutor(loop))
	o.AddFunction("f", func(any) (any, error) {
		*called = true
		return "ran", nil
	})
	return o.Async("f", nil)
}

func TestAsync_CollectedOwnerResolvesEmpty(t *testing.T) {
	loop := testLoop()
	called := false

	f := asyncOnTemporary(loop, &called)
	runtime.GC()
	runtime.GC()
	loop.RunPending()

	res, err := f.Result()
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
	assert.False(t, called)
}

func TestAsync_StoppedExecutor(t *testing.T) {
	loop := testLoop()
	loop.Stop()
	o := New(nil, WithExecutor(loop))

	_, err := o.Async("f", nil).Result()
	assert.ErrorIs(t, err, ErrExecutorClosed)
}

func TestAsyncWith_CapturesValueAtCallTime(t *testing.T) {
	loop := testLoop()
	o := New(map[string]any{"p": "first"}, WithExecutor(loop))
	o.AddFunction("echo", func(v any) (any, error) { return v, nil })

	f := o.AsyncWith("echo", "p")
	o.Add("p", "second")
	loop.RunPending()

	res, err := f.Result()
	require.NoError(t, err)
	got, _ := res.StringValue()
	assert.Equal(t, "first", got)
}

func TestAsync_DefaultExecutor(t *testing.T) {
	o := New(nil)
	o.AddFunction("f", func(any) (any, error) { return 7, nil })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := o.Async("f", nil).Await(ctx)
	require.NoError(t, err)
	n, ok := ValueAs[int](res)
	require.True(t, ok)
	assert.Equal(t, 7, n)
}

func TestFuture_AwaitHonorsContext(t *testing.T) {
	loop := testLoop()
	o := New(nil, WithExecutor(loop))

	f := o.Async("never-run", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = f.Result()
	assert.ErrorIs(t, err, ErrPending, "a cancelled wait must not settle the future")
}

func TestFuture_SettlesOnce(t *testing.T) {
	f := newFuture()
	f.settle(New("first"), nil)
	f.settle(nil, errors.New("late"))

	res, err := f.Result()
	require.NoError(t, err)
	got, _ := res.StringValue()
	assert.Equal(t, "first", got)
}

func TestFuture_OnComplete(t *testing.T) {
	f := newFuture()
	got := make(chan string, 1)
	f.OnComplete(func(o *Object, err error) {
		s, _ := o.StringValue()
		got <- s
	})

	f.settle(New("v"), nil)

	select {
	case s := <-got:
		assert.Equal(t, "v", s)
	case <-time.After(5 * time.Second):
		t.Fatal("OnComplete was not called")
	}
}
