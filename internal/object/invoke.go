package object

import (
	"errors"
	"fmt"
)

// Func is a named function registered on a container.
// It takes one untyped input and returns one untyped output or an error.
type Func func(any) (any, error)

// ErrExecutorClosed rejects async calls submitted to a stopped executor.
var ErrExecutorClosed = errors.New("executor closed")

// InvocationError reports a function that panicked.
// Errors returned by a function are passed through unwrapped.
type InvocationError struct {
	Function string
	Panic    any
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("function %q panicked: %v", e.Function, e.Panic)
}

// IsInvocationError reports whether err is or wraps an InvocationError.
func IsInvocationError(err error) bool {
	var ie *InvocationError
	return errors.As(err, &ie)
}

// Function returns the function registered under name, or a no-op that
// ignores its input and returns an empty container. Lookup never fails.
func (o *Object) Function(name string) Func {
	o.mu.RLock()
	fn, ok := o.functions[name]
	o.mu.RUnlock()
	if ok && fn != nil {
		return fn
	}
	return func(any) (any, error) {
		return New(nil), nil
	}
}

// HasFunction reports whether a function is registered under name.
func (o *Object) HasFunction(name string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.functions[name]
	return ok
}

// Run invokes the named function with value and wraps the result.
// A nil value is replaced by an empty container. Failures, including panics,
// are logged at debug level and degrade to an empty container.
func (o *Object) Run(name string, value any) *Object {
	if value == nil {
		value = New(nil)
	}
	return o.runSync(name, value)
}

// RunWith invokes the named function with the container form of the named
// internal value (see Variable).
func (o *Object) RunWith(name, internalName string) *Object {
	return o.runSync(name, o.Variable(internalName))
}

func (o *Object) runSync(name string, arg any) *Object {
	result, err := call(name, o.Function(name), arg)
	if err != nil {
		o.log().Debug("function failed",
			"function", name,
			"error", err,
		)
		return o.derive(nil)
	}
	return o.derive(result)
}

// call runs fn and converts a panic into an InvocationError.
func call(name string, fn Func, arg any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &InvocationError{Function: name, Panic: r}
		}
	}()
	return fn(arg)
}
