// Package builtins provides named functions that can be registered on any
// container. The CLI and the scenario harness use them to exercise
// invocation without compiled-in callbacks.
package builtins

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/suiobject/internal/canonical"
	"github.com/roach88/suiobject/internal/object"
)

// ErrNotString is returned by the case functions for non-text input.
var ErrNotString = errors.New("input is not a string")

// ErrRequested is returned by fail.
var ErrRequested = errors.New("requested failure")

var registry = map[string]object.Func{
	"echo":  echo,
	"keys":  keys,
	"count": count,
	"upper": upper,
	"lower": lower,
	"json":  encodeJSON,
	"fail":  fail,
}

// Names returns the builtin names in sorted order.
func Names() []string {
	return canonical.SortedKeys(registry)
}

// Lookup returns the named builtin.
func Lookup(name string) (object.Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Register adds the named builtins to o. Unknown names are an error and
// leave o untouched.
func Register(o *object.Object, names ...string) error {
	fns := make(map[string]object.Func, len(names))
	for _, name := range names {
		fn, ok := registry[name]
		if !ok {
			return fmt.Errorf("unknown builtin %q", name)
		}
		fns[name] = fn
	}
	for _, name := range names {
		o.AddFunction(name, fns[name])
	}
	return nil
}

// RegisterAll adds every builtin to o.
func RegisterAll(o *object.Object) {
	for _, name := range Names() {
		o.AddFunction(name, registry[name])
	}
}

func asObject(v any) *object.Object {
	if obj, ok := v.(*object.Object); ok && obj != nil {
		return obj
	}
	return object.New(v)
}

// echo returns its input unchanged.
func echo(v any) (any, error) {
	return v, nil
}

// keys returns the non-reserved keys of the input in canonical order.
func keys(v any) (any, error) {
	out := []string{}
	for _, k := range asObject(v).Keys() {
		if !object.IsReserved(k) {
			out = append(out, k)
		}
	}
	return out, nil
}

// count returns the element count of an array, the key count of a map,
// one for a scalar and zero for an empty container.
func count(v any) (any, error) {
	obj := asObject(v)
	switch obj.Kind() {
	case object.KindArray:
		return len(obj.Array()), nil
	case object.KindMap:
		n, _ := keys(obj)
		return len(n.([]string)), nil
	case object.KindValue, object.KindObject:
		return 1, nil
	default:
		return 0, nil
	}
}

func upper(v any) (any, error) {
	return mapString(v, cases.Upper(language.Und).String)
}

func lower(v any) (any, error) {
	return mapString(v, cases.Lower(language.Und).String)
}

func mapString(v any, fn func(string) string) (any, error) {
	s, ok := v.(string)
	if !ok {
		s, ok = asObject(v).StringValue()
	}
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotString, v)
	}
	return fn(s), nil
}

// encodeJSON returns the canonical JSON text of the input.
func encodeJSON(v any) (any, error) {
	data, err := asObject(v).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding input: %w", err)
	}
	return string(data), nil
}

// fail always returns ErrRequested, annotated with the input text if any.
func fail(v any) (any, error) {
	if s, ok := asObject(v).StringValue(); ok && s != "" {
		return nil, fmt.Errorf("%w: %s", ErrRequested, s)
	}
	return nil, ErrRequested
}
