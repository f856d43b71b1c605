package object

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Optional makes presence explicit at the construction boundary.
// New unwraps exactly one level: New(Some(Some(x))) stores Some(x) as a scalar.
type Optional[T any] struct {
	value   T
	present bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// None returns an absent value of type T.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the wrapped value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) unwrap() (any, bool) {
	return o.value, o.present
}

// optional is satisfied by every Optional[T] instantiation.
type optional interface {
	unwrap() (any, bool)
}

// input is the normalized shape of a constructor argument.
// Only the types below implement it.
type input interface {
	input()
}

type (
	noInput       struct{}
	objectInput   struct{ obj *Object }
	sequenceInput struct{ elems []any }
	mappingInput  struct{ entries map[string]any }
	bytesInput    struct{ data []byte }
	scalarInput   struct{ value any }
)

func (noInput) input()       {}
func (objectInput) input()   {}
func (sequenceInput) input() {}
func (mappingInput) input()  {}
func (bytesInput) input()    {}
func (scalarInput) input()   {}

// classify strips one level of optionality and decides the input shape.
func classify(v any) input {
	if opt, ok := v.(optional); ok {
		inner, present := opt.unwrap()
		if !present {
			return noInput{}
		}
		v = inner
	}

	switch val := v.(type) {
	case nil:
		return noInput{}
	case *Object:
		if val == nil {
			return noInput{}
		}
		return objectInput{obj: val}
	case []byte:
		return bytesInput{data: val}
	case json.RawMessage:
		return bytesInput{data: []byte(val)}
	}

	if elems, ok := sequenceOf(v); ok {
		return sequenceInput{elems: elems}
	}
	if entries, ok := mappingOf(v); ok {
		return mappingInput{entries: entries}
	}
	return scalarInput{value: v}
}

// sequenceOf widens the ordered sequence types a container accepts to []any.
// []byte is a payload, not a sequence, and is never matched here.
func sequenceOf(v any) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case []*Object:
		return widen(val), true
	case []string:
		return widen(val), true
	case []int:
		return widen(val), true
	case []int64:
		return widen(val), true
	case []float64:
		return widen(val), true
	case []bool:
		return widen(val), true
	case []map[string]any:
		return widen(val), true
	case [][]byte:
		return widen(val), true
	default:
		return nil, false
	}
}

func widen[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// mappingOf widens the keyed mapping types a container accepts.
func mappingOf(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, true
	case map[string]*Object:
		return widenMap(val), true
	case map[string]string:
		return widenMap(val), true
	case map[string]int:
		return widenMap(val), true
	case map[string]int64:
		return widenMap(val), true
	case map[string]float64:
		return widenMap(val), true
	case map[string]bool:
		return widenMap(val), true
	default:
		return nil, false
	}
}

func widenMap[T any](in map[string]T) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// decodeJSON decodes data keeping integers exact.
// Integral numbers become int64, all others float64.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value at offset %d", dec.InputOffset())
	}
	return normalizeNumbers(out), nil
}

func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		for i, elem := range val {
			val[i] = normalizeNumbers(elem)
		}
		return val
	case map[string]any:
		for k, elem := range val {
			val[k] = normalizeNumbers(elem)
		}
		return val
	default:
		return v
	}
}
