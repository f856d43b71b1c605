package object

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/roach88/suiobject/internal/canonical"
)

// Value returns the scalar slot.
func (o *Object) Value() (any, bool) {
	return o.lookup(ValueKey)
}

// StringValue returns the scalar slot if it holds a string.
func (o *Object) StringValue() (string, bool) {
	return ValueAs[string](o)
}

// JSON returns the textual cache of the bytes the container was built from.
func (o *Object) JSON() (string, bool) {
	raw, ok := o.lookup(JSONKey)
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

// ValueAs returns the scalar slot narrowed to T.
func ValueAs[T any](o *Object) (T, bool) {
	var zero T
	raw, ok := o.Value()
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// DecodeValue treats the scalar slot as JSON bytes and decodes them into T.
// Any failure yields absence.
func DecodeValue[T any](o *Object) (T, bool) {
	var out T
	raw, ok := o.Value()
	if !ok {
		return out, false
	}
	var data []byte
	switch val := raw.(type) {
	case []byte:
		data = val
	case json.RawMessage:
		data = val
	default:
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// FromBytes builds a container from a raw payload.
func FromBytes(data []byte, configure ...func(*Object)) *Object {
	return New(data, configure...)
}

// FromEncodable encodes v as JSON and builds a container from the bytes.
// If v cannot be encoded, it is stored as-is.
func FromEncodable(v any, configure ...func(*Object)) *Object {
	data, err := json.Marshal(v)
	if err != nil {
		return New(v, configure...)
	}
	return New(data, configure...)
}

// Export converts the container into plain Go values following Kind:
// the nested object, the array elements, the scalar, or the map of
// non-reserved named values. Empty containers export as nil.
func (o *Object) Export() any {
	switch o.Kind() {
	case KindObject:
		return o.Child().Export()
	case KindArray:
		elems := o.Array()
		out := make([]any, len(elems))
		for i, elem := range elems {
			out[i] = elem.Export()
		}
		return out
	case KindValue:
		v, _ := o.Value()
		return exportValue(v)
	case KindMap:
		o.mu.RLock()
		vars := make(map[string]any, len(o.variables))
		for k, v := range o.variables {
			if !IsReserved(k) {
				vars[k] = v
			}
		}
		o.mu.RUnlock()
		out := make(map[string]any, len(vars))
		for k, v := range vars {
			out[k] = exportValue(v)
		}
		return out
	default:
		return nil
	}
}

func exportValue(v any) any {
	switch val := v.(type) {
	case *Object:
		if val == nil {
			return nil
		}
		return val.Export()
	case []byte:
		if decoded, err := decodeJSON(val); err == nil {
			return decoded
		}
		if utf8.Valid(val) {
			return string(val)
		}
		return val
	case json.RawMessage:
		return exportValue([]byte(val))
	}
	if elems, ok := sequenceOf(v); ok {
		out := make([]any, len(elems))
		for i, elem := range elems {
			out[i] = exportValue(elem)
		}
		return out
	}
	if entries, ok := mappingOf(v); ok {
		out := make(map[string]any, len(entries))
		for k, elem := range entries {
			out[k] = exportValue(elem)
		}
		return out
	}
	return v
}

// MarshalJSON encodes Export as canonical JSON.
func (o *Object) MarshalJSON() ([]byte, error) {
	return canonical.Marshal(o.Export())
}
