// Package object implements the dynamic container that UI code binds to.
//
// An Object holds two mappings: named values and named functions. Values are
// untyped; a few reserved keys carry meaning:
//
//	_value   scalar slot
//	_array   ordered sequence of nested containers (or raw values)
//	_object  single nested container
//	_json    textual cache of the bytes the container was built from
//
// # Normalization
//
// New classifies its input exactly once, after stripping one level of
// explicit optionality (Optional[T] or nil):
//
//	*Object            merged in (values and functions)
//	sequence           _array of recursively constructed containers
//	map[string]...     entries adopted as named values
//	[]byte             decoded as a JSON array or object; the bytes stay in
//	                   _value and their text in _json
//	anything else      stored in _value
//
// # Absence, not failure
//
// Lookups never fail. A missing key yields a fresh empty container, a missing
// function yields a no-op, and a failing synchronous Run yields an empty
// container. Only Async surfaces failures, through a rejected Future.
//
// # Shape
//
// A container may populate several reserved keys at once. Kind reports the
// shape in the fixed priority order object, array, value, map, empty.
package object
