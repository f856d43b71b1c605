package object

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/roach88/suiobject/internal/canonical"
)

// Object is the dynamic container.
//
// Each container is expected to have a single logical owner. The mutex only
// exists because Async runs functions on other goroutines; it does not make
// interleaved mutation from several owners meaningful.
type Object struct {
	mu           sync.RWMutex
	variables    map[string]any
	functions    map[string]Func
	listeners    map[uint64]func()
	nextListener uint64
	released     atomic.Bool

	// objectBytes is set while _value and _json hold the JSON object the
	// named values were decoded from. The first mutation drops both.
	objectBytes bool

	executor Executor
	ids      IDGenerator
	logger   *slog.Logger
}

// New normalizes raw into a container, then runs each configure callback
// with it. Configuration runs after normalization, so callbacks can layer
// values and functions on top of a decoded payload.
func New(raw any, configure ...func(*Object)) *Object {
	o := &Object{
		variables: make(map[string]any),
		functions: make(map[string]Func),
		listeners: make(map[uint64]func()),
	}
	o.absorb(classify(raw))
	for _, fn := range configure {
		if fn != nil {
			o.Configure(fn)
		}
	}
	return o
}

// absorb applies a classified input to a freshly allocated container.
func (o *Object) absorb(in input) {
	switch val := in.(type) {
	case noInput:
	case objectInput:
		o.Consume(val.obj)
	case sequenceInput:
		children := make([]*Object, len(val.elems))
		for i, elem := range val.elems {
			children[i] = New(elem)
		}
		o.variables[ArrayKey] = children
	case mappingInput:
		for k, v := range val.entries {
			o.variables[k] = v
		}
	case bytesInput:
		o.absorbBytes(val.data)
	case scalarInput:
		o.variables[ValueKey] = val.value
	}
}

// absorbBytes decodes a JSON array or object payload. Whatever the outcome,
// the raw bytes go in the scalar slot and their text in the JSON cache.
// For an object payload they stay only until the first mutation.
func (o *Object) absorbBytes(data []byte) {
	if decoded, err := decodeJSON(data); err == nil {
		switch shape := decoded.(type) {
		case []any:
			o.variables[ArrayKey] = shape
		case map[string]any:
			for k, v := range shape {
				o.variables[k] = v
			}
			o.objectBytes = true
		}
	}
	o.variables[ValueKey] = data
	if utf8.Valid(data) {
		o.variables[JSONKey] = string(data)
	}
}

// derive builds a container from v that shares o's executor, ID generator
// and logger.
func (o *Object) derive(v any) *Object {
	child := New(v)
	o.mu.RLock()
	child.executor, child.ids, child.logger = o.executor, o.ids, o.logger
	o.mu.RUnlock()
	return child
}

// wrap returns v in container form. Containers pass through unchanged.
func (o *Object) wrap(v any) *Object {
	if obj, ok := v.(*Object); ok && obj != nil {
		return obj
	}
	return o.derive(v)
}

// Configure runs fn with the container and returns it for chaining.
func (o *Object) Configure(fn func(*Object)) *Object {
	fn(o)
	return o
}

// Consume merges all named values and functions of other into o.
// On key collision other wins. Returns o for chaining.
//
// The source bytes of a decoded JSON object are carried over only when o
// held nothing before; otherwise they would no longer describe o.
func (o *Object) Consume(other *Object) *Object {
	if other == nil || other == o {
		return o
	}

	other.mu.RLock()
	otherBytes := other.objectBytes
	vars := make(map[string]any, len(other.variables))
	for k, v := range other.variables {
		vars[k] = v
	}
	funcs := make(map[string]Func, len(other.functions))
	for k, fn := range other.functions {
		funcs[k] = fn
	}
	other.mu.RUnlock()

	o.mu.Lock()
	inherit := otherBytes && len(o.variables) == 0
	o.dropObjectBytes()
	for k, v := range vars {
		if otherBytes && !inherit && (k == ValueKey || k == JSONKey) {
			continue
		}
		o.variables[k] = v
	}
	o.objectBytes = inherit
	for k, fn := range funcs {
		o.functions[k] = fn
	}
	o.mu.Unlock()

	o.notify()
	return o
}

// Add stores value under name.
func (o *Object) Add(name string, value any) {
	o.mu.Lock()
	o.dropObjectBytes()
	o.variables[name] = value
	o.mu.Unlock()
	o.notify()
}

// AddValue stores value in the scalar slot.
func (o *Object) AddValue(value any) {
	o.Add(ValueKey, value)
}

// AddChild stores child under the reserved object key, replacing any
// previous child.
func (o *Object) AddChild(child *Object) {
	o.Add(ObjectKey, child)
}

// AddArray stores a raw sequence under the reserved array key.
func (o *Object) AddArray(values []any) {
	o.Add(ArrayKey, values)
}

// AddFunction registers fn under name, replacing any previous function.
func (o *Object) AddFunction(name string, fn Func) {
	o.mu.Lock()
	o.functions[name] = fn
	o.mu.Unlock()
	o.notify()
}

// Remove deletes a named value. Removing an absent name is a no-op.
func (o *Object) Remove(name string) {
	o.mu.Lock()
	_, ok := o.variables[name]
	if ok {
		o.dropObjectBytes()
		delete(o.variables, name)
	}
	o.mu.Unlock()
	if ok {
		o.notify()
	}
}

// dropObjectBytes discards the source bytes of a decoded JSON object once
// the named values may diverge from them. Callers hold o.mu.
func (o *Object) dropObjectBytes() {
	if !o.objectBytes {
		return
	}
	delete(o.variables, ValueKey)
	delete(o.variables, JSONKey)
	o.objectBytes = false
}

func (o *Object) lookup(name string) (any, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.variables[name]
	return v, ok
}

// Variable returns the named value in container form: containers pass
// through, every other present value is normalized with New, and a missing
// name yields an empty container.
func (o *Object) Variable(name string) *Object {
	v, ok := o.lookup(name)
	if !ok {
		return o.derive(nil)
	}
	return o.wrap(v)
}

// Get is an alias of Variable.
func (o *Object) Get(name string) *Object {
	return o.Variable(name)
}

// Member is the explicit form of dynamic member access (obj.foo).
// It follows the same coercion rule as Variable.
func (o *Object) Member(name string) *Object {
	return o.Variable(name)
}

// Path walks a dotted path. Numeric segments index into array containers;
// any miss yields an empty container.
//
//	o.Path("user.addresses.0.city")
func (o *Object) Path(path string) *Object {
	cur := o
	if path == "" {
		return cur
	}
	for _, segment := range strings.Split(path, ".") {
		if i, err := strconv.Atoi(segment); err == nil && !cur.Has(segment) {
			elems := cur.Array()
			if i < 0 || i >= len(elems) {
				return o.derive(nil)
			}
			cur = elems[i]
			continue
		}
		cur = cur.Variable(segment)
	}
	return cur
}

// Has reports whether a named value is present.
func (o *Object) Has(name string) bool {
	_, ok := o.lookup(name)
	return ok
}

// Keys returns the named value keys in canonical order.
func (o *Object) Keys() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return canonical.SortedKeys(o.variables)
}

// Functions returns the registered function names in canonical order.
func (o *Object) Functions() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return canonical.SortedKeys(o.functions)
}

// Len returns the number of named values.
func (o *Object) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.variables)
}

// Kind reports the container shape in priority order:
// object, array, value, map, empty.
//
// A container decoded from a JSON object is a map even though its source
// bytes sit in the scalar slot.
func (o *Object) Kind() Kind {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if child, ok := o.variables[ObjectKey].(*Object); ok && child != nil {
		return KindObject
	}
	if _, ok := o.variables[ArrayKey]; ok {
		return KindArray
	}
	if o.objectBytes {
		return KindMap
	}
	if _, ok := o.variables[ValueKey]; ok {
		return KindValue
	}
	for k := range o.variables {
		if !IsReserved(k) {
			return KindMap
		}
	}
	return KindEmpty
}

// IsEmpty reports whether the container holds no named values.
func (o *Object) IsEmpty() bool {
	return o.Len() == 0
}

// Observe registers fn to run after every mutation of the container.
// The returned function unregisters it and is safe to call more than once.
func (o *Object) Observe(fn func()) func() {
	if fn == nil {
		return func() {}
	}

	o.mu.Lock()
	id := o.nextListener
	o.nextListener++
	o.listeners[id] = fn
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.listeners, id)
			o.mu.Unlock()
		})
	}
}

// notify runs listeners in registration order, outside the lock so they may
// read the container.
func (o *Object) notify() {
	o.mu.RLock()
	if len(o.listeners) == 0 {
		o.mu.RUnlock()
		return
	}
	ids := make([]uint64, 0, len(o.listeners))
	for id := range o.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(), len(ids))
	for i, id := range ids {
		fns[i] = o.listeners[id]
	}
	o.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

// Release marks the container as destroyed. Async calls that have not
// started yet resolve with an empty container instead of running.
func (o *Object) Release() {
	o.released.Store(true)
}

// Released reports whether Release has been called.
func (o *Object) Released() bool {
	return o.released.Load()
}

// String describes the named values, one "\tkey: value" line each in
// canonical key order. Nested containers contribute their own lines.
func (o *Object) String() string {
	o.mu.RLock()
	keys := canonical.SortedKeys(o.variables)
	vars := make([]any, len(keys))
	for i, k := range keys {
		vars[i] = o.variables[k]
	}
	o.mu.RUnlock()

	lines := make([]string, 0, len(keys))
	for i, k := range keys {
		if child, ok := vars[i].(*Object); ok && child != nil {
			if desc := child.String(); desc != "" {
				lines = append(lines, desc)
			}
			continue
		}
		lines = append(lines, fmt.Sprintf("\t%s: %s", k, describe(vars[i])))
	}
	return strings.Join(lines, "\n")
}

func describe(v any) string {
	switch val := v.(type) {
	case []byte:
		if utf8.Valid(val) {
			return string(val)
		}
		return fmt.Sprintf("<%d bytes>", len(val))
	case []*Object:
		return fmt.Sprintf("[%d objects]", len(val))
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (o *Object) log() *slog.Logger {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}

func (o *Object) idGenerator() IDGenerator {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.ids != nil {
		return o.ids
	}
	return UUIDv7Generator{}
}

// WithLogger sets the logger used for diagnostics. Pass it to New as a
// configure callback or to Configure.
func WithLogger(logger *slog.Logger) func(*Object) {
	return func(o *Object) {
		o.mu.Lock()
		o.logger = logger
		o.mu.Unlock()
	}
}

// WithIDGenerator sets the generator used to replace empty keys in All.
func WithIDGenerator(gen IDGenerator) func(*Object) {
	return func(o *Object) {
		o.mu.Lock()
		o.ids = gen
		o.mu.Unlock()
	}
}

// WithExecutor sets the executor used by Async and AsyncWith.
func WithExecutor(exec Executor) func(*Object) {
	return func(o *Object) {
		o.mu.Lock()
		o.executor = exec
		o.mu.Unlock()
	}
}
