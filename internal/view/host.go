package view

import (
	"log/slog"
	"sync"

	"github.com/roach88/suiobject/internal/object"
)

// rebuilder is implemented by adapters that can be scheduled on a Host.
type rebuilder interface {
	rebuild()
	isMounted() bool
}

// Host tracks dirty views and the containers owned by state views.
//
// Thread-safety: ScheduleBuild may be called from any goroutine (container
// listeners fire on whichever goroutine mutated). FlushBuild should be
// called from one goroutine.
type Host struct {
	mu       sync.Mutex
	dirty    []rebuilder
	dirtySet map[rebuilder]bool
	states   map[string]*object.Object
	logger   *slog.Logger

	// OnNeedsFrame is called when a view is newly scheduled, so the caller
	// can arrange for FlushBuild to run.
	OnNeedsFrame func()
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger sets the logger for rebuild diagnostics.
func WithLogger(logger *slog.Logger) HostOption {
	return func(h *Host) {
		h.logger = logger
	}
}

// NewHost creates an empty host.
func NewHost(opts ...HostOption) *Host {
	h := &Host{
		dirtySet: make(map[rebuilder]bool),
		states:   make(map[string]*object.Object),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// ScheduleBuild marks v as needing a rebuild. Scheduling an already dirty
// view is a no-op.
func (h *Host) ScheduleBuild(v rebuilder) {
	h.mu.Lock()
	added := !h.dirtySet[v]
	if added {
		h.dirtySet[v] = true
		h.dirty = append(h.dirty, v)
	}
	h.mu.Unlock()

	if added && h.OnNeedsFrame != nil {
		h.OnNeedsFrame()
	}
}

// NeedsWork reports whether any view is waiting to be rebuilt.
func (h *Host) NeedsWork() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.dirty) > 0
}

// FlushBuild rebuilds dirty views until none remain and returns how many
// rebuilds ran. Views unmounted after scheduling are skipped.
func (h *Host) FlushBuild() int {
	n := 0
	for {
		h.mu.Lock()
		if len(h.dirty) == 0 {
			h.mu.Unlock()
			return n
		}
		dirty := h.dirty
		h.dirty = nil
		clear(h.dirtySet)
		h.mu.Unlock()

		for _, v := range dirty {
			if !v.isMounted() {
				continue
			}
			v.rebuild()
			n++
		}
		h.logger.Debug("flushed views", "count", len(dirty))
	}
}

// StateObject returns the container owned under key. init runs only the
// first time key is seen; a nil init or a nil result yields an empty
// container.
//
// init runs without the host lock held, so it may call back into the host.
// When two first calls race, the container stored first wins and the other
// is released.
func (h *Host) StateObject(key string, init func() *object.Object) *object.Object {
	h.mu.Lock()
	obj, ok := h.states[key]
	h.mu.Unlock()
	if ok {
		return obj
	}

	if init != nil {
		obj = init()
	}
	if obj == nil {
		obj = object.New(nil)
	}

	h.mu.Lock()
	if existing, ok := h.states[key]; ok {
		h.mu.Unlock()
		if existing != obj {
			obj.Release()
		}
		return existing
	}
	h.states[key] = obj
	h.mu.Unlock()

	h.logger.Debug("state object created", "key", key)
	return obj
}

// Forget drops the container owned under key and releases it, so pending
// async calls on it resolve empty. The next StateObject for key runs init
// again.
func (h *Host) Forget(key string) {
	h.mu.Lock()
	obj, ok := h.states[key]
	delete(h.states, key)
	h.mu.Unlock()

	if ok {
		obj.Release()
	}
}
