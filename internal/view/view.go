package view

import (
	"sync"

	"github.com/roach88/suiobject/internal/object"
)

// Content renders a container into whatever the caller draws with.
type Content[W any] func(*object.Object) W

// ObjectView renders an externally owned container. It does not observe
// the container; callers rebuild it themselves.
type ObjectView[W any] struct {
	obj     *object.Object
	content Content[W]
}

// Of binds obj to content. A nil obj is replaced with an empty container.
func Of[W any](obj *object.Object, content Content[W]) ObjectView[W] {
	if obj == nil {
		obj = object.New(nil)
	}
	return ObjectView[W]{obj: obj, content: content}
}

// Object returns the bound container.
func (v ObjectView[W]) Object() *object.Object {
	return v.obj
}

// Build renders the container.
func (v ObjectView[W]) Build() W {
	return render(v.content, v.obj)
}

func render[W any](content Content[W], obj *object.Object) W {
	if content == nil {
		var zero W
		return zero
	}
	return content(obj)
}

// binding holds the lifecycle shared by the observing adapters: the host it
// is mounted on, its latest render and the cleanups to run on unmount.
type binding[W any] struct {
	mu        sync.Mutex
	host      *Host
	content   Content[W]
	obj       *object.Object
	last      W
	builds    int
	disposers []func()
}

func (b *binding[W]) onDispose(fn func()) {
	b.disposers = append(b.disposers, fn)
}

func (b *binding[W]) rebuild() {
	b.mu.Lock()
	obj, content := b.obj, b.content
	b.mu.Unlock()

	w := render(content, obj)

	b.mu.Lock()
	b.last = w
	b.builds++
	b.mu.Unlock()
}

func (b *binding[W]) isMounted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.host != nil
}

// attach subscribes self to obj and renders once.
func (b *binding[W]) attach(self rebuilder, host *Host, obj *object.Object) {
	b.mu.Lock()
	b.host = host
	b.obj = obj
	b.onDispose(obj.Observe(func() {
		host.ScheduleBuild(self)
	}))
	b.mu.Unlock()

	b.rebuild()
}

func (b *binding[W]) detach() {
	b.mu.Lock()
	disposers := b.disposers
	b.disposers = nil
	b.host = nil
	b.mu.Unlock()

	for _, fn := range disposers {
		fn()
	}
}

// Last returns the most recent render.
func (b *binding[W]) Last() W {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Builds returns how many times the view has rendered.
func (b *binding[W]) Builds() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.builds
}

// ObservedObjectView renders an externally owned container and rebuilds
// whenever it mutates while mounted.
type ObservedObjectView[W any] struct {
	binding[W]
	source *object.Object
}

// Observed binds obj to content. A nil obj is replaced with an empty
// container.
func Observed[W any](obj *object.Object, content Content[W]) *ObservedObjectView[W] {
	if obj == nil {
		obj = object.New(nil)
	}
	v := &ObservedObjectView[W]{source: obj}
	v.content = content
	v.obj = obj
	return v
}

// Object returns the bound container.
func (v *ObservedObjectView[W]) Object() *object.Object {
	return v.source
}

// Mount subscribes to the container and renders once. Mounting an already
// mounted view is a no-op.
func (v *ObservedObjectView[W]) Mount(host *Host) {
	if v.isMounted() {
		return
	}
	v.attach(v, host, v.source)
}

// Unmount stops observing. The container is left untouched.
func (v *ObservedObjectView[W]) Unmount() {
	v.detach()
}

// StateObjectView owns its container. The container is created by init the
// first time the key is mounted on a Host and survives remounts.
type StateObjectView[W any] struct {
	binding[W]
	key  string
	init func() *object.Object
}

// State declares a state view identified by key.
func State[W any](key string, init func() *object.Object, content Content[W]) *StateObjectView[W] {
	v := &StateObjectView[W]{key: key, init: init}
	v.content = content
	return v
}

// Key returns the state identity.
func (v *StateObjectView[W]) Key() string {
	return v.key
}

// Object returns the owned container, or nil before the first Mount.
func (v *StateObjectView[W]) Object() *object.Object {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.obj
}

// Mount fetches or creates the owned container, subscribes to it and
// renders once.
func (v *StateObjectView[W]) Mount(host *Host) {
	if v.isMounted() {
		return
	}
	v.attach(v, host, host.StateObject(v.key, v.init))
}

// Unmount stops observing. The container stays owned by the Host until
// Forget is called for the key.
func (v *StateObjectView[W]) Unmount() {
	v.detach()
}
