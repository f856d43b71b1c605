package object

import "github.com/roach88/suiobject/internal/canonical"

// All returns every named value in container form.
//
// An empty-string key is replaced by a freshly generated identifier.
// Sequences of containers become array containers, containers are expanded
// through their own All, and everything else is normalized with New.
func (o *Object) All() map[string]*Object {
	o.mu.RLock()
	vars := make(map[string]any, len(o.variables))
	for k, v := range o.variables {
		vars[k] = v
	}
	o.mu.RUnlock()

	logger := o.log()
	out := make(map[string]*Object, len(vars))
	for _, key := range canonical.SortedKeys(vars) {
		value := vars[key]
		logger.Debug("collecting value", "key", key, "value", describe(value))

		k := key
		if k == "" {
			k = o.idGenerator().Generate()
		}

		switch val := value.(type) {
		case []*Object:
			out[k] = o.derive(val)
		case *Object:
			if val == nil {
				out[k] = o.derive(nil)
				continue
			}
			out[k] = o.derive(val.All())
		default:
			out[k] = o.derive(value)
		}
	}
	return out
}

// Array returns the elements of the reserved array key in container form.
// Stored containers are returned as-is; raw payloads (bytes, mappings,
// scalars) are normalized with New. Returns an empty slice if the key is
// absent or does not hold a sequence.
func (o *Object) Array() []*Object {
	raw, ok := o.lookup(ArrayKey)
	if !ok {
		return []*Object{}
	}
	elems, ok := sequenceOf(raw)
	if !ok {
		return []*Object{}
	}
	out := make([]*Object, len(elems))
	for i, elem := range elems {
		out[i] = o.wrap(elem)
	}
	return out
}

// Child returns the container stored under the reserved object key, or an
// empty container.
func (o *Object) Child() *Object {
	raw, ok := o.lookup(ObjectKey)
	if child, isObj := raw.(*Object); ok && isObj && child != nil {
		return child
	}
	return o.derive(nil)
}
