package object

// Reserved keys with container-defined meaning.
const (
	ValueKey  = "_value"
	ArrayKey  = "_array"
	ObjectKey = "_object"
	JSONKey   = "_json"
)

// IsReserved reports whether key is one of the reserved keys.
func IsReserved(key string) bool {
	switch key {
	case ValueKey, ArrayKey, ObjectKey, JSONKey:
		return true
	}
	return false
}

// Kind is the shape of a container as seen by consumers.
type Kind int

const (
	// KindEmpty means no named values are present.
	KindEmpty Kind = iota
	// KindValue means the scalar slot is populated.
	KindValue
	// KindArray means _array is populated.
	KindArray
	// KindObject means _object holds a nested container.
	KindObject
	// KindMap means only non-reserved named values are present, or the
	// container was decoded from a JSON object.
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindValue:
		return "value"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}
