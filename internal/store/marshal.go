package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/suiobject/internal/canonical"
	"github.com/roach88/suiobject/internal/object"
)

// marshalObject returns the canonical JSON of obj and its content hash.
func marshalObject(obj *object.Object) (data, id string, err error) {
	export := obj.Export()
	b, err := canonical.Marshal(export)
	if err != nil {
		return "", "", fmt.Errorf("marshal object: %w", err)
	}
	id, err = canonical.SnapshotID(export)
	if err != nil {
		return "", "", fmt.Errorf("marshal object: %w", err)
	}
	return string(b), id, nil
}

// marshalFunctions encodes function names as a canonical JSON array.
func marshalFunctions(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	b, err := canonical.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("marshal functions: %w", err)
	}
	return string(b), nil
}

func unmarshalFunctions(s string) ([]string, error) {
	var names []string
	if err := json.Unmarshal([]byte(s), &names); err != nil {
		return nil, fmt.Errorf("unmarshal functions: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// marshalValue encodes an invocation argument or result. Containers are
// exported first; anything else is normalized through object.New.
func marshalValue(v any) (string, error) {
	obj, ok := v.(*object.Object)
	if !ok || obj == nil {
		obj = object.New(v)
	}
	b, err := obj.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}
	return string(b), nil
}
