package document

import (
	"reflect"

	apperrors "docpipe/pkg/errors"
)

// Cast checks that a resolved value has the expected type and returns it
// typed. A nil value casts to the zero value of any type, matching the
// "null resolves to null" contract of reads.
func Cast[T any](path string, v interface{}) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, apperrors.ErrTypeMismatch.WithMessagef(
			"field [%s] of type [%T] cannot be cast to [%s]",
			path, v, reflect.TypeOf((*T)(nil)).Elem().String())
	}
	return typed, nil
}

// DeepCopy clones maps and lists recursively. Scalars are returned as-is;
// any other value is treated as opaque and shared.
func DeepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = DeepCopy(val)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, val := range t {
			s[i] = DeepCopy(val)
		}
		return s
	default:
		return v
	}
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
