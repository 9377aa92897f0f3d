package normalize

import (
	"errors"
	"fmt"
	"math"
)

// maxSafeKey bounds numeric primary keys to integers that survive a float64
// round trip (2^53).
const maxSafeKey = float64(1 << 53)

// NormalizeKey normalizes value as a primary-key value of the given type.
// It is stricter than Coerce: numeric keys must be integral and within ±2^53,
// string keys must be non-empty. Only string and number key types exist;
// anything else is a schema bug and panics.
func NormalizeKey(value any, tag TypeTag) (any, error) {
	switch tag {
	case TypeString:
		coerced, err := Coerce(TypeString, value)
		if err != nil {
			return nil, err
		}
		s := coerced.(string)
		if s == "" {
			return nil, errors.New("primary key string must not be empty")
		}
		return s, nil
	case TypeNumber:
		coerced, err := Coerce(TypeNumber, value)
		if err != nil {
			return nil, err
		}
		f := coerced.(float64)
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("primary key number must be an integer, got %v", f)
		}
		if math.Abs(f) > maxSafeKey {
			return nil, fmt.Errorf("primary key number %v is out of the safe integer range", f)
		}
		return f, nil
	default:
		panic(fmt.Sprintf("normalize: primary keys must be string or number typed, not %q", tag))
	}
}

// NormalizeKeys normalizes every element of values as a primary-key value,
// failing on the first invalid element.
func NormalizeKeys(values []any, tag TypeTag) ([]any, error) {
	out := make([]any, len(values))
	for i, v := range values {
		key, err := NormalizeKey(v, tag)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = key
	}
	return out, nil
}
