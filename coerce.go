package normalize

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// TypeTag names a primitive attribute type.
type TypeTag string

const (
	TypeString  TypeTag = "string"
	TypeNumber  TypeTag = "number"
	TypeBoolean TypeTag = "boolean"
	// TypeJSON accepts any JSON-serializable, acyclic value.
	TypeJSON TypeTag = "json"
	// TypeRef accepts any value as an opaque reference.
	TypeRef TypeTag = "ref"
)

var validTypeTags = map[TypeTag]bool{
	TypeString: true, TypeNumber: true, TypeBoolean: true, TypeJSON: true, TypeRef: true,
}

// Coerce validates value loosely against tag and returns the canonical value:
// string for TypeString, float64 for TypeNumber, bool for TypeBoolean, the
// input unchanged for TypeJSON and TypeRef. Loose means convertible counts:
// "123" is a valid number, 7 is a valid string, "true" is a valid boolean.
// Booleans never convert to numbers and vice versa.
//
// Coerce panics on an unknown tag; tags come from registered schemas, never
// from user input.
func Coerce(tag TypeTag, value any) (any, error) {
	switch tag {
	case TypeString, TypeNumber, TypeBoolean:
		in, err := scalarValue(value)
		if err != nil {
			return nil, err
		}
		out, err := convert.Convert(in, ctyType(tag))
		if err != nil {
			return nil, fmt.Errorf("cannot coerce %v (%T) into a %s: %v", value, value, tag, err)
		}
		return fromCty(tag, out)
	case TypeJSON:
		// Marshal is the serializability check: it rejects cycles, NaN/Inf,
		// channels, funcs and other non-JSON values. The value itself is
		// returned untouched.
		if _, err := json.Marshal(value); err != nil {
			return nil, fmt.Errorf("value is not JSON-serializable: %v", err)
		}
		return value, nil
	case TypeRef:
		return value, nil
	default:
		panic(fmt.Sprintf("normalize: unknown type tag %q", tag))
	}
}

// BaseValue returns the canonical zero value for tag: "" for string, 0 for
// number, false for boolean, nil for json and ref.
func BaseValue(tag TypeTag) any {
	switch tag {
	case TypeString:
		return ""
	case TypeNumber:
		return float64(0)
	case TypeBoolean:
		return false
	case TypeJSON, TypeRef:
		return nil
	default:
		panic(fmt.Sprintf("normalize: unknown type tag %q", tag))
	}
}

func ctyType(tag TypeTag) cty.Type {
	switch tag {
	case TypeString:
		return cty.String
	case TypeNumber:
		return cty.Number
	default:
		return cty.Bool
	}
}

// scalarValue lifts a Go scalar into a cty value for conversion. Anything
// composite (or nil) is never coercible to a scalar type.
func scalarValue(value any) (cty.Value, error) {
	switch v := value.(type) {
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return cty.NilVal, fmt.Errorf("%v is not a usable number", v)
		}
		return cty.NumberFloatVal(v), nil
	case float32:
		return scalarValue(float64(v))
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int8:
		return cty.NumberIntVal(int64(v)), nil
	case int16:
		return cty.NumberIntVal(int64(v)), nil
	case int32:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	case uint:
		return cty.NumberUIntVal(uint64(v)), nil
	case uint8:
		return cty.NumberUIntVal(uint64(v)), nil
	case uint16:
		return cty.NumberUIntVal(uint64(v)), nil
	case uint32:
		return cty.NumberUIntVal(uint64(v)), nil
	case uint64:
		return cty.NumberUIntVal(v), nil
	case json.Number:
		parsed, err := cty.ParseNumberVal(v.String())
		if err != nil {
			return cty.NilVal, fmt.Errorf("%q is not a usable number", v.String())
		}
		return parsed, nil
	case nil:
		return cty.NilVal, fmt.Errorf("null is never coercible to a scalar type")
	default:
		return cty.NilVal, fmt.Errorf("a %T is never coercible to a scalar type", value)
	}
}

func fromCty(tag TypeTag, v cty.Value) (any, error) {
	switch tag {
	case TypeString:
		return v.AsString(), nil
	case TypeBoolean:
		return v.True(), nil
	default:
		f, _ := v.AsBigFloat().Float64()
		if math.IsInf(f, 0) {
			return nil, fmt.Errorf("number is out of range")
		}
		return f, nil
	}
}
