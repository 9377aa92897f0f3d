package normalize

import "fmt"

// absentValue is the type of Absent.
type absentValue struct{}

// Absent marks "no value" for NormalizeWriteValue. Go has no undefined, so a
// caller that wants "this key carries nothing" (as opposed to an explicit
// null, which is nil) passes Absent. Throughout this system "no value" is
// indistinguishable from "key not present": both fail ErrShouldBeIgnored.
var Absent absentValue

// IsAbsent reports whether v is the Absent sentinel.
func IsAbsent(v any) bool {
	_, ok := v.(absentValue)
	return ok
}

// NormalizeWriteValue normalizes a value destined for a create/update payload
// against one attribute of the given model. It is stricter than
// NormalizeFilterValue: strict schemas reject undeclared keys, associations
// take primary-key-grade coercion, null is only accepted where the schema
// says so, and declarative rules run on the coerced value.
//
// allowCollection opts in to assigning a plural association an array of
// primary keys; without it any value on a plural association fails.
//
// The returned value is authoritative: coercion may replace primitives and
// callers must not assume the input is what gets stored. Failures wrap one of
// ErrShouldBeIgnored, ErrHighlyIrregular, ErrInvalidValue, ErrRuleViolations
// (or ErrNotRegistered for an unknown model). A model with no schema mode set
// panics: that is a schema compiler bug, not bad input.
func (r *Registry) NormalizeWriteValue(value any, attrName, modelIdentity string, allowCollection bool) (any, error) {
	model, err := r.Model(modelIdentity)
	if err != nil {
		return nil, err
	}
	attr, declared := model.Attribute(attrName)

	switch model.Mode {
	case ModeStrict:
		if !declared {
			return nil, errIgnored(modelIdentity, attrName, "attribute is not declared in this strict schema; drop the key")
		}
	case ModeLoose:
		if !declared && !r.opts.attrNamePattern.MatchString(attrName) {
			return nil, errIrregular(modelIdentity, attrName, fmt.Sprintf("%q is not a valid attribute name", attrName))
		}
	default:
		panic(fmt.Sprintf("normalize: model %q has no schema mode set", modelIdentity))
	}

	if IsAbsent(value) {
		return nil, errIgnored(modelIdentity, attrName, "no value provided for the attribute")
	}

	if !declared {
		coerced, err := Coerce(TypeJSON, value)
		if err != nil {
			return nil, errInvalid(modelIdentity, attrName, "undeclared attribute values must be JSON-serializable: "+err.Error())
		}
		return coerced, nil
	}

	if attrName == model.PrimaryKey {
		key, err := NormalizeKey(value, attr.Type)
		if err != nil {
			return nil, errIrregular(modelIdentity, attrName, "invalid primary key value: "+err.Error())
		}
		return key, nil
	}

	switch attr.Kind() {
	case KindPlural:
		return r.normalizeCollection(model, attrName, attr, value, allowCollection)
	case KindSingular:
		return r.normalizeAssociation(model, attrName, attr, value)
	default:
		return r.normalizeScalar(model, attrName, attr, value)
	}
}

func (r *Registry) normalizeCollection(model *ModelSchema, attrName string, attr *AttributeDefinition, value any, allowCollection bool) (any, error) {
	if !allowCollection {
		return nil, errIrregular(model.Identity, attrName, "collection attributes cannot be assigned directly; use the dedicated replace-collection operation")
	}
	elems, ok := value.([]any)
	if !ok {
		return nil, errIrregular(model.Identity, attrName, fmt.Sprintf("expected an array of %q primary keys, got %T", attr.Collection, value))
	}
	keyType, err := r.primaryKeyType(attr.Collection)
	if err != nil {
		return nil, err
	}
	keys, err := NormalizeKeys(elems, keyType)
	if err != nil {
		return nil, errIrregular(model.Identity, attrName, fmt.Sprintf("invalid %q primary key in collection: %v", attr.Collection, err))
	}
	return keys, nil
}

func (r *Registry) normalizeAssociation(model *ModelSchema, attrName string, attr *AttributeDefinition, value any) (any, error) {
	if value == nil {
		if attr.Required {
			return nil, errIrregular(model.Identity, attrName, "required association cannot be set to null")
		}
		return nil, nil
	}
	keyType, err := r.primaryKeyType(attr.Model)
	if err != nil {
		return nil, err
	}
	key, err := NormalizeKey(value, keyType)
	if err != nil {
		return nil, errIrregular(model.Identity, attrName, fmt.Sprintf("invalid %q primary key: %v", attr.Model, err))
	}
	return key, nil
}

func (r *Registry) normalizeScalar(model *ModelSchema, attrName string, attr *AttributeDefinition, value any) (any, error) {
	if s, ok := value.(string); ok && s == "" && (attr.AutoCreatedAt || attr.AutoUpdatedAt) {
		return nil, errIrregular(model.Identity, attrName, "empty string is never a valid timestamp")
	}

	// Null is reserved for attributes that accept any shape (json/ref) or
	// non-required associations; "optional scalar" does not imply nullable.
	if value == nil && attr.Type != TypeJSON && attr.Type != TypeRef && !attr.Required {
		return nil, errInvalid(model.Identity, attrName, fmt.Sprintf("null is not allowed for type %q; to clear the attribute, set its base value (%#v)", attr.Type, BaseValue(attr.Type)))
	}

	coerced, err := Coerce(attr.Type, value)
	if err != nil {
		return nil, errInvalid(model.Identity, attrName, err.Error())
	}

	if len(attr.rules) > 0 && coerced != nil {
		if violations := attr.rules.check(coerced); len(violations) > 0 {
			return nil, &RuleViolationError{Model: model.Identity, Attribute: attrName, Violations: violations}
		}
	}
	return coerced, nil
}
