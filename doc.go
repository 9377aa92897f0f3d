// Package normalize turns untyped, caller-supplied values into the canonical
// shapes a schema-driven record layer can store, and rejects everything else
// with a precise error classification.
//
// # Overview
//
// A record layer receives values twice: as query filters and as write
// payloads. Both paths funnel each attribute/value pair through this package
// before anything reaches storage. Filters are normalized leniently (null is
// always usable, undeclared attributes are tolerated as opaque JSON); writes
// are normalized strictly (schema-mode gating, association shapes, required
// nuances, declarative rules).
//
// Pipeline: model definitions → Registry.Register (shape checks + rule
// compilation) → NormalizeFilterValue / NormalizeWriteValue per attribute →
// canonical value or a classified error.
//
// # Key concepts
//
//   - Loose coercion: a value is accepted if it is convertible to the declared
//     type ("123" is a fine number), not only if it already has that type.
//   - Null is not "optional": for plain scalars a null write is rejected with
//     a pointer to the type's base value; null is reserved for json/ref
//     scalars and non-required associations.
//   - Classified failures: every rejection wraps exactly one of the sentinel
//     errors (ErrShouldBeIgnored, ErrHighlyIrregular, ErrInvalidValue,
//     ErrRuleViolations, ErrValueNotUsable) so callers dispatch with errors.Is.
//   - Malformed schemas panic: an attribute with no shape, or a model with no
//     schema mode, is a bug in whatever compiled the schema, never bad input.
//
// # Example
//
//	reg := normalize.NewRegistry()
//	err := reg.Register(&normalize.ModelSchema{
//	    Identity:   "user",
//	    Mode:       normalize.ModeStrict,
//	    PrimaryKey: "id",
//	    Attributes: map[string]*normalize.AttributeDefinition{
//	        "id":   {Type: normalize.TypeNumber},
//	        "name": {Type: normalize.TypeString, Validations: normalize.Ruleset{"minLength": 2}},
//	    },
//	})
//	if err != nil { ... }
//	v, err := reg.NormalizeWriteValue("42", "id", "user", false) // float64(42)
//
// See Registry, ModelSchema and AttributeDefinition for the core types, and
// NormalizeFilterValue / NormalizeWriteValue for the two entry points.
package normalize
