package normalize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/invopop/jsonschema"
)

// JSONSchema exports the registered model as a JSON Schema, so external
// consumers (form builders, API docs) can validate payloads against the same
// shapes this package enforces. Scalar types map to their JSON Schema types,
// associations map to the target model's primary-key type (arrays thereof for
// plural associations), declarative rules map to the matching schema keywords,
// and a strict model closes the object with additionalProperties: false.
//
// Association targets are resolved through the registry, so every referenced
// model must be registered; an unknown target fails with ErrNotRegistered.
func (m *ModelSchema) JSONSchema() (*jsonschema.Schema, error) {
	if m.registry == nil {
		return nil, fmt.Errorf("model %q: %w", m.Identity, ErrNotRegistered)
	}
	names := make([]string, 0, len(m.Attributes))
	for name := range m.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	props := jsonschema.NewProperties()
	var required []string
	for _, name := range names {
		attr := m.Attributes[name]
		s, err := m.registry.attributeJSONSchema(attr)
		if err != nil {
			return nil, err
		}
		props.Set(name, s)
		if attr.Required {
			required = append(required, name)
		}
	}

	out := &jsonschema.Schema{
		Title:      m.Identity,
		Type:       "object",
		Properties: props,
		Required:   required,
	}
	if m.Mode == ModeStrict {
		out.AdditionalProperties = jsonschema.FalseSchema
	}
	return out, nil
}

func (r *Registry) attributeJSONSchema(attr *AttributeDefinition) (*jsonschema.Schema, error) {
	switch attr.Kind() {
	case KindSingular:
		keyType, err := r.primaryKeyType(attr.Model)
		if err != nil {
			return nil, err
		}
		return scalarJSONSchema(keyType, nil), nil
	case KindPlural:
		keyType, err := r.primaryKeyType(attr.Collection)
		if err != nil {
			return nil, err
		}
		return &jsonschema.Schema{Type: "array", Items: scalarJSONSchema(keyType, nil)}, nil
	default:
		return scalarJSONSchema(attr.Type, attr.Validations), nil
	}
}

func scalarJSONSchema(tag TypeTag, rules Ruleset) *jsonschema.Schema {
	var s *jsonschema.Schema
	switch tag {
	case TypeString:
		s = &jsonschema.Schema{Type: "string"}
	case TypeNumber:
		s = &jsonschema.Schema{Type: "number"}
	case TypeBoolean:
		s = &jsonschema.Schema{Type: "boolean"}
	default:
		// json and ref accept any shape.
		return jsonschema.TrueSchema
	}
	for name, param := range rules {
		applyRuleKeyword(s, name, param)
	}
	return s
}

// applyRuleKeyword mirrors ruleSchemaDoc onto the exported schema. Parameters
// were already vetted at registration, so malformed ones are skipped silently.
func applyRuleKeyword(s *jsonschema.Schema, name string, param any) {
	switch name {
	case "minLength":
		if n, ok := intParam(param); ok && n >= 0 {
			v := uint64(n)
			s.MinLength = &v
		}
	case "maxLength":
		if n, ok := intParam(param); ok && n >= 0 {
			v := uint64(n)
			s.MaxLength = &v
		}
	case "regex":
		if p, ok := param.(string); ok {
			s.Pattern = p
		}
	case "min":
		if f, ok := floatParam(param); ok {
			s.Minimum = json.Number(strconv.FormatFloat(f, 'f', -1, 64))
		}
	case "max":
		if f, ok := floatParam(param); ok {
			s.Maximum = json.Number(strconv.FormatFloat(f, 'f', -1, 64))
		}
	case "isIn":
		if vals, ok := listParam(param); ok {
			s.Enum = vals
		}
	case "isNotIn":
		if vals, ok := listParam(param); ok {
			s.Not = &jsonschema.Schema{Enum: vals}
		}
	case "isEmail":
		if enabled, ok := param.(bool); ok && enabled {
			s.Format = "email"
		}
	case "isNotEmptyString":
		if enabled, ok := param.(bool); ok && enabled {
			one := uint64(1)
			s.MinLength = &one
		}
	}
}
