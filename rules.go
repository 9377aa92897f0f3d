package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Ruleset declares named validation rules for a scalar attribute, e.g.
// Ruleset{"minLength": 2, "regex": "^[a-z]+$"}. Rules run only after the
// value has passed type coercion, and never against null.
//
// Supported rules: minLength, maxLength, regex, min, max, isIn, isNotIn,
// isEmail, isNotEmptyString. Each rule compiles to a single-keyword JSON
// Schema at registration time; an unknown rule or a bad parameter is a
// registration error.
type Ruleset map[string]any

// Violation is one failed rule.
type Violation struct {
	Rule    string
	Message string
}

type compiledRule struct {
	name    string
	message string
	schema  *jsonschema.Schema
}

// compiledRuleset evaluates rules in deterministic (sorted) order and never
// short-circuits: every violated rule contributes one Violation.
type compiledRuleset []compiledRule

func (rs compiledRuleset) check(value any) []Violation {
	var out []Violation
	for _, r := range rs {
		if err := r.schema.Validate(value); err != nil {
			out = append(out, Violation{Rule: r.name, Message: r.message})
		}
	}
	return out
}

// compileRuleset compiles each rule of rs into its own validator so that
// violations can be attributed to rule names one-to-one.
func compileRuleset(rs Ruleset, assertFormats bool) (compiledRuleset, error) {
	if len(rs) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(rs))
	for name := range rs {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make(compiledRuleset, 0, len(names))
	for _, name := range names {
		doc, message, err := ruleSchemaDoc(name, rs[name])
		if err != nil {
			return nil, err
		}
		if doc == nil {
			continue // rule declared as disabled, e.g. isEmail: false
		}
		schema, err := compileRuleSchema(doc, assertFormats)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		out = append(out, compiledRule{name: name, message: message, schema: schema})
	}
	return out, nil
}

func compileRuleSchema(doc map[string]any, assertFormats bool) (*jsonschema.Schema, error) {
	// Round-trip through JSON so the compiler sees the exact value shapes it
	// expects (json.Number for numerics).
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if assertFormats {
		c.AssertFormat()
	}
	if err := c.AddResource("rule.json", parsed); err != nil {
		return nil, err
	}
	return c.Compile("rule.json")
}

// ruleSchemaDoc maps one named rule to a JSON Schema fragment and a canned
// violation message. A nil doc (no error) means the rule is disabled.
func ruleSchemaDoc(name string, param any) (map[string]any, string, error) {
	switch name {
	case "minLength":
		n, ok := intParam(param)
		if !ok || n < 0 {
			return nil, "", fmt.Errorf("rule %q needs a non-negative integer parameter, got %v", name, param)
		}
		return map[string]any{"minLength": n}, fmt.Sprintf("must be at least %d characters long", n), nil
	case "maxLength":
		n, ok := intParam(param)
		if !ok || n < 0 {
			return nil, "", fmt.Errorf("rule %q needs a non-negative integer parameter, got %v", name, param)
		}
		return map[string]any{"maxLength": n}, fmt.Sprintf("must be at most %d characters long", n), nil
	case "regex":
		s, ok := param.(string)
		if !ok || s == "" {
			return nil, "", fmt.Errorf("rule %q needs a non-empty pattern string, got %v", name, param)
		}
		return map[string]any{"type": "string", "pattern": s}, fmt.Sprintf("must match pattern %q", s), nil
	case "min":
		f, ok := floatParam(param)
		if !ok {
			return nil, "", fmt.Errorf("rule %q needs a numeric parameter, got %v", name, param)
		}
		return map[string]any{"minimum": f}, fmt.Sprintf("must be at least %v", f), nil
	case "max":
		f, ok := floatParam(param)
		if !ok {
			return nil, "", fmt.Errorf("rule %q needs a numeric parameter, got %v", name, param)
		}
		return map[string]any{"maximum": f}, fmt.Sprintf("must be at most %v", f), nil
	case "isIn":
		vals, ok := listParam(param)
		if !ok || len(vals) == 0 {
			return nil, "", fmt.Errorf("rule %q needs a non-empty list parameter, got %v", name, param)
		}
		return map[string]any{"enum": vals}, fmt.Sprintf("must be one of %v", vals), nil
	case "isNotIn":
		vals, ok := listParam(param)
		if !ok || len(vals) == 0 {
			return nil, "", fmt.Errorf("rule %q needs a non-empty list parameter, got %v", name, param)
		}
		return map[string]any{"not": map[string]any{"enum": vals}}, fmt.Sprintf("must not be one of %v", vals), nil
	case "isEmail":
		enabled, ok := param.(bool)
		if !ok {
			return nil, "", fmt.Errorf("rule %q needs a boolean parameter, got %v", name, param)
		}
		if !enabled {
			return nil, "", nil
		}
		return map[string]any{"type": "string", "format": "email"}, "must be a valid email address", nil
	case "isNotEmptyString":
		enabled, ok := param.(bool)
		if !ok {
			return nil, "", fmt.Errorf("rule %q needs a boolean parameter, got %v", name, param)
		}
		if !enabled {
			return nil, "", nil
		}
		return map[string]any{"type": "string", "minLength": 1}, "must not be an empty string", nil
	default:
		return nil, "", fmt.Errorf("unknown validation rule %q", name)
	}
}

func intParam(param any) (int, bool) {
	f, ok := floatParam(param)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func floatParam(param any) (float64, bool) {
	switch v := param.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func listParam(param any) ([]any, bool) {
	switch v := param.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}
