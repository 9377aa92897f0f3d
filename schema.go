package normalize

import (
	"fmt"
	"sync"
)

// SchemaMode says how a model treats attribute names outside its declared
// attribute map.
type SchemaMode int

const (
	// ModeUnset is the zero value; Register rejects it. A model that somehow
	// reaches a normalizer with ModeUnset panics (schema compiler bug).
	ModeUnset SchemaMode = iota
	// ModeStrict rejects payload keys not present in the attribute map.
	ModeStrict
	// ModeLoose tolerates undeclared keys, treating their values as opaque JSON.
	ModeLoose
)

// AttrKind is the shape of an attribute definition. Exactly one holds per
// attribute.
type AttrKind int

const (
	// KindScalar is a plain typed attribute (Type is set).
	KindScalar AttrKind = iota + 1
	// KindSingular stores the primary key of one related record (Model is set).
	KindSingular
	// KindPlural represents many related records (Collection is set); never
	// assigned directly without explicit opt-in.
	KindPlural
)

// AttributeDefinition describes one schema field. Exactly one of Type, Model
// and Collection must be set; Register enforces this and Kind asserts it
// defensively. Definitions are immutable once registered and safely shared
// across concurrent normalization calls.
type AttributeDefinition struct {
	// Type makes this a scalar attribute of the given primitive type.
	Type TypeTag
	// Model makes this a singular association; the storable value is the
	// target model's primary-key type.
	Model string
	// Collection makes this a plural association to the target model.
	Collection string

	// Required applies to scalars and singular associations.
	Required bool
	// AutoCreatedAt / AutoUpdatedAt mark auto-managed timestamps; an empty
	// string is never accepted for them.
	AutoCreatedAt bool
	AutoUpdatedAt bool

	// Validations are declarative rules, compiled at registration. Scalars only.
	Validations Ruleset

	rules compiledRuleset
}

// Kind returns the attribute's shape. It panics when not exactly one of Type,
// Model and Collection is set: that is a schema compiler bug, not bad input,
// and must never surface as an ordinary error kind.
func (a *AttributeDefinition) Kind() AttrKind {
	switch {
	case a.Type != "" && a.Model == "" && a.Collection == "":
		return KindScalar
	case a.Type == "" && a.Model != "" && a.Collection == "":
		return KindSingular
	case a.Type == "" && a.Model == "" && a.Collection != "":
		return KindPlural
	default:
		panic(fmt.Sprintf("normalize: malformed attribute definition: exactly one of Type, Model, Collection must be set (type=%q model=%q collection=%q)", a.Type, a.Model, a.Collection))
	}
}

// ModelSchema is one model's compiled schema: identity, schema mode, primary
// key attribute name, and the attribute map. Immutable after Register.
type ModelSchema struct {
	Identity   string
	Mode       SchemaMode
	PrimaryKey string
	Attributes map[string]*AttributeDefinition

	registry *Registry
}

// Attribute returns the definition for name, or (nil, false) when the model
// does not declare it. Undeclared is legitimate: loose models accept filters
// and writes on undeclared attributes.
func (m *ModelSchema) Attribute(name string) (*AttributeDefinition, bool) {
	attr, ok := m.Attributes[name]
	return attr, ok
}

// Registry holds registered model schemas and exposes the normalization
// entry points. Registration is guarded by a mutex; registered models are
// read-only and safe for concurrent normalization.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*ModelSchema
	opts   registryOptions
}

// NewRegistry creates a Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	o := registryOptions{
		attrNamePattern: defaultAttrNamePattern,
		assertFormats:   true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry{
		models: make(map[string]*ModelSchema),
		opts:   o,
	}
}

// Register validates and installs a model schema. It enforces what the
// normalizers later assume: a set schema mode, exactly one shape per
// attribute, flags only where they make sense, a declared scalar primary key
// typed string or number, and compilable rulesets. Registering the same
// identity again replaces the previous schema. The model must not be mutated
// after Register returns.
func (r *Registry) Register(m *ModelSchema) error {
	if m == nil || m.Identity == "" {
		return fmt.Errorf("model identity must not be empty")
	}
	if m.Mode != ModeStrict && m.Mode != ModeLoose {
		return fmt.Errorf("model %q: schema mode must be ModeStrict or ModeLoose", m.Identity)
	}
	if m.PrimaryKey == "" {
		return fmt.Errorf("model %q: primary key attribute name must be set", m.Identity)
	}
	for name, attr := range m.Attributes {
		if err := r.checkAttribute(name, attr); err != nil {
			return fmt.Errorf("model %q: %w", m.Identity, err)
		}
	}
	pk, ok := m.Attributes[m.PrimaryKey]
	if !ok {
		return fmt.Errorf("model %q: primary key %q is not a declared attribute", m.Identity, m.PrimaryKey)
	}
	if pk.Kind() != KindScalar || (pk.Type != TypeString && pk.Type != TypeNumber) {
		return fmt.Errorf("model %q: primary key %q must be a string or number scalar", m.Identity, m.PrimaryKey)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	m.registry = r
	r.models[m.Identity] = m
	if r.opts.logger != nil {
		r.opts.logger.Debug("registered model", "identity", m.Identity, "attributes", len(m.Attributes))
	}
	return nil
}

func (r *Registry) checkAttribute(name string, attr *AttributeDefinition) error {
	if attr == nil {
		return fmt.Errorf("attribute %q: definition must not be nil", name)
	}
	set := 0
	if attr.Type != "" {
		set++
		if !validTypeTags[attr.Type] {
			return fmt.Errorf("attribute %q: unknown type %q", name, attr.Type)
		}
	}
	if attr.Model != "" {
		set++
	}
	if attr.Collection != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("attribute %q: exactly one of Type, Model, Collection must be set", name)
	}
	if attr.Kind() != KindScalar {
		if attr.AutoCreatedAt || attr.AutoUpdatedAt {
			return fmt.Errorf("attribute %q: auto timestamps only apply to scalar attributes", name)
		}
		if len(attr.Validations) > 0 {
			return fmt.Errorf("attribute %q: validation rules only apply to scalar attributes", name)
		}
	}
	if attr.Kind() == KindPlural && attr.Required {
		return fmt.Errorf("attribute %q: a plural association cannot be required", name)
	}
	if attr.AutoCreatedAt && attr.AutoUpdatedAt {
		return fmt.Errorf("attribute %q: at most one auto timestamp flag may be set", name)
	}
	rules, err := compileRuleset(attr.Validations, r.opts.assertFormats)
	if err != nil {
		return fmt.Errorf("attribute %q: %w", name, err)
	}
	attr.rules = rules
	return nil
}

// Model resolves a model identity, failing with ErrNotRegistered when unknown.
func (r *Registry) Model(identity string) (*ModelSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[identity]
	if !ok {
		return nil, fmt.Errorf("model %q: %w", identity, ErrNotRegistered)
	}
	return m, nil
}

// Attribute resolves one attribute definition, failing with ErrNotRegistered
// when either the model or the attribute is unknown.
func (r *Registry) Attribute(identity, name string) (*AttributeDefinition, error) {
	m, err := r.Model(identity)
	if err != nil {
		return nil, err
	}
	attr, ok := m.Attribute(name)
	if !ok {
		return nil, fmt.Errorf("attribute %q of model %q: %w", name, identity, ErrNotRegistered)
	}
	return attr, nil
}

// primaryKeyType resolves the primary-key type of an association target.
func (r *Registry) primaryKeyType(identity string) (TypeTag, error) {
	m, err := r.Model(identity)
	if err != nil {
		return "", err
	}
	return m.Attributes[m.PrimaryKey].Type, nil
}
