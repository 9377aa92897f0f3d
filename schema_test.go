package normalize

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeDefinition_Kind(t *testing.T) {
	assert.Equal(t, KindScalar, (&AttributeDefinition{Type: TypeString}).Kind())
	assert.Equal(t, KindSingular, (&AttributeDefinition{Model: "user"}).Kind())
	assert.Equal(t, KindPlural, (&AttributeDefinition{Collection: "tag"}).Kind())
	assert.Panics(t, func() { (&AttributeDefinition{}).Kind() })
	assert.Panics(t, func() { (&AttributeDefinition{Type: TypeString, Model: "user"}).Kind() })
}

func TestRegister_Validation(t *testing.T) {
	valid := func() *ModelSchema {
		return &ModelSchema{
			Identity:   "thing",
			Mode:       ModeStrict,
			PrimaryKey: "id",
			Attributes: map[string]*AttributeDefinition{
				"id": {Type: TypeNumber},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*ModelSchema)
		errHas string
	}{
		{"empty identity", func(m *ModelSchema) { m.Identity = "" }, "identity"},
		{"mode unset", func(m *ModelSchema) { m.Mode = ModeUnset }, "schema mode"},
		{"no primary key name", func(m *ModelSchema) { m.PrimaryKey = "" }, "primary key"},
		{"primary key not declared", func(m *ModelSchema) { m.PrimaryKey = "uuid" }, "not a declared attribute"},
		{
			"primary key wrong type",
			func(m *ModelSchema) { m.Attributes["id"] = &AttributeDefinition{Type: TypeBoolean} },
			"string or number",
		},
		{
			"primary key is association",
			func(m *ModelSchema) {
				m.Attributes["id"] = &AttributeDefinition{Model: "thing"}
			},
			"string or number",
		},
		{
			"attribute with no shape",
			func(m *ModelSchema) { m.Attributes["x"] = &AttributeDefinition{} },
			"exactly one of",
		},
		{
			"attribute with two shapes",
			func(m *ModelSchema) { m.Attributes["x"] = &AttributeDefinition{Type: TypeString, Collection: "tag"} },
			"exactly one of",
		},
		{
			"unknown type tag",
			func(m *ModelSchema) { m.Attributes["x"] = &AttributeDefinition{Type: "datetime"} },
			"unknown type",
		},
		{
			"required plural",
			func(m *ModelSchema) { m.Attributes["x"] = &AttributeDefinition{Collection: "tag", Required: true} },
			"cannot be required",
		},
		{
			"auto timestamp on association",
			func(m *ModelSchema) { m.Attributes["x"] = &AttributeDefinition{Model: "thing", AutoCreatedAt: true} },
			"scalar",
		},
		{
			"rules on association",
			func(m *ModelSchema) {
				m.Attributes["x"] = &AttributeDefinition{Model: "thing", Validations: Ruleset{"minLength": 1}}
			},
			"scalar",
		},
		{
			"both auto timestamp flags",
			func(m *ModelSchema) {
				m.Attributes["x"] = &AttributeDefinition{Type: TypeNumber, AutoCreatedAt: true, AutoUpdatedAt: true}
			},
			"at most one",
		},
		{
			"uncompilable ruleset",
			func(m *ModelSchema) {
				m.Attributes["x"] = &AttributeDefinition{Type: TypeString, Validations: Ruleset{"isPrime": true}}
			},
			"unknown validation rule",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			m := valid()
			tt.mutate(m)
			err := reg.Register(m)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errHas)
		})
	}

	reg := NewRegistry()
	require.NoError(t, reg.Register(valid()))
}

func TestRegister_ReplacesExisting(t *testing.T) {
	reg := newTestRegistry(t)
	replacement := &ModelSchema{
		Identity:   "widget",
		Mode:       ModeStrict,
		PrimaryKey: "sku",
		Attributes: map[string]*AttributeDefinition{
			"sku": {Type: TypeString},
		},
	}
	require.NoError(t, reg.Register(replacement))
	m, err := reg.Model("widget")
	require.NoError(t, err)
	assert.Equal(t, ModeStrict, m.Mode)
	assert.Len(t, m.Attributes, 1)
}

func TestRegister_WithLogger(t *testing.T) {
	reg := newTestRegistry(t, WithLogger(slog.Default()))
	_, err := reg.Model("user")
	require.NoError(t, err)
}

func TestModelLookup(t *testing.T) {
	reg := newTestRegistry(t)

	m, err := reg.Model("user")
	require.NoError(t, err)
	assert.Equal(t, "user", m.Identity)

	_, err = reg.Model("ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRegistered))
}

func TestAttributeLookup(t *testing.T) {
	reg := newTestRegistry(t)

	attr, err := reg.Attribute("pet", "owner")
	require.NoError(t, err)
	assert.Equal(t, KindSingular, attr.Kind())
	assert.Equal(t, "user", attr.Model)

	_, err = reg.Attribute("pet", "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRegistered))

	_, err = reg.Attribute("ghost", "owner")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRegistered))
}
