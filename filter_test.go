package normalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFilterValue_NullIsAlwaysUsable(t *testing.T) {
	reg := newTestRegistry(t)
	tests := []struct {
		name  string
		attr  string
		model string
	}{
		{"string scalar", "name", "user"},
		{"number scalar", "age", "user"},
		{"boolean scalar", "active", "user"},
		{"json scalar", "profile", "user"},
		{"singular association", "owner", "pet"},
		{"required singular association", "vet", "pet"},
		{"undeclared attribute", "whatever", "widget"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.NormalizeFilterValue(nil, tt.attr, tt.model)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestNormalizeFilterValue_Scalars(t *testing.T) {
	reg := newTestRegistry(t)

	got, err := reg.NormalizeFilterValue("123", "age", "user")
	require.NoError(t, err)
	assert.Equal(t, float64(123), got)

	got, err = reg.NormalizeFilterValue(7, "name", "user")
	require.NoError(t, err)
	assert.Equal(t, "7", got)

	_, err = reg.NormalizeFilterValue("abc", "age", "user")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValueNotUsable))
}

func TestNormalizeFilterValue_SingularAssociation(t *testing.T) {
	reg := newTestRegistry(t)

	// Coerced against the target's primary-key type.
	got, err := reg.NormalizeFilterValue("7", "owner", "pet")
	require.NoError(t, err)
	assert.Equal(t, float64(7), got)

	// Filters use loose coercion, not primary-key coercion: a fractional
	// number stays usable so legacy rows remain matchable.
	got, err = reg.NormalizeFilterValue(7.5, "owner", "pet")
	require.NoError(t, err)
	assert.Equal(t, 7.5, got)

	_, err = reg.NormalizeFilterValue("abc", "owner", "pet")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValueNotUsable))
}

func TestNormalizeFilterValue_UndeclaredAttribute(t *testing.T) {
	reg := newTestRegistry(t)

	value := map[string]any{"a": 1, "b": []any{1, 2, 3}}
	got, err := reg.NormalizeFilterValue(value, "extra", "widget")
	require.NoError(t, err)
	assert.Equal(t, value, got)

	_, err = reg.NormalizeFilterValue(cyclicValue(), "extra", "widget")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValueNotUsable))
	assert.Contains(t, err.Error(), "JSON")
}

func TestNormalizeFilterValue_PluralAssociationPanics(t *testing.T) {
	reg := newTestRegistry(t)
	assert.Panics(t, func() {
		_, _ = reg.NormalizeFilterValue([]any{1, 2}, "tags", "pet")
	})
	// Even null does not get past the misuse assertion.
	assert.Panics(t, func() {
		_, _ = reg.NormalizeFilterValue(nil, "tags", "pet")
	})
}

func TestNormalizeFilterValue_UnknownModel(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.NormalizeFilterValue("x", "name", "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRegistered))
}
