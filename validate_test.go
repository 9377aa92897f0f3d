package normalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_DelegatesToWriteNormalization(t *testing.T) {
	reg := newTestRegistry(t)
	user, err := reg.Model("user")
	require.NoError(t, err)

	got, err := user.Validate("age", "34")
	require.NoError(t, err)
	assert.Equal(t, float64(34), got)

	_, err = user.Validate("age", "abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidValue))

	_, err = user.Validate("extra", "x")
	require.Error(t, err)
	assert.True(t, ShouldIgnore(err))

	_, err = user.Validate("handle", "A1")
	require.Error(t, err)
	assert.Len(t, Violations(err), 2)
}

func TestValidate_CollectionAlwaysBlocked(t *testing.T) {
	reg := newTestRegistry(t)
	pet, err := reg.Model("pet")
	require.NoError(t, err)

	_, err = pet.Validate("tags", []any{1, 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHighlyIrregular))
}

func TestValidate_UnregisteredModelPanics(t *testing.T) {
	m := &ModelSchema{Identity: "loner", Mode: ModeStrict, PrimaryKey: "id"}
	assert.Panics(t, func() { _, _ = m.Validate("id", 1) })
}
