// Package testutil provides canned schemas and a pre-filled registry for
// tests of code that consumes the normalize package.
package testutil

import (
	"github.com/ormkit/normalize"
)

// NewTestRegistry returns a Registry with the given models registered,
// panicking on registration failure. Suitable for tests only.
func NewTestRegistry(models ...*normalize.ModelSchema) *normalize.Registry {
	reg := normalize.NewRegistry()
	for _, m := range models {
		if err := reg.Register(m); err != nil {
			panic(err)
		}
	}
	return reg
}

// UserModel returns a strict model with a numeric primary key and a couple of
// validated scalars.
func UserModel() *normalize.ModelSchema {
	return &normalize.ModelSchema{
		Identity:   "user",
		Mode:       normalize.ModeStrict,
		PrimaryKey: "id",
		Attributes: map[string]*normalize.AttributeDefinition{
			"id":        {Type: normalize.TypeNumber},
			"name":      {Type: normalize.TypeString, Validations: normalize.Ruleset{"minLength": 2}},
			"email":     {Type: normalize.TypeString, Validations: normalize.Ruleset{"isEmail": true}},
			"createdAt": {Type: normalize.TypeNumber, AutoCreatedAt: true},
		},
	}
}

// PetModel returns a strict model with a singular association to "user" and a
// plural association to "tag". ownerRequired toggles whether the owner
// association may be set to null.
func PetModel(ownerRequired bool) *normalize.ModelSchema {
	return &normalize.ModelSchema{
		Identity:   "pet",
		Mode:       normalize.ModeStrict,
		PrimaryKey: "id",
		Attributes: map[string]*normalize.AttributeDefinition{
			"id":    {Type: normalize.TypeNumber},
			"name":  {Type: normalize.TypeString},
			"owner": {Model: "user", Required: ownerRequired},
			"tags":  {Collection: "tag"},
		},
	}
}

// TagModel returns a minimal strict model usable as a plural association
// target with a numeric primary key.
func TagModel() *normalize.ModelSchema {
	return &normalize.ModelSchema{
		Identity:   "tag",
		Mode:       normalize.ModeStrict,
		PrimaryKey: "id",
		Attributes: map[string]*normalize.AttributeDefinition{
			"id":    {Type: normalize.TypeNumber},
			"label": {Type: normalize.TypeString},
		},
	}
}

// WidgetModel returns a model with a string primary key; strict toggles the
// schema mode so tests can cover both the closed and open behaviors.
func WidgetModel(strict bool) *normalize.ModelSchema {
	mode := normalize.ModeLoose
	if strict {
		mode = normalize.ModeStrict
	}
	return &normalize.ModelSchema{
		Identity:   "widget",
		Mode:       mode,
		PrimaryKey: "sku",
		Attributes: map[string]*normalize.AttributeDefinition{
			"sku":   {Type: normalize.TypeString},
			"label": {Type: normalize.TypeString},
		},
	}
}
