package normalize

// Validate normalizes value as a write against one attribute of this model,
// with collection assignment disallowed. It is the ad-hoc entry point for
// callers outside the write pipeline (e.g. form-field validation) and
// re-raises every error from NormalizeWriteValue unchanged.
//
// The model must have been registered; calling Validate on an unregistered
// ModelSchema panics.
func (m *ModelSchema) Validate(attrName string, value any) (any, error) {
	if m.registry == nil {
		panic("normalize: Validate called on a model that was never registered")
	}
	return m.registry.NormalizeWriteValue(value, attrName, m.Identity, false)
}
