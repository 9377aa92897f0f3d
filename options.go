package normalize

import (
	"log/slog"
	"regexp"
)

// defaultAttrNamePattern accepts the attribute-name tokens a loose model
// tolerates for undeclared keys.
var defaultAttrNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type registryOptions struct {
	logger          *slog.Logger
	attrNamePattern *regexp.Regexp
	assertFormats   bool
}

// RegistryOption configures a Registry (e.g. WithLogger, WithAttrNamePattern).
type RegistryOption func(*registryOptions)

// WithLogger enables debug logging of registrations. Pass nil to keep the
// registry silent (the default).
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(o *registryOptions) {
		o.logger = logger
	}
}

// WithAttrNamePattern overrides the token pattern an undeclared attribute
// name must match under a loose schema.
func WithAttrNamePattern(pattern *regexp.Regexp) RegistryOption {
	return func(o *registryOptions) {
		if pattern != nil {
			o.attrNamePattern = pattern
		}
	}
}

// WithFormatAssertions controls whether format-based rules (isEmail) are
// enforced when rulesets compile. Enabled by default; disabling turns those
// rules into no-ops.
func WithFormatAssertions(enable bool) RegistryOption {
	return func(o *registryOptions) {
		o.assertFormats = enable
	}
}
