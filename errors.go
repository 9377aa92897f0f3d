package normalize

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for normalize. Use errors.Is to check.
//
// The four write-path kinds (ErrShouldBeIgnored, ErrHighlyIrregular,
// ErrInvalidValue, ErrRuleViolations) and the filter-path kind
// (ErrValueNotUsable) form a closed taxonomy: NormalizeWriteValue and
// NormalizeFilterValue never fail with anything outside it except
// ErrNotRegistered for an unknown model. Malformed schemas panic instead,
// so they can never be mistaken for bad input.
var (
	// ErrNotRegistered means the model identity (or one referenced by an
	// association) is unknown to the registry.
	ErrNotRegistered = errors.New("model not registered")

	// ErrValueNotUsable means a filter value cannot be coerced to the
	// attribute's effective type.
	ErrValueNotUsable = errors.New("value not usable as a filter")

	// ErrShouldBeIgnored is not a failure of the value itself: the caller
	// should drop the key from the payload and continue.
	ErrShouldBeIgnored = errors.New("value should be ignored")

	// ErrHighlyIrregular means structural misuse: wrong shape for an
	// association, collection assignment without permission, a null for a
	// required association, an invalid primary key, or an invalid attribute
	// name under a loose schema.
	ErrHighlyIrregular = errors.New("highly irregular value")

	// ErrInvalidValue means a plain type mismatch against a scalar's declared
	// type, including null where null is not accepted.
	ErrInvalidValue = errors.New("invalid value")

	// ErrRuleViolations means a type-valid value failed one or more
	// declarative rules. Use Violations to get the full list.
	ErrRuleViolations = errors.New("value violates validation rules")
)

// NormalizationError reports one rejected attribute/value pair. Err wraps the
// sentinel kind for errors.Is dispatch.
type NormalizationError struct {
	Model     string
	Attribute string
	Reason    string
	Err       error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Model, e.Attribute, e.Reason)
}

// Unwrap supports errors.Is on the sentinel kind.
func (e *NormalizationError) Unwrap() error { return e.Err }

// RuleViolationError carries every violated rule for one attribute, never
// just the first, so a caller can report all problems at once.
type RuleViolationError struct {
	Model      string
	Attribute  string
	Violations []Violation
}

func (e *RuleViolationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Rule + ": " + v.Message
	}
	return fmt.Sprintf("%s.%s violates %d rule(s): %s", e.Model, e.Attribute, len(e.Violations), strings.Join(msgs, "; "))
}

func (e *RuleViolationError) Unwrap() error { return ErrRuleViolations }

// ShouldIgnore returns true if err signals "drop this key and continue"
// rather than a hard failure.
func ShouldIgnore(err error) bool {
	return errors.Is(err, ErrShouldBeIgnored)
}

// Violations returns the violated rules carried by err, or nil if err is not
// (and does not wrap) a RuleViolationError.
func Violations(err error) []Violation {
	var rve *RuleViolationError
	if errors.As(err, &rve) {
		return rve.Violations
	}
	return nil
}

func errNotUsable(model, attr, reason string) error {
	return &NormalizationError{Model: model, Attribute: attr, Reason: reason, Err: ErrValueNotUsable}
}

func errIgnored(model, attr, reason string) error {
	return &NormalizationError{Model: model, Attribute: attr, Reason: reason, Err: ErrShouldBeIgnored}
}

func errIrregular(model, attr, reason string) error {
	return &NormalizationError{Model: model, Attribute: attr, Reason: reason, Err: ErrHighlyIrregular}
}

func errInvalid(model, attr, reason string) error {
	return &NormalizationError{Model: model, Attribute: attr, Reason: reason, Err: ErrInvalidValue}
}
