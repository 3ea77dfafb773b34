// Package validation implements an ordered list of form validation rules.
// Rules are evaluated front to back and evaluation stops at the first
// violation, so a submission yields exactly one message, always the one
// for the earliest rule it breaks.
package validation

import (
	"strings"
	"unicode/utf8"
)

// Form holds submitted field values keyed by field name.
type Form map[string]string

// Rule pairs a predicate with the message reported when it fails.
type Rule struct {
	Check   func(f Form) bool // true = rule satisfied
	Message string
}

// Error is a single validation failure.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Apply evaluates rules in order and returns the first violation.
// Returns nil if every rule passes.
func Apply(f Form, rules []Rule) *Error {
	for _, r := range rules {
		if !r.Check(f) {
			return &Error{Message: r.Message}
		}
	}
	return nil
}

// Required returns a predicate that fails when any named field is empty
// after trimming whitespace.
func Required(fields ...string) func(Form) bool {
	return func(f Form) bool {
		for _, name := range fields {
			if strings.TrimSpace(f[name]) == "" {
				return false
			}
		}
		return true
	}
}

// MaxLen returns a predicate that fails when the field exceeds n characters.
// Length is counted in runes so multibyte names aren't penalized.
func MaxLen(field string, n int) func(Form) bool {
	return func(f Form) bool {
		return utf8.RuneCountInString(f[field]) <= n
	}
}

// FieldsEqual returns a predicate that fails when two fields differ.
func FieldsEqual(a, b string) func(Form) bool {
	return func(f Form) bool {
		return f[a] == f[b]
	}
}
