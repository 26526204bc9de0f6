package validator

import (
	"reflect"
	"strings"
)

// Names of the built-in validators.
const (
	RequiredRule = "required"
	RegexRule    = "regex"
	EmailRule    = "email"
	LengthRule   = "length"
	DateRule     = "date"
	NumericRule  = "numeric"
	CompareRule  = "compare"
	UUIDRule     = "uuid"
)

// Builtins returns factories for every built-in validator.
func Builtins() []Factory {
	return []Factory{
		Static(Required()),
		func() (Validator, error) { return Regex(), nil },
		Static(Email()),
		Static(Length()),
		Static(Date()),
		Static(Numeric()),
		Static(Compare()),
		Static(UUID()),
	}
}

// RegisterBuiltins registers the built-in validators into r, replacing any
// validators registered under the same names.
func RegisterBuiltins(r *Registry) error {
	for _, f := range Builtins() {
		if err := r.Register(f); err != nil {
			return err
		}
	}
	return nil
}

// isEmpty reports whether v counts as absent: nil, a nil pointer, a blank
// string, or an empty slice, map or array.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() == 0
	}
	return false
}

// invalidParams is reported when a rule is declared with unusable parameters.
// It ignores the custom message so misconfiguration stays visible.
func invalidParams(rule string) string {
	return "invalid " + rule + " rule parameters"
}
