package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strconv"
)

// Validator is a named, stateless check. Validate returns an empty string when
// the value satisfies the rule and a human-readable reason otherwise.
// A single instance serves every validation, possibly from many goroutines.
type Validator interface {
	Name() string
	Validate(ctx Context) string
}

// Context is the view a validator gets of one rule invocation.
type Context interface {
	// Field is the name of the field under test.
	Field() string
	// Value is the value of the field under test.
	Value() any
	// Lookup returns the value of another field of the same input, or nil.
	Lookup(field string) any
	// Params are the rule's parameters in declared order.
	Params() []string
	// Message is the rule's custom message template, empty when not set.
	Message() string
}

// Factory instantiates a validator at registration time.
type Factory func() (Validator, error)

// Static returns a factory that always yields v.
func Static(v Validator) Factory {
	return func() (Validator, error) {
		return v, nil
	}
}

type funcValidator struct {
	name string
	fn   func(Context) string
}

func (v funcValidator) Name() string                { return v.name }
func (v funcValidator) Validate(ctx Context) string { return v.fn(ctx) }

// Func adapts a plain function into a Validator named name.
func Func(name string, fn func(ctx Context) string) Validator {
	return funcValidator{name: name, fn: fn}
}

// ruleContext is built fresh for every rule invocation and never shared.
type ruleContext struct {
	field  string
	values map[string]any
	rule   Rule
}

func newRuleContext(field string, rule Rule, values map[string]any) ruleContext {
	return ruleContext{field: field, values: values, rule: rule}
}

func (c ruleContext) Field() string           { return c.field }
func (c ruleContext) Value() any              { return c.values[c.field] }
func (c ruleContext) Lookup(field string) any { return c.values[field] }
func (c ruleContext) Params() []string        { return slices.Clone(c.rule.Params) }
func (c ruleContext) Message() string         { return c.rule.Message }

// Fail returns the message for a failed check: the rule's custom message when
// present, def otherwise, with placeholders expanded by Format.
func Fail(ctx Context, def string) string {
	msg := ctx.Message()
	if msg == "" {
		msg = def
	}
	if msg == "" {
		msg = "is invalid"
	}
	return Format(msg, ctx)
}

var placeholderRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// Format expands %{field}, %{value} and positional %{0}, %{1}... parameter
// placeholders. Unknown placeholders are kept as is.
func Format(tmpl string, ctx Context) string {
	return interpolate(tmpl, contextParams(ctx))
}

func interpolate(tmpl string, params map[string]string) string {
	if !placeholderRegex.MatchString(tmpl) {
		return tmpl
	}
	return placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := params[name]; ok {
			return val
		}
		return match
	})
}

// contextParams returns the named values a message template may reference.
func contextParams(ctx Context) map[string]string {
	params := map[string]string{
		"field": ctx.Field(),
		"value": stringValue(ctx.Value()),
	}
	for i, p := range ctx.Params() {
		params[strconv.Itoa(i)] = p
	}
	return params
}

// stringValue renders v for messages and string-based checks.
func stringValue(v any) string {
	v = indirect(v)
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// indirect dereferences pointers, returning nil for nil pointers.
func indirect(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}
