package validator_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/rulekit/pkg/validator"
)

// check runs a single rule against value under the field name "f" and returns
// the failure message, or an empty string when the rule passes.
func check(t *testing.T, rule validator.Rule, value any, others ...any) string {
	t.Helper()
	values := map[string]any{"f": value}
	for i := 0; i+1 < len(others); i += 2 {
		values[others[i].(string)] = others[i+1]
	}
	errs := validator.NewEngine(validator.WithRegistry(validator.NewDefaultRegistry())).
		Execute(validator.Policy{}, validator.RuleMap{"f": {rule}}, values)
	return errs.Get("f")
}

func TestRequired(t *testing.T) {
	t.Parallel()

	rule := validator.NewRule(validator.RequiredRule)
	var nilPtr *string
	filled := "x"

	for name, value := range map[string]any{
		"nil":         nil,
		"empty":       "",
		"whitespace":  "   ",
		"nil pointer": nilPtr,
		"empty slice": []string{},
		"empty map":   map[string]int{},
	} {
		t.Run("fails for "+name, func(t *testing.T) {
			assert.Equal(t, "field is required", check(t, rule, value))
		})
	}

	for name, value := range map[string]any{
		"string":  "john",
		"zero":    0,
		"false":   false,
		"pointer": &filled,
		"slice":   []int{1},
	} {
		t.Run("passes for "+name, func(t *testing.T) {
			assert.Empty(t, check(t, rule, value))
		})
	}
}

func TestLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params []string
		value  any
		want   string
	}{
		{"within bounds", []string{"3", "5"}, "abcd", ""},
		{"too short", []string{"3", "5"}, "ab", "must be between 3 and 5 characters long"},
		{"too long", []string{"3", "5"}, "abcdef", "must be between 3 and 5 characters long"},
		{"min only", []string{"3"}, "ab", "must be at least 3 characters long"},
		{"max only", []string{"", "2"}, "abc", "must be at most 2 characters long"},
		{"counts characters not bytes", []string{"1", "4"}, "héllo", "must be between 1 and 4 characters long"},
		{"combining marks normalize", []string{"1", "1"}, "e\u0301", ""},
		{"slice length", []string{"2"}, []string{"a"}, "must be at least 2 characters long"},
		{"empty passes", []string{"3"}, "", ""},
		{"no params", nil, "abc", "invalid length rule parameters"},
		{"bad param", []string{"x"}, "abc", "invalid length rule parameters"},
		{"too many params", []string{"1", "2", "3"}, "abc", "invalid length rule parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, check(t, validator.NewRule(validator.LengthRule, tt.params...), tt.value))
		})
	}
}

func TestRegex(t *testing.T) {
	t.Parallel()

	zip := validator.NewRule(validator.RegexRule, `^[0-9]{5}$`)
	assert.Empty(t, check(t, zip, "12345"))
	assert.Empty(t, check(t, zip, ""))
	assert.Equal(t, "has an invalid format", check(t, zip, "1234"))
	assert.Equal(t, "zip must have 5 digits", check(t, zip.WithMessage("zip must have 5 digits"), "abc"))
	assert.Equal(t, "invalid regex rule parameters", check(t, validator.NewRule(validator.RegexRule, `(`), "abc"))
	assert.Equal(t, "invalid regex rule parameters", check(t, validator.NewRule(validator.RegexRule), "abc"))
}

func TestEmail(t *testing.T) {
	t.Parallel()

	rule := validator.NewRule(validator.EmailRule)
	for _, valid := range []string{"user@example.com", "first.last+tag@sub.example.org", ""} {
		assert.Empty(t, check(t, rule, valid), valid)
	}
	for _, invalid := range []string{"plain", "user@localhost", "John <john@example.com>", "user@.example.com", "user@example..com"} {
		assert.Equal(t, "must be a valid email address", check(t, rule, invalid), invalid)
	}
}

func TestDate(t *testing.T) {
	t.Parallel()

	assert.Empty(t, check(t, validator.NewRule(validator.DateRule), "2024-02-29"))
	assert.Equal(t, "must be a valid date in format 2006-01-02",
		check(t, validator.NewRule(validator.DateRule), "2023-02-29"))
	assert.Empty(t, check(t, validator.NewRule(validator.DateRule, "02/01/2006"), "31/12/2024"))
	assert.Empty(t, check(t, validator.NewRule(validator.DateRule), time.Now()))
	assert.Equal(t, "must be a valid date", check(t, validator.NewRule(validator.DateRule), time.Time{}))
}

func TestNumeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params []string
		value  any
		want   string
	}{
		{"int", nil, 42, ""},
		{"numeric string", nil, " 3.14 ", ""},
		{"not a number", nil, "abc", "must be a number"},
		{"between", []string{"1", "10"}, 11, "must be between 1 and 10"},
		{"min", []string{"18"}, "17", "must be at least 18"},
		{"max", []string{"", "5"}, 6.5, "must be at most 5"},
		{"bad bound", []string{"x"}, 1, "invalid numeric rule parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, check(t, validator.NewRule(validator.NumericRule, tt.params...), tt.value))
		})
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	assert.Empty(t, check(t, validator.NewRule(validator.CompareRule, "other"), "a", "other", "a"))
	assert.Equal(t, "must match other", check(t, validator.NewRule(validator.CompareRule, "other"), "a", "other", "b"))
	assert.Empty(t, check(t, validator.NewRule(validator.CompareRule, "start", validator.OpGreater), 10, "start", "9"))
	assert.Equal(t, "must be greater than start",
		check(t, validator.NewRule(validator.CompareRule, "start", validator.OpGreater), "10", "start", 10))
	assert.Empty(t, check(t, validator.NewRule(validator.CompareRule, "old", validator.OpNotEqual), "new", "old", "old"))
	assert.Equal(t, "invalid compare rule parameters", check(t, validator.NewRule(validator.CompareRule, "x", "between"), "a"))
	assert.Equal(t, "invalid compare rule parameters", check(t, validator.NewRule(validator.CompareRule), "a"))
}

func TestUUID(t *testing.T) {
	t.Parallel()

	v4 := uuid.New()
	assert.Empty(t, check(t, validator.NewRule(validator.UUIDRule), v4.String()))
	assert.Empty(t, check(t, validator.NewRule(validator.UUIDRule, "4"), v4))
	assert.Equal(t, "must be a valid UUID", check(t, validator.NewRule(validator.UUIDRule), "not-a-uuid"))
	assert.Equal(t, "must be a valid UUID", check(t, validator.NewRule(validator.UUIDRule), "{"+v4.String()+"}"))
	assert.Equal(t, "must be a valid UUID", check(t, validator.NewRule(validator.UUIDRule), uuid.Nil))
	assert.Equal(t, "must be a valid UUID version 7", check(t, validator.NewRule(validator.UUIDRule, "7"), v4.String()))
	assert.Equal(t, "invalid uuid rule parameters", check(t, validator.NewRule(validator.UUIDRule, "9"), v4.String()))
}

func TestFormat(t *testing.T) {
	t.Parallel()

	v := validator.Func("echo", func(ctx validator.Context) string {
		return validator.Format("%{field}=%{value} [%{0}] %{unknown}", ctx)
	})
	r := validator.NewRegistry()
	r.MustRegister(validator.Static(v))
	e := validator.NewEngine(validator.WithRegistry(r))

	errs := e.Execute(validator.Policy{}, validator.RuleMap{"age": {validator.NewRule("echo", "x")}}, map[string]any{"age": 7})
	assert.Equal(t, "age=7 [x] %{unknown}", errs.Get("age"))
}
