package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/validator"
)

func TestParseRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []validator.Rule
	}{
		{
			name: "empty",
			in:   "  ",
			want: nil,
		},
		{
			name: "bare names",
			in:   "required;email",
			want: []validator.Rule{{Name: "required"}, {Name: "email"}},
		},
		{
			name: "parameters",
			in:   "length(6, 20)",
			want: []validator.Rule{{Name: "length", Params: []string{"6", "20"}}},
		},
		{
			name: "empty parameter list",
			in:   "date()",
			want: []validator.Rule{{Name: "date", Params: []string{}}},
		},
		{
			name: "quoted parameter",
			in:   `regex('^[a-z]{2,4}$')`,
			want: []validator.Rule{{Name: "regex", Params: []string{"^[a-z]{2,4}$"}}},
		},
		{
			name: "custom message",
			in:   "required 'name is mandatory'; length(,10) 'at most %{1}'",
			want: []validator.Rule{
				{Name: "required", Message: "name is mandatory"},
				{Name: "length", Params: []string{"", "10"}, Message: "at most %{1}"},
			},
		},
		{
			name: "escaped quote",
			in:   `required 'can\'t be blank'`,
			want: []validator.Rule{{Name: "required", Message: "can't be blank"}},
		},
		{
			name: "trailing separator",
			in:   "required;",
			want: []validator.Rule{{Name: "required"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validator.ParseRules(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRules_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"length(1",
		"required 'open",
		"(1)",
		"required email",
		`regex('a\`,
	} {
		t.Run(in, func(t *testing.T) {
			_, err := validator.ParseRules(in)
			assert.ErrorIs(t, err, validator.ErrInvalidTag)
		})
	}
}

func TestRule_String(t *testing.T) {
	t.Parallel()

	rules := []validator.Rule{
		validator.NewRule(validator.RequiredRule),
		validator.NewRule(validator.LengthRule, "6", "20").WithMessage("6 to 20, please"),
		validator.NewRule(validator.RegexRule, `^(a|b)$`),
		validator.NewRule(validator.LengthRule, "", "3"),
	}

	for _, r := range rules {
		t.Run(r.String(), func(t *testing.T) {
			parsed, err := validator.ParseRules(r.String())
			require.NoError(t, err)
			require.Len(t, parsed, 1)
			assert.Equal(t, r, parsed[0])
		})
	}

	assert.Equal(t, "length(6,20) '6 to 20, please'", rules[1].String())
}

func TestRule_Param(t *testing.T) {
	t.Parallel()

	r := validator.NewRule(validator.CompareRule, "password")
	p, ok := r.Param(0)
	assert.True(t, ok)
	assert.Equal(t, "password", p)

	_, ok = r.Param(1)
	assert.False(t, ok)
}
