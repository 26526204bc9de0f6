package validator

import (
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Required fails when the value is absent: nil, a nil pointer, a blank
// string, or an empty slice, map or array.
func Required() Validator {
	return Func(RequiredRule, func(ctx Context) string {
		if isEmpty(ctx.Value()) {
			return Fail(ctx, "field is required")
		}
		return ""
	})
}

// Length checks the length of a value against length(min) or length(min,max).
// An empty or zero bound is unbounded. Strings are measured in characters after
// NFC normalization; slices, maps and arrays by their element count.
// Empty values pass; combine with required to reject them.
func Length() Validator {
	return Func(LengthRule, func(ctx Context) string {
		if isEmpty(ctx.Value()) {
			return ""
		}

		params := ctx.Params()
		if len(params) == 0 || len(params) > 2 {
			return invalidParams(LengthRule)
		}
		minLen, ok := intParam(params, 0)
		if !ok {
			return invalidParams(LengthRule)
		}
		maxLen, ok := intParam(params, 1)
		if !ok {
			return invalidParams(LengthRule)
		}

		n := valueLength(ctx.Value())
		switch {
		case maxLen > 0 && minLen > 0 && (n < minLen || n > maxLen):
			return Fail(ctx, "must be between %{0} and %{1} characters long")
		case minLen > 0 && n < minLen:
			return Fail(ctx, "must be at least %{0} characters long")
		case maxLen > 0 && n > maxLen:
			return Fail(ctx, "must be at most %{1} characters long")
		}
		return ""
	})
}

// intParam parses params[i]; a missing or empty parameter reads as 0.
func intParam(params []string, i int) (int, bool) {
	if i >= len(params) || strings.TrimSpace(params[i]) == "" {
		return 0, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(params[i]))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func valueLength(v any) int {
	rv := reflect.ValueOf(indirect(v))
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		if rv.Type().Elem().Kind() != reflect.Uint8 || rv.Kind() == reflect.Map {
			return rv.Len()
		}
	}
	return utf8.RuneCountInString(norm.NFC.String(stringValue(v)))
}
