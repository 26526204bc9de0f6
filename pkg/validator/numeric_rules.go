package validator

import (
	"reflect"
	"strconv"
	"strings"
)

// Numeric checks that the value is a number, optionally bounded by
// numeric(min) or numeric(min,max). An empty bound is unbounded.
// Numeric strings are accepted. Empty values pass.
func Numeric() Validator {
	return Func(NumericRule, func(ctx Context) string {
		if isEmpty(ctx.Value()) {
			return ""
		}

		params := ctx.Params()
		if len(params) > 2 {
			return invalidParams(NumericRule)
		}
		lower, hasLower, ok := floatParam(params, 0)
		if !ok {
			return invalidParams(NumericRule)
		}
		upper, hasUpper, ok := floatParam(params, 1)
		if !ok {
			return invalidParams(NumericRule)
		}

		n, ok := toFloat(ctx.Value())
		if !ok {
			return Fail(ctx, "must be a number")
		}
		switch {
		case hasLower && hasUpper && (n < lower || n > upper):
			return Fail(ctx, "must be between %{0} and %{1}")
		case hasLower && n < lower:
			return Fail(ctx, "must be at least %{0}")
		case hasUpper && n > upper:
			return Fail(ctx, "must be at most %{1}")
		}
		return ""
	})
}

func floatParam(params []string, i int) (value float64, present, ok bool) {
	if i >= len(params) || strings.TrimSpace(params[i]) == "" {
		return 0, false, true
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(params[i]), 64)
	if err != nil {
		return 0, false, false
	}
	return n, true, true
}

// toFloat converts numeric kinds and numeric strings to float64.
func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(indirect(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		n, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		return n, err == nil
	}
	return 0, false
}

// Comparison operators accepted by compare(field, op).
const (
	OpEqual          = "eq"
	OpNotEqual       = "ne"
	OpGreater        = "gt"
	OpGreaterOrEqual = "gte"
	OpLess           = "lt"
	OpLessOrEqual    = "lte"
)

var compareMessages = map[string]string{
	OpEqual:          "must match %{0}",
	OpNotEqual:       "must differ from %{0}",
	OpGreater:        "must be greater than %{0}",
	OpGreaterOrEqual: "must be greater than or equal to %{0}",
	OpLess:           "must be less than %{0}",
	OpLessOrEqual:    "must be less than or equal to %{0}",
}

// Compare checks the value against another field of the same input:
// compare(password) requires equality, compare(start, gt) an ordering.
// Both sides are compared as numbers when both parse as numbers, as strings
// otherwise. Empty values pass.
func Compare() Validator {
	return Func(CompareRule, func(ctx Context) string {
		if isEmpty(ctx.Value()) {
			return ""
		}

		params := ctx.Params()
		if len(params) == 0 || len(params) > 2 || params[0] == "" {
			return invalidParams(CompareRule)
		}
		op := OpEqual
		if len(params) == 2 && params[1] != "" {
			op = params[1]
		}
		msg, known := compareMessages[op]
		if !known {
			return invalidParams(CompareRule)
		}

		if !compareValues(ctx.Value(), ctx.Lookup(params[0]), op) {
			return Fail(ctx, msg)
		}
		return ""
	})
}

func compareValues(a, b any, op string) bool {
	var cmp int
	fa, aok := toFloat(a)
	fb, bok := toFloat(b)
	switch {
	case aok && bok:
		switch {
		case fa < fb:
			cmp = -1
		case fa > fb:
			cmp = 1
		}
	default:
		cmp = strings.Compare(stringValue(a), stringValue(b))
	}

	switch op {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpGreater:
		return cmp > 0
	case OpGreaterOrEqual:
		return cmp >= 0
	case OpLess:
		return cmp < 0
	case OpLessOrEqual:
		return cmp <= 0
	}
	return false
}
