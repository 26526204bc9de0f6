package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Validator records a validator name under the key "validator".
func Validator(name string) slog.Attr {
	return slog.String("validator", name)
}

// Field records the field under test under the key "field".
func Field(name string) slog.Attr {
	return slog.String("field", name)
}

// Rule records a rule in tag syntax under the key "rule".
func Rule(rule string) slog.Attr {
	return slog.String("rule", rule)
}

// Passed records a rule outcome under the key "passed".
func Passed(ok bool) slog.Attr {
	return slog.Bool("passed", ok)
}

// Shape records a shape name under the key "shape".
func Shape(name string) slog.Attr {
	return slog.String("shape", name)
}

// Failures records the number of failing fields under the key "failures".
func Failures(n int) slog.Attr {
	return slog.Int("failures", n)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
