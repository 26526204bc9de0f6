package validator

import (
	"net/mail"
	"strings"
	"time"
)

// DefaultDateLayout is the layout used by the date validator without parameters.
const DefaultDateLayout = time.DateOnly

// Email checks for an RFC 5322 address with a dotted domain. Empty values pass.
func Email() Validator {
	return Func(EmailRule, func(ctx Context) string {
		if isEmpty(ctx.Value()) {
			return ""
		}
		if !validEmail(stringValue(ctx.Value())) {
			return Fail(ctx, "must be a valid email address")
		}
		return ""
	})
}

func validEmail(value string) bool {
	value = strings.TrimSpace(value)

	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}

	localPart, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || localPart == "" {
		return false
	}

	// Domain must contain at least one dot and cannot start/end with dot
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

// Date checks that a string parses with the Go time layout given as
// date(layout), DefaultDateLayout otherwise. time.Time values pass unless zero.
// Empty values pass.
func Date() Validator {
	return Func(DateRule, func(ctx Context) string {
		value := indirect(ctx.Value())
		if isEmpty(value) {
			return ""
		}

		layout := DefaultDateLayout
		if params := ctx.Params(); len(params) > 0 && params[0] != "" {
			layout = params[0]
		}

		if t, ok := value.(time.Time); ok {
			if t.IsZero() {
				return Fail(ctx, "must be a valid date")
			}
			return ""
		}
		if _, err := time.Parse(layout, strings.TrimSpace(stringValue(value))); err != nil {
			return Fail(ctx, "must be a valid date in format "+layout)
		}
		return ""
	})
}
