package validator

import (
	"regexp"
	"sync"
)

type regexValidator struct {
	mu       sync.RWMutex
	compiled map[string]*regexp.Regexp
}

// Regex checks the value against the pattern in regex(pattern). Compiled
// patterns are cached for the validator's lifetime. Empty values pass.
func Regex() Validator {
	return &regexValidator{compiled: make(map[string]*regexp.Regexp)}
}

func (v *regexValidator) Name() string { return RegexRule }

func (v *regexValidator) Validate(ctx Context) string {
	if isEmpty(ctx.Value()) {
		return ""
	}

	params := ctx.Params()
	if len(params) != 1 {
		return invalidParams(RegexRule)
	}
	re, err := v.pattern(params[0])
	if err != nil {
		return invalidParams(RegexRule)
	}

	if !re.MatchString(stringValue(ctx.Value())) {
		return Fail(ctx, "has an invalid format")
	}
	return ""
}

func (v *regexValidator) pattern(p string) (*regexp.Regexp, error) {
	v.mu.RLock()
	re, ok := v.compiled[p]
	v.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(p)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.compiled[p] = re
	v.mu.Unlock()
	return re, nil
}
