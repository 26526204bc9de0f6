package validator

import (
	"maps"
	"slices"
	"strings"
)

// Rule names a validator and carries its parameters and an optional custom
// failure message. Treat it as immutable once declared.
type Rule struct {
	Name    string
	Params  []string
	Message string
}

// NewRule creates a rule for the validator registered as name.
func NewRule(name string, params ...string) Rule {
	return Rule{Name: name, Params: slices.Clone(params)}
}

// WithMessage returns a copy of the rule using msg as its failure message.
// msg may reference %{field}, %{value} and %{0}, %{1}... placeholders.
func (r Rule) WithMessage(msg string) Rule {
	r.Params = slices.Clone(r.Params)
	r.Message = msg
	return r
}

// Param returns the i-th parameter, if declared.
func (r Rule) Param(i int) (string, bool) {
	if i < 0 || i >= len(r.Params) {
		return "", false
	}
	return r.Params[i], true
}

// String renders the rule in tag syntax, e.g. length(6,20).
func (r Rule) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Params) > 0 {
		b.WriteByte('(')
		for i, p := range r.Params {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteArg(p))
		}
		b.WriteByte(')')
	}
	if r.Message != "" {
		b.WriteByte(' ')
		b.WriteString(quote(r.Message))
	}
	return b.String()
}

// Policy is the shape-level validation policy. A shape without a policy is
// not validated at all; see ResolveShape.
type Policy struct {
	// Exhaustive collects a failure for every failing field instead of
	// stopping after the first one.
	Exhaustive bool
}

// Enabled returns a stop-at-first-failure policy.
func Enabled() *Policy {
	return &Policy{}
}

// Exhaustive returns a collect-all-failures policy.
func Exhaustive() *Policy {
	return &Policy{Exhaustive: true}
}

// RuleMap maps field names to their ordered rule chains.
// It is read-only once resolved and safe to share between goroutines.
type RuleMap map[string][]Rule

// Rules returns the chain declared for field.
func (m RuleMap) Rules(field string) []Rule {
	return m[field]
}

// Fields returns the field names in sorted order.
func (m RuleMap) Fields() []string {
	return slices.Sorted(maps.Keys(m))
}

// Clone returns a deep copy, for callers that need to modify a resolved map.
func (m RuleMap) Clone() RuleMap {
	if m == nil {
		return nil
	}
	out := make(RuleMap, len(m))
	for field, rules := range m {
		out[field] = cloneRules(rules)
	}
	return out
}

func cloneRules(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Name: r.Name, Params: slices.Clone(r.Params), Message: r.Message}
	}
	return out
}
