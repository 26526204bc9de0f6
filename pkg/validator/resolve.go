package validator

import (
	"fmt"
	"reflect"
)

// ResolveShape extracts the policy and the flat rule map of a shape.
//
// A shape without a policy yields (nil, nil) and must not be executed.
// A shape with a policy but no rule-bearing fields yields an empty map.
//
// Model fields without their own rules are resolved recursively and their
// entries are merged into the parent map by bare field name: a nested "zip"
// becomes "zip", not "address.zip". When two nested shapes declare the same
// field name the one processed later overwrites the earlier entry without any
// error. Callers relying on nested shapes must keep field names unique across
// them. Nested shapes without a policy of their own contribute nothing.
func ResolveShape(s Shape) (*Policy, RuleMap) {
	if s == nil {
		return nil, nil
	}
	policy := s.Policy()
	if policy == nil {
		return nil, nil
	}

	rules := make(RuleMap)
	r := newResolution(s)
	r.fields(s.Fields(), rules)

	p := *policy
	return &p, rules
}

// ResolveParams extracts the policy and the flat rule map of a callable's
// parameters. names supplies a name for each positional parameter; a
// parameter's own Name overrides it. Model parameters without rules recurse
// into their shape exactly like model fields do in ResolveShape.
func ResolveParams(sig Signature, names []string) (*Policy, RuleMap, error) {
	if sig == nil {
		return nil, nil, nil
	}
	policy := sig.Policy()
	if policy == nil {
		return nil, nil, nil
	}

	rules := make(RuleMap)
	r := newResolution(nil)
	for i, param := range sig.Params() {
		if param.IsModel() {
			r.merge(param.Model, rules)
			continue
		}
		if len(param.Rules) == 0 {
			continue
		}

		name := param.Name
		if name == "" && i < len(names) {
			name = names[i]
		}
		if name == "" {
			return nil, nil, fmt.Errorf("%w: parameter %d", ErrParamName, i)
		}
		rules[name] = cloneRules(param.Rules)
	}

	p := *policy
	return &p, rules, nil
}

// resolution tracks the shapes on the current recursion path so that
// self-referencing models terminate.
type resolution struct {
	stack []Shape
}

func newResolution(root Shape) *resolution {
	r := &resolution{}
	if root != nil {
		r.stack = append(r.stack, root)
	}
	return r
}

func (r *resolution) fields(fields []Field, dst RuleMap) {
	for _, f := range fields {
		switch {
		case f.IsModel():
			r.merge(f.Model, dst)
		case len(f.Rules) > 0 && f.Name != "":
			dst[f.Name] = cloneRules(f.Rules)
		}
	}
}

// merge resolves a nested shape and splices its entries into dst.
func (r *resolution) merge(s Shape, dst RuleMap) {
	if s == nil || s.Policy() == nil || r.visiting(s) {
		return
	}
	r.stack = append(r.stack, s)
	r.fields(s.Fields(), dst)
	r.stack = r.stack[:len(r.stack)-1]
}

// visiting reports whether s is already on the path. Shapes holding values
// that cannot be compared are never considered visited.
func (r *resolution) visiting(s Shape) bool {
	if !reflect.ValueOf(s).Comparable() {
		return false
	}
	for _, on := range r.stack {
		if on == s {
			return true
		}
	}
	return false
}
