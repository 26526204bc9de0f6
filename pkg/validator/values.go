package validator

import (
	"reflect"
)

// FlattenValues merges nested objects stored under model field names into a
// single flat map, mirroring how ResolveShape flattens rule maps. Values under
// other keys are copied as is, so already flat input passes through unchanged.
// Nested values may be map[string]any or structs.
//
// A rule-bearing name takes its value from the shape whose rules ResolveShape
// kept for it, so rules never run against a sibling model's value. When that
// shape's object lacks the name, the name is left out. Names without rules
// keep the outermost value and are only filled in from nested objects when no
// outer value exists.
func FlattenValues(s Shape, data map[string]any) map[string]any {
	plain := make(map[string]any, len(data))
	ruled := make(map[string]any)
	newResolution(s).values(s, data, plain, ruled)
	return overlay(plain, ruled)
}

// absent marks a rule-bearing name whose owning object has no value for it.
type absent struct{}

// values splits data into plain entries and entries owned by rule-bearing
// fields. ruled is nil while walking a model that contributes no rules.
func (r *resolution) values(s Shape, data, plain, ruled map[string]any) {
	var fields []Field
	if s != nil {
		fields = s.Fields()
	}

	models := make(map[string]bool)
	for _, f := range fields {
		if f.IsModel() {
			models[f.Name] = true
		}
	}
	for key, v := range data {
		if models[key] {
			if _, ok := nestedValues(v); ok || v == nil {
				continue
			}
		}
		plain[key] = v
	}

	var inner []map[string]any
	for _, f := range fields {
		switch {
		case f.IsModel():
			if m := r.model(f.Model, data[f.Name], ruled); m != nil {
				inner = append(inner, m)
			}
		case ruled != nil && len(f.Rules) > 0 && f.Name != "":
			own(ruled, f.Name, data)
		}
	}
	fillMissing(plain, inner...)
}

// model walks the value of a model field and returns its plain entries, or
// nil when there is nothing to merge. Models already on the path are skipped.
func (r *resolution) model(s Shape, v any, ruled map[string]any) map[string]any {
	if r.visiting(s) {
		return nil
	}
	nested, _ := nestedValues(v)
	if s.Policy() == nil {
		ruled = nil
	}
	if nested == nil && ruled == nil {
		return nil
	}

	dst := make(map[string]any)
	r.stack = append(r.stack, s)
	r.values(s, nested, dst, ruled)
	r.stack = r.stack[:len(r.stack)-1]
	return dst
}

// own records the value data holds for a rule-bearing name.
func own(ruled map[string]any, name string, data map[string]any) {
	if v, ok := data[name]; ok {
		ruled[name] = v
		return
	}
	ruled[name] = absent{}
}

// fillMissing copies entries of src into dst for names dst does not hold yet.
// Earlier maps win.
func fillMissing(dst map[string]any, src ...map[string]any) {
	for _, m := range src {
		for k, v := range m {
			if _, ok := dst[k]; !ok {
				dst[k] = v
			}
		}
	}
}

// overlay writes ruled over plain, dropping absent names.
func overlay(plain, ruled map[string]any) map[string]any {
	for k, v := range ruled {
		if _, ok := v.(absent); ok {
			delete(plain, k)
			continue
		}
		plain[k] = v
	}
	return plain
}

// nestedValues returns the field map of a nested object. Struct model fields
// stay nested so the shape walk decides how they merge.
func nestedValues(v any) (map[string]any, bool) {
	switch nv := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return nv, true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	values, err := fieldValues(rv)
	if err != nil {
		return nil, false
	}
	return values, true
}
