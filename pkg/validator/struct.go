package validator

import (
	"fmt"
	"reflect"
	"strings"
)

// Validation marks a struct as subject to validation. Declare it as a field,
// optionally tagged with the policy options:
//
//	type SignupForm struct {
//		_        validator.Validation `validation:"exhaustive"`
//		Username string               `validate:"required; length(3,32)" field:"username"`
//		Password string               `validate:"required; length(6,20)" field:"password"`
//		Confirm  string               `validate:"compare(password) 'passwords do not match'" field:"confirm"`
//		Address  Address              `field:"address,model"`
//	}
//
// Without the marker the struct has no policy and is never validated.
type Validation struct{}

var validationType = reflect.TypeFor[Validation]()

const (
	tagRules  = "validate"
	tagField  = "field"
	tagPolicy = "validation"
)

// fieldSpec is the parsed validation metadata of one struct field.
type fieldSpec struct {
	index []int
	name  string
	rules []Rule
	model reflect.Type // set for fields tagged as model
	bears bool         // carries a rule tag or the model option
}

// structSpec is the parsed validation metadata of a struct type.
type structSpec struct {
	policy *Policy
	fields []fieldSpec
}

// StructShape builds a shape from struct tags. v may be a struct value, a
// pointer to one, or a reflect.Type.
//
// Tags:
//   - a field of type Validation declares the policy; `validation:"exhaustive"`
//     switches to collecting all failures
//   - `validate:"..."` declares the rule chain in ParseRules syntax;
//     `validate:"-"` excludes the field entirely
//   - `field:"name"` overrides the field name, `field:",model"` (or
//     `field:"name,model"`) marks a field whose struct value is validated
//     recursively. Without a field tag the json tag name is used, then the Go
//     field name.
//
// Embedded structs without tags are flattened into the parent.
func StructShape(v any) (Shape, error) {
	t, err := structType(v)
	if err != nil {
		return nil, err
	}
	return buildStructShape(t, make(map[reflect.Type]*describedShape))
}

func structType(v any) (reflect.Type, error) {
	var t reflect.Type
	switch tv := v.(type) {
	case nil:
		return nil, ErrNotStruct
	case reflect.Type:
		t = tv
	default:
		t = reflect.TypeOf(v)
	}
	t = derefType(t)
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}
	return t, nil
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// buildStructShape registers the shape before filling its fields so that
// self-referencing types resolve to the same shape instead of recursing forever.
func buildStructShape(t reflect.Type, built map[reflect.Type]*describedShape) (*describedShape, error) {
	if s, ok := built[t]; ok {
		return s, nil
	}
	s := &describedShape{}
	built[t] = s

	spec, err := parseStruct(t)
	if err != nil {
		return nil, err
	}
	s.policy = spec.policy

	for _, fs := range spec.fields {
		if !fs.bears {
			continue
		}
		f := Field{Name: fs.name, Rules: fs.rules}
		if fs.model != nil {
			nested, err := buildStructShape(fs.model, built)
			if err != nil {
				return nil, err
			}
			f.Model = nested
		}
		s.fields = append(s.fields, f)
	}
	return s, nil
}

func parseStruct(t reflect.Type) (structSpec, error) {
	var spec structSpec
	if err := collectFields(t, nil, &spec); err != nil {
		return structSpec{}, err
	}
	return spec, nil
}

func collectFields(t reflect.Type, index []int, spec *structSpec) error {
	for i := range t.NumField() {
		sf := t.Field(i)
		idx := append(append([]int(nil), index...), i)

		if sf.Type == validationType {
			if index != nil {
				continue // policies of embedded structs do not leak into the parent
			}
			policy, err := parsePolicy(sf.Tag.Get(tagPolicy))
			if err != nil {
				return fmt.Errorf("%w: %s.%s: %v", ErrInvalidTag, t, sf.Name, err)
			}
			spec.policy = policy
			continue
		}

		rulesTag, hasRules := sf.Tag.Lookup(tagRules)
		fieldTag, hasField := sf.Tag.Lookup(tagField)
		if rulesTag == "-" {
			continue
		}

		if sf.Anonymous && !hasRules && !hasField {
			if et := derefType(sf.Type); et.Kind() == reflect.Struct {
				if err := collectFields(et, idx, spec); err != nil {
					return err
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		fs := fieldSpec{index: idx, name: fieldName(sf, fieldTag)}
		if hasRules {
			rules, err := ParseRules(rulesTag)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", t, sf.Name, err)
			}
			fs.rules = rules
			fs.bears = true
		}
		if hasField && hasOption(fieldTag, "model") {
			mt := derefType(sf.Type)
			if mt.Kind() != reflect.Struct {
				return fmt.Errorf("%w: %s.%s: model field must be a struct, got %s", ErrInvalidTag, t, sf.Name, sf.Type)
			}
			fs.model = mt
			fs.bears = true
		}
		spec.fields = append(spec.fields, fs)
	}
	return nil
}

func parsePolicy(tag string) (*Policy, error) {
	policy := &Policy{}
	for opt := range strings.SplitSeq(tag, ",") {
		switch strings.TrimSpace(opt) {
		case "":
		case "exhaustive", "full":
			policy.Exhaustive = true
		default:
			return nil, fmt.Errorf("unknown policy option %q", opt)
		}
	}
	return policy, nil
}

func fieldName(sf reflect.StructField, fieldTag string) string {
	if name, _, _ := strings.Cut(fieldTag, ","); name != "" {
		return name
	}
	if jsonTag := sf.Tag.Get("json"); jsonTag != "" {
		if name, _, _ := strings.Cut(jsonTag, ","); name != "" && name != "-" {
			return name
		}
	}
	return sf.Name
}

func hasOption(tag, opt string) bool {
	_, opts, _ := strings.Cut(tag, ",")
	for o := range strings.SplitSeq(opts, ",") {
		if strings.TrimSpace(o) == opt {
			return true
		}
	}
	return false
}

// Values flattens a struct into the field name -> value map the engine works
// on, applying the same naming and model merging as StructShape (see
// FlattenValues). Every exported field is included so cross-field validators
// can see fields that carry no rules. Pointer values are dereferenced; nil
// pointers become nil.
func Values(v any) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil pointer", ErrNotStruct)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, rv.Kind())
	}

	shape, err := buildStructShape(rv.Type(), make(map[reflect.Type]*describedShape))
	if err != nil {
		return nil, err
	}
	data, err := fieldValues(rv)
	if err != nil {
		return nil, err
	}
	return FlattenValues(shape, data), nil
}

// fieldValues maps the fields of a struct to their values by field name.
// Model fields keep their struct value.
func fieldValues(rv reflect.Value) (map[string]any, error) {
	spec, err := parseStruct(rv.Type())
	if err != nil {
		return nil, err
	}

	values := make(map[string]any, len(spec.fields))
	for _, fs := range spec.fields {
		values[fs.name] = nil
		fv, ok := fieldByIndex(rv, fs.index)
		if !ok {
			continue
		}
		if nv := derefValue(fv); nv.IsValid() && nv.CanInterface() {
			values[fs.name] = nv.Interface()
		}
	}
	return values, nil
}

// fieldByIndex walks embedded pointers, reporting false on a nil embedded pointer.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 {
			if v.Kind() == reflect.Pointer {
				if v.IsNil() {
					return reflect.Value{}, false
				}
				v = v.Elem()
			}
		}
		v = v.Field(x)
	}
	return v, true
}

func derefValue(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
