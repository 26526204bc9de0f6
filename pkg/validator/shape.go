package validator

// Shape describes a validated data structure: its policy and the fields that
// carry rules. Struct tags (StructShape), YAML documents (LoadShapes) and the
// Describe builder all produce shapes.
type Shape interface {
	// Policy returns nil when the shape is not subject to validation.
	Policy() *Policy
	// Fields returns the rule-bearing fields in declaration order.
	Fields() []Field
}

// Field is a rule-bearing field of a shape.
type Field struct {
	// Name is the key the field's value is looked up by.
	Name string
	// Rules is the ordered rule chain of the field.
	Rules []Rule
	// Model is the shape of the field's value when it is itself validated.
	Model Shape
}

// IsModel reports whether the field is resolved by recursing into Model.
// Explicit rules on a model field take precedence over recursion.
func (f Field) IsModel() bool {
	return f.Model != nil && len(f.Rules) == 0
}

// Signature describes a callable whose parameters carry rules.
type Signature interface {
	Policy() *Policy
	Params() []Param
}

// Param is a rule-bearing parameter of a callable. Parameters are positional,
// so Name is optional; ResolveParams supplies names for the rest.
type Param struct {
	Name  string
	Rules []Rule
	Model Shape
}

// IsModel reports whether the parameter is resolved by recursing into Model.
func (p Param) IsModel() bool {
	return p.Model != nil && len(p.Rules) == 0
}

// Named returns a copy of the parameter with an explicit name.
func (p Param) Named(name string) Param {
	p.Name = name
	return p
}

type describedShape struct {
	policy *Policy
	fields []Field
}

func (s *describedShape) Policy() *Policy { return s.policy }
func (s *describedShape) Fields() []Field { return s.fields }

// Describe builds a shape from explicit declarations.
//
//	address := validator.Describe(validator.Enabled(),
//		validator.Leaf("zip", validator.NewRule("required")),
//	)
//	signup := validator.Describe(validator.Exhaustive(),
//		validator.Leaf("username", validator.NewRule("required")),
//		validator.Nested("address", address),
//	)
func Describe(policy *Policy, fields ...Field) Shape {
	return &describedShape{policy: policy, fields: fields}
}

// Leaf declares a field validated by its own rule chain.
func Leaf(name string, rules ...Rule) Field {
	return Field{Name: name, Rules: rules}
}

// Nested declares a model field whose rules come from model.
func Nested(name string, model Shape) Field {
	return Field{Name: name, Model: model}
}

type describedSignature struct {
	policy *Policy
	params []Param
}

func (s *describedSignature) Policy() *Policy { return s.policy }
func (s *describedSignature) Params() []Param { return s.params }

// DescribeFunc builds a callable signature from explicit parameter declarations.
func DescribeFunc(policy *Policy, params ...Param) Signature {
	return &describedSignature{policy: policy, params: params}
}

// Arg declares a parameter validated by its own rule chain.
func Arg(rules ...Rule) Param {
	return Param{Rules: rules}
}

// ModelArg declares a parameter whose value is itself a validated shape.
func ModelArg(model Shape) Param {
	return Param{Model: model}
}

// NoArg declares a parameter without rules; it only occupies its position.
func NoArg() Param {
	return Param{}
}
