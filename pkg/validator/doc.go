// Package validator is a declarative validation engine: a registry of named,
// pluggable validators, a resolver that turns shape declarations into a flat
// map of field name to rule chain, and an engine that runs those chains
// against field values and reports one failure per failing field.
//
// # Architecture
//
// The package is split into three layers, leaves first:
//
//   - Validator, Context, Registry: the validator contract and the name ->
//     instance registry. Register instantiates a validator through a Factory
//     and replaces any validator of the same name. A failed instantiation is a
//     *RegistrationError and leaves the registry untouched. Default returns a
//     process-wide registry preloaded with the built-ins (required, regex,
//     email, length, date, numeric, compare, uuid).
//   - Shape, Signature, ResolveShape, ResolveParams: rule resolution. A shape
//     carries a Policy (nil means "not validated") and rule-bearing fields.
//     Model fields without own rules are resolved recursively and merged into
//     the parent by bare field name; a later nested field silently overwrites
//     an earlier one with the same name. Shapes come from Describe, from
//     struct tags (StructShape) or from YAML documents (LoadShapes).
//   - Engine: Execute runs each field's rules in declared order, stops a field
//     at its first failing rule, skips rules naming unregistered validators,
//     and stops after the first failing field unless the policy is exhaustive.
//
// # Usage
//
//	type SignupForm struct {
//		_        validator.Validation `validation:"exhaustive"`
//		Username string               `validate:"required; length(3,32)" field:"username"`
//		Password string               `validate:"required; length(6,20)" field:"password"`
//		Confirm  string               `validate:"compare(password) 'passwords do not match'" field:"confirm"`
//	}
//
//	engine := validator.NewEngine(validator.WithLogger(log))
//	if err := engine.Struct(form); err != nil {
//	    if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	        render(verrs.Map()) // field -> message
//	    }
//	}
//
// Lower level, with an explicit descriptor:
//
//	policy, rules := validator.ResolveShape(shape)
//	if policy != nil {
//	    failures := engine.Execute(*policy, rules, values)
//	}
//
// # Custom validators
//
//	registry.Register(validator.Static(validator.Func("slug", func(ctx validator.Context) string {
//	    if !slugRegex.MatchString(fmt.Sprint(ctx.Value())) {
//	        return validator.Fail(ctx, "must be a slug")
//	    }
//	    return ""
//	})))
//
// # Error Handling
//
// Rule violations are data: Execute returns ValidationErrors, Struct returns
// them as an error value that ExtractValidationErrors unwraps. Hard errors are
// limited to registration failures and malformed declarations (ErrNotStruct,
// ErrInvalidTag, ErrParamName, ErrInvalidShapes, ErrUnknownShape).
//
// # Concurrency
//
// Registry lookups and registrations are safe for concurrent use; register
// during startup. Resolved rule maps are immutable and may be shared.
// Validators must not keep per-call state.
package validator
