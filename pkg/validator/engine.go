package validator

import (
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/dmitrymomot/rulekit/pkg/logger"
)

// Engine runs resolved rule chains against field values.
type Engine struct {
	registry *Registry
	resolver *Resolver
	logger   *slog.Logger
	observer Observer
}

// Observer receives execution outcomes. Implementations must be safe for
// concurrent use; see pkg/metrics for a Prometheus one.
type Observer interface {
	// RuleChecked is called after a registered validator ran.
	RuleChecked(rule string, passed bool)
	// RuleSkipped is called for rules naming an unregistered validator.
	RuleSkipped(rule string)
	// Executed is called once per Execute with the number of failures.
	Executed(failures int, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) RuleChecked(string, bool)    {}
func (nopObserver) RuleSkipped(string)          {}
func (nopObserver) Executed(int, time.Duration) {}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRegistry sets the registry validators are looked up in.
// Defaults to the process-wide Default registry.
func WithRegistry(r *Registry) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithResolver sets the resolver used by Struct.
func WithResolver(r *Resolver) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}

// WithLogger sets the logger receiving per-rule outcomes at debug level.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver sets the observer notified of rule and execution outcomes.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewEngine creates an engine. Without options it looks validators up in the
// Default registry, caches struct shapes with a default-sized Resolver and
// discards its logs.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:   logger.Discard(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = Default()
	}
	if e.resolver == nil {
		e.resolver = NewResolver()
	}
	return e
}

// Registry returns the registry the engine looks validators up in.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Execute validates values against rules and returns one record per failing
// field, or nil when every field passes.
//
// Fields are visited in sorted name order. Fields without rules are skipped,
// as are rules naming an unregistered validator. Within a field, rules run in
// declared order and the first failure ends that field. Unless the policy is
// exhaustive, execution ends with the first failing field.
func (e *Engine) Execute(policy Policy, rules RuleMap, values map[string]any) ValidationErrors {
	start := time.Now()
	var errs ValidationErrors
	defer func() { e.observer.Executed(len(errs), time.Since(start)) }()

	for _, field := range slices.Sorted(maps.Keys(values)) {
		chain := rules[field]
		if len(chain) == 0 {
			continue
		}

		failure, failed := e.check(field, chain, values)
		if !failed {
			continue
		}
		errs = append(errs, failure)
		if !policy.Exhaustive {
			break
		}
	}
	return errs
}

// check runs a single field's chain and stops at its first failing rule.
func (e *Engine) check(field string, chain []Rule, values map[string]any) (ValidationError, bool) {
	for _, rule := range chain {
		v, ok := e.registry.Lookup(rule.Name)
		if !ok {
			e.logger.Debug("validator not registered, rule skipped",
				logger.Validator(rule.Name),
				logger.Field(field),
			)
			e.observer.RuleSkipped(rule.Name)
			continue
		}

		ctx := newRuleContext(field, rule, values)
		msg := v.Validate(ctx)
		e.logger.Debug("validator executed",
			logger.Validator(rule.Name),
			logger.Field(field),
			logger.Passed(msg == ""),
		)
		e.observer.RuleChecked(rule.Name, msg == "")
		if msg != "" {
			return newFailure(ctx, rule, msg), true
		}
	}
	return ValidationError{}, false
}

func newFailure(ctx Context, rule Rule, msg string) ValidationError {
	values := map[string]any{
		"field": ctx.Field(),
		"value": stringValue(ctx.Value()),
	}
	for i, p := range rule.Params {
		values[strconv.Itoa(i)] = p
	}
	return ValidationError{
		Field:             ctx.Field(),
		Message:           msg,
		Rule:              rule.Name,
		TranslationKey:    "validation." + rule.Name,
		TranslationValues: values,
		custom:            rule.Message != "",
	}
}

// Validate resolves shape and executes it against values. Nested objects under
// model field names are flattened first, see FlattenValues. A shape without a
// policy is not validated and yields nil.
func (e *Engine) Validate(shape Shape, values map[string]any) ValidationErrors {
	policy, rules := ResolveShape(shape)
	if policy == nil {
		return nil
	}
	return e.Execute(*policy, rules, FlattenValues(shape, values))
}

// Struct validates a tagged struct (see StructShape). It returns nil when v is
// valid or declares no policy, ValidationErrors when fields fail, and a plain
// error when the struct's tags are malformed.
func (e *Engine) Struct(v any) error {
	policy, rules, err := e.resolver.Struct(v)
	if err != nil {
		return err
	}
	if policy == nil {
		return nil
	}

	values, err := Values(v)
	if err != nil {
		return err
	}
	if errs := e.Execute(*policy, rules, values); len(errs) > 0 {
		return errs
	}
	return nil
}

// Call validates the arguments of a callable described by sig. names gives
// the positional parameter names and args the argument values in the same
// order; model arguments are flattened like model fields (see FlattenValues).
// The error is only set for malformed signatures.
func (e *Engine) Call(sig Signature, names []string, args ...any) (ValidationErrors, error) {
	policy, rules, err := ResolveParams(sig, names)
	if err != nil || policy == nil {
		return nil, err
	}

	plain, ruled := make(map[string]any), make(map[string]any)
	var inner []map[string]any
	r := newResolution(nil)
	params := sig.Params()
	for i := range max(len(args), len(params)) {
		var (
			param Param
			arg   any
		)
		if i < len(params) {
			param = params[i]
		}
		if i < len(args) {
			arg = args[i]
		}

		if param.IsModel() {
			if m := r.model(param.Model, arg, ruled); m != nil {
				inner = append(inner, m)
			}
			continue
		}
		name := param.Name
		if name == "" && i < len(names) {
			name = names[i]
		}
		if name == "" {
			continue
		}
		if i < len(args) {
			plain[name] = indirect(arg)
		}
		if len(param.Rules) > 0 {
			own(ruled, name, plain)
		}
	}
	fillMissing(plain, inner...)
	values := overlay(plain, ruled)

	return e.Execute(*policy, rules, values), nil
}
