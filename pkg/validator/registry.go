package validator

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/rulekit/pkg/logger"
)

// Registry maps validator names to validator instances.
// Lookups may run concurrently with each other; writers are serialized.
type Registry struct {
	mu         sync.RWMutex
	validators map[string]Validator
	logger     *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used to record registrations.
func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		validators: make(map[string]Validator),
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefaultRegistry creates a registry pre-populated with the built-in validators.
func NewDefaultRegistry(opts ...RegistryOption) *Registry {
	r := NewRegistry(opts...)
	r.MustRegister(Builtins()...)
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry holding the built-in validators.
// Prefer passing an explicit registry with WithRegistry where possible.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewDefaultRegistry()
	})
	return defaultRegistry
}

// Register instantiates a validator and stores it under its name, replacing
// any validator previously registered under that name. On failure it returns
// a *RegistrationError and leaves the registry untouched.
func (r *Registry) Register(f Factory) error {
	v, err := instantiate(f)
	if err != nil {
		r.logger.Error("validator registration failed", logger.Error(err))
		return err
	}

	name := v.Name()

	r.mu.Lock()
	_, replaced := r.validators[name]
	r.validators[name] = v
	r.mu.Unlock()

	r.logger.Info("validator registered",
		logger.Validator(name),
		slog.Bool("replaced", replaced),
	)
	return nil
}

// MustRegister registers every factory and panics on the first failure.
// Intended for startup wiring.
func (r *Registry) MustRegister(fs ...Factory) {
	for _, f := range fs {
		if err := r.Register(f); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the validator registered under name.
func (r *Registry) Lookup(name string) (Validator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.validators[name]
	return v, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.validators))
	for name := range r.validators {
		names = append(names, name)
	}
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}

// instantiate runs the factory, converting errors and panics into *RegistrationError.
func instantiate(f Factory) (v Validator, err error) {
	if f == nil {
		return nil, &RegistrationError{Err: ErrNilFactory}
	}

	defer func() {
		if p := recover(); p != nil {
			v = nil
			err = &RegistrationError{Err: fmt.Errorf("%w: %v", ErrFactoryPanic, p)}
		}
	}()

	v, err = f()
	if err != nil {
		return nil, &RegistrationError{Err: err}
	}
	if v == nil {
		return nil, &RegistrationError{Err: ErrNilValidator}
	}
	if v.Name() == "" {
		return nil, &RegistrationError{Err: ErrEmptyName}
	}
	return v, nil
}
