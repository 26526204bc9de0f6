package validator

import (
	"errors"
	"fmt"
)

var (
	// ErrRegistration is matched by every *RegistrationError.
	ErrRegistration = errors.New("validator registration failed")

	// ErrNilFactory is returned when a nil factory is passed to Register.
	ErrNilFactory = errors.New("nil validator factory")

	// ErrNilValidator is returned when a factory produced no validator.
	ErrNilValidator = errors.New("factory returned nil validator")

	// ErrEmptyName is returned when a validator reports an empty name.
	ErrEmptyName = errors.New("validator name is empty")

	// ErrFactoryPanic wraps a panic recovered while instantiating a validator.
	ErrFactoryPanic = errors.New("validator factory panicked")

	// ErrNotStruct is returned when a struct shape is requested for a non-struct type.
	ErrNotStruct = errors.New("value is not a struct or pointer to struct")

	// ErrInvalidTag is returned when a validation tag cannot be parsed.
	ErrInvalidTag = errors.New("invalid validation tag")

	// ErrParamName is returned when a rule-bearing parameter has no name.
	ErrParamName = errors.New("parameter name is missing")

	// ErrInvalidShapes is returned when a shape document cannot be decoded.
	ErrInvalidShapes = errors.New("invalid shape document")

	// ErrUnknownShape is returned when a shape document references an undefined model.
	ErrUnknownShape = errors.New("unknown shape")
)

// RegistrationError reports a validator that could not be instantiated.
// The registry is left unchanged when it is returned.
type RegistrationError struct {
	Name string
	Err  error
}

func (e *RegistrationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", ErrRegistration, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrRegistration, e.Name, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrRegistration) match any registration failure.
func (e *RegistrationError) Is(target error) bool {
	return target == ErrRegistration
}
