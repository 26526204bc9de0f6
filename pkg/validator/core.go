package validator

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidationError is the failure record of a single field: the message of the
// first rule that failed for it, plus translation metadata.
type ValidationError struct {
	Field             string
	Message           string
	Rule              string
	TranslationKey    string
	TranslationValues map[string]any

	// custom is set when Message came from the rule's own message.
	custom bool
}

// Custom reports whether the message came from the rule descriptor rather than
// the validator's default wording.
func (e ValidationError) Custom() bool {
	return e.custom
}

// ValidationErrors is the failure set produced by one execution.
// It holds at most one record per field.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a record unless the field already has one.
func (ve *ValidationErrors) Add(err ValidationError) {
	if ve.Has(err.Field) {
		return
	}
	*ve = append(*ve, err)
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Get returns the message recorded for field, or an empty string.
func (ve ValidationErrors) Get(field string) string {
	for _, err := range ve {
		if err.Field == field {
			return err.Message
		}
	}
	return ""
}

// Lookup returns the record for field.
func (ve ValidationErrors) Lookup(field string) (ValidationError, bool) {
	for _, err := range ve {
		if err.Field == field {
			return err, true
		}
	}
	return ValidationError{}, false
}

func (ve ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(ve))
	for _, err := range ve {
		fields = append(fields, err.Field)
	}
	return fields
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// Map returns the failures as field -> message, ready to render next to form fields.
func (ve ValidationErrors) Map() map[string]string {
	m := make(map[string]string, len(ve))
	for _, err := range ve {
		m[err.Field] = err.Message
	}
	return m
}

// Values returns the failures as url.Values for handlers that already speak that type.
func (ve ValidationErrors) Values() url.Values {
	v := make(url.Values, len(ve))
	for _, err := range ve {
		v.Set(err.Field, err.Message)
	}
	return v
}

// ExtractValidationErrors extracts ValidationErrors from an error.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return validationErr
	}

	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var validationErr ValidationErrors
	return errors.As(err, &validationErr)
}
