package seo

import (
	"fmt"
	"strings"
)

// ValidationError carries the full list of rule violations of a failed
// article, never just the first one.
type ValidationError struct {
	Violations []Violation
}

func NewValidationError(violations []Violation) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.String())
	}
	return fmt.Sprintf("seo validation failed: %s", strings.Join(messages, "; "))
}
