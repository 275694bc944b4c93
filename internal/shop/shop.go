// Package shop holds the pieces shared by every shop service.
package shop

import (
	"fmt"

	"github.com/pkg/errors"
)

// ValidationError marks input rejected at the service boundary. No
// mutation is ever attempted for input that fails validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalidf builds a ValidationError for the named field.
func Invalidf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// EventPublisher is the slice of the application event bus the services
// need. asaskevich/EventBus satisfies it.
type EventPublisher interface {
	Publish(topic string, args ...interface{})
}

// NopPublisher discards events, used when no bus is wired (tests).
type NopPublisher struct{}

func (NopPublisher) Publish(string, ...interface{}) {}
