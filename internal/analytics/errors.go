package analytics

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable is wrapped by the data layer when an event-store query
// fails. The engine propagates it unchanged; callers decide on retry.
var ErrDataUnavailable = errors.New("event store unavailable")

// ValidationError reports a malformed or contradictory request parameter.
// Surfaced immediately, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
