package probe

import (
	"errors"
	"fmt"
)

// AssertionError is returned when a check's expectation about cluster state
// does not hold. Message names the offending resource.
type AssertionError struct {
	Check   string
	Message string
}

func (e *AssertionError) Error() string {
	return e.Message
}

func failf(check, format string, args ...any) error {
	return &AssertionError{Check: check, Message: fmt.Sprintf(format, args...)}
}

// IsAssertion reports whether err is, or wraps, an AssertionError.
func IsAssertion(err error) bool {
	var ae *AssertionError
	return errors.As(err, &ae)
}
