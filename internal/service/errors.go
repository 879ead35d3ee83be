package service

import "fmt"

// InvalidInputError reports a request the engine refuses before touching
// the store: missing actor, empty line list, non-positive quantity,
// negative amounts, malformed ids.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return "invalid input: " + e.Reason }

func invalidInputf(format string, args ...interface{}) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}
