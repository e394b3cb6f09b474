package pipeline

import "fmt"

// InvalidInputError is returned before any work starts when a request is unusable
type InvalidInputError struct {
	Message string
	Cause   error
}

func (e *InvalidInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Cause
}

// Error is the single failure surfaced by a recommendation run for anything
// other than invalid input
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("recommendation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("recommendation failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
