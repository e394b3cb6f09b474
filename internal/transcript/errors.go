package transcript

import "fmt"

// ParseError represents unusable transcript input
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transcript parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transcript parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
