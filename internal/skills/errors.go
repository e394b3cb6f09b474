package skills

import "fmt"

// ExtractionError represents a failure to build a skill profile
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("skill extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("skill extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
