package matching

import "fmt"

// Error describes a failed match for one course
type Error struct {
	Course  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("match %s: %s: %v", e.Course, e.Message, e.Cause)
	}
	return fmt.Sprintf("match %s: %s", e.Course, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
