package catalog

import "fmt"

// LoadError represents an error reading or decoding a course catalog
type LoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("catalog load error (%s): %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("catalog load error (%s): %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
