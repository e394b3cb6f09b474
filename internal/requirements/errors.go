package requirements

import "fmt"

// LoadError represents an error reading or parsing a requirement catalog
type LoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("requirements load error (%s): %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("requirements load error (%s): %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
