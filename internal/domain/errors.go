package domain

import "fmt"

// StoryCasesError is the base error type with context.
type StoryCasesError struct {
	Phase      string // "config", "scan", "auth", "fetch", "generate", "render", "export", "write"
	File       string
	LineNumber int
	Message    string
	Suggestion string
	Cause      error
}

func (e *StoryCasesError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.LineNumber > 0 {
		s += fmt.Sprintf(":%d", e.LineNumber)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *StoryCasesError) Unwrap() error {
	return e.Cause
}

// NewError creates a new StoryCasesError.
func NewError(phase, file string, line int, message string, cause error) *StoryCasesError {
	return &StoryCasesError{
		Phase:      phase,
		File:       file,
		LineNumber: line,
		Message:    message,
		Cause:      cause,
	}
}

// NewErrorWithSuggestion creates a StoryCasesError carrying a hint for the user.
func NewErrorWithSuggestion(phase, file string, line int, message, suggestion string, cause error) *StoryCasesError {
	e := NewError(phase, file, line, message, cause)
	e.Suggestion = suggestion
	return e
}
