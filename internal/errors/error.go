package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryUsage    Category = "usage"
	CategoryScenario Category = "scenario"
	CategoryConfig   Category = "config"
)

// Location represents a source location, usually inside a scenario file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// GateError is a structured error with an optional location and hint.
type GateError struct {
	// Code is a unique error identifier (e.g., "G101").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is where the error occurred, when it maps to a file.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *GateError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *GateError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a source location and reads the surrounding lines.
func (e *GateError) WithLocation(file string, line, column int) *GateError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *GateError) WithSuggestion(s string) *GateError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered detail.
func (e *GateError) WithDetail(d string) *GateError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *GateError) Wrap(err error) *GateError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around targetLine from filename.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a GateError from a registered error code.
func New(code string) *GateError {
	template, ok := registry[code]
	if !ok {
		return &GateError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &GateError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// FromError wraps err in a GateError with the given code.
// An err that already is a *GateError is returned as is.
func FromError(err error, code string) *GateError {
	if err == nil {
		return nil
	}
	if ge, ok := err.(*GateError); ok {
		return ge
	}
	return New(code).Wrap(err)
}
