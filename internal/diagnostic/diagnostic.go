// Package diagnostic defines the single error kind reported by the Table
// front end: a human-readable message with an optional source position. The
// first diagnostic aborts the parse; there is no recovery or aggregation.
package diagnostic

import (
	"fmt"

	"github.com/table-lang/table/internal/position"
)

// Error is a front-end diagnostic. Pos is nil for errors that have no source
// location, such as a file that could not be read.
type Error struct {
	Message string
	Pos     *position.Position
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("ERROR (%s): %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("ERROR: %s", e.Message)
}

// New creates a diagnostic without a source location.
func New(message string) *Error {
	return &Error{Message: message}
}

// Newf creates a diagnostic without a source location from a format string.
func Newf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// At creates a diagnostic at the given position.
func At(pos position.Position, message string) *Error {
	return &Error{Message: message, Pos: &pos}
}

// Atf creates a diagnostic at the given position from a format string.
func Atf(pos position.Position, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Pos: &pos}
}
