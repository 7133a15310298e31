package csv_parser

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is returned when the export lacks a header row or any data row.
var ErrMalformedInput = errors.New("malformed input")

// DateParseError reports a "Workout Date" value that is not a calendar date.
type DateParseError struct {
	Line  int
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("line %d: invalid workout date %q: %v", e.Line, e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// FieldParseError reports a numeric column holding something that is not a number.
type FieldParseError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("line %d: invalid %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *FieldParseError) Unwrap() error {
	return e.Err
}
