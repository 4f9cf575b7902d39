package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema is returned when a required sheet or column is missing
	ErrSchema = errors.New("schema error")

	// ErrEmptySample is returned when a statistic is requested over no values
	ErrEmptySample = errors.New("empty sample")

	// ErrDivideByZero is returned when a ratio has a zero denominator
	ErrDivideByZero = errors.New("divide by zero")

	// ErrMarkerNotFound is returned when the dashboard splice point is absent
	ErrMarkerNotFound = errors.New("dashboard marker not found")

	// ErrIO is returned when an input or output file cannot be read or written
	ErrIO = errors.New("io error")
)

// SchemaError names the sheet and, when known, the column that is missing.
type SchemaError struct {
	Sheet  string
	Column string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("schema error: sheet %q not found", e.Sheet)
	}
	return fmt.Sprintf("schema error: sheet %q has no column %q", e.Sheet, e.Column)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// StageError ties a failure to the stage being aggregated.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ioError wraps err so that errors.Is(err, ErrIO) holds.
func ioError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}
