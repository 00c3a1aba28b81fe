package betseq

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means the input table is missing or unreadable.
	// Fatal: nothing can run without the table
	ErrDataUnavailable = errors.New("input table unavailable")

	// ErrInsufficientData means a regression group had fewer than two
	// usable paired observations. The group is skipped, never fit
	ErrInsufficientData = errors.New("fewer than 2 finite paired observations")
)

// MalformedRowError reports a row that is missing a column or holds a value
// of the wrong type. The derivations assume complete rows, so this is fatal.
type MalformedRowError struct {
	// Line is the 1-based line number in the input file, header included
	Line int

	// Column is the name of the offending column
	Column string

	// Err is the underlying parse failure, if any
	Err error
}

func (e *MalformedRowError) Error() string {
	msg := fmt.Sprintf("malformed row at line %d", e.Line)
	if e.Column != "" {
		msg += fmt.Sprintf(", column %q", e.Column)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRowError) Unwrap() error { return e.Err }
