package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers timeouts, connection failures and bodies the remote
	// source could not deliver in a readable form.
	ErrTransport = errors.New("draw source transport failure")

	// ErrMalformedResponse means the remote source answered but broke its
	// payload contract (missing fields, out-of-range or overlapping numbers).
	ErrMalformedResponse = errors.New("malformed draw response")

	// ErrNotFound means the remote source reported the draw as unresolvable,
	// usually because it has not been drawn yet.
	ErrNotFound = errors.New("draw not found")

	// ErrExhaustedSearch is returned when the backward search reaches its floor.
	ErrExhaustedSearch = errors.New("latest draw search exhausted")

	ErrInvalidTicket      = errors.New("invalid ticket")
	ErrInvalidTicketCount = errors.New("invalid ticket count")
	ErrInvalidDrawID      = errors.New("invalid draw id")
)

// ExhaustedSearchError describes a backward search that checked every
// identifier from UpperBound down to Floor without finding a draw.
type ExhaustedSearchError struct {
	UpperBound int
	Floor      int
	Attempts   int
	LastErr    error
}

func (e *ExhaustedSearchError) Error() string {
	msg := fmt.Sprintf("%s: checked %d draws from %d down to %d", ErrExhaustedSearch, e.Attempts, e.UpperBound, e.Floor)
	if e.LastErr != nil {
		msg += fmt.Sprintf(" (last failure: %v)", e.LastErr)
	}
	return msg
}

// Is reports ErrExhaustedSearch so callers can match with errors.Is.
func (e *ExhaustedSearchError) Is(target error) bool {
	return target == ErrExhaustedSearch
}

// Unwrap exposes the last lookup failure.
func (e *ExhaustedSearchError) Unwrap() error {
	return e.LastErr
}
