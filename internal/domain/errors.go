package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAccount is returned when a snapshot lacks the account record.
	ErrMissingAccount = errors.New("snapshot missing account")

	// ErrInvalidSide is returned for a side value that is neither BUY nor SELL.
	ErrInvalidSide = errors.New("invalid side")

	// ErrActionInFlight is returned when an action is refused because another
	// action for the same instrument has not completed yet.
	ErrActionInFlight = errors.New("action already in flight for instrument")

	// ErrUnknownInstrument is returned when an operation targets a symbol the
	// store has never seen.
	ErrUnknownInstrument = errors.New("unknown instrument")
)

// RejectionError is a structured business rejection from the backend: the
// request completed but was refused with a human-readable detail.
type RejectionError struct {
	Status int
	Detail string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("backend rejected (status %d): %s", e.Status, e.Detail)
}

// NetworkError represents a transport failure: the request could not complete
// and no response was observed. Commands are never retried on it.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// AsRejection unwraps a RejectionError if err carries one.
func AsRejection(err error) (*RejectionError, bool) {
	var re *RejectionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
