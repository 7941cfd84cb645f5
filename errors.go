package seniority

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecord marks input that cannot be keyed.
	ErrInvalidRecord = errors.New("seniority: invalid record")
	// ErrInferenceUnavailable marks a failed or timed out inference call.
	ErrInferenceUnavailable = errors.New("seniority: inference unavailable")
	// ErrProtocolViolation marks an inference response that does not match
	// its request.
	ErrProtocolViolation = errors.New("seniority: protocol violation")
)

// RecordError reports a record without a usable organization or title.
// Index is the record's position in the batch (or line number - 1 when
// raised while parsing), -1 when unknown.
type RecordError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *RecordError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("record %d: field %q %s", e.Index, e.Field, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("record %d: %s: %v", e.Index, e.Reason, e.Err)
	default:
		return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
	}
}

func (e *RecordError) Unwrap() []error {
	errs := []error{ErrInvalidRecord}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// UnavailableError reports that the inference call for Misses keys failed
// at the transport level (connection, deadline, server status).
type UnavailableError struct {
	Misses int
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("inference unavailable for %d keys: %v", e.Misses, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{ErrInferenceUnavailable, e.Err}
}

// ProtocolError reports a response entry that cannot be attributed to
// exactly one requested key.
type ProtocolError struct {
	ID     CorrelationID
	Reason string // "unknown correlation id" or "duplicate correlation id"
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("inference response: %s %d", e.Reason, e.ID)
}

func (e *ProtocolError) Unwrap() error { return ErrProtocolViolation }
