package types

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField       = errors.New("unknown field")
	ErrMalformedPredicate = errors.New("malformed predicate")
	ErrCorpusShape        = errors.New("unexpected corpus shape")
)

// UnknownFieldError is returned when a field name or alias cannot be resolved.
type UnknownFieldError struct {
	Field  string
	Reason string // optional detail, e.g. why an indirection target is rejected
}

func (e *UnknownFieldError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unknown field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("unknown field %q", e.Field)
}

func (e *UnknownFieldError) Is(target error) bool { return target == ErrUnknownField }

// MalformedPredicateError is returned when a predicate argument does not follow
// the query grammar, or its pattern is not a valid regular expression.
type MalformedPredicateError struct {
	Predicate string
	Reason    string
	Err       error
}

func (e *MalformedPredicateError) Error() string {
	msg := fmt.Sprintf("malformed predicate %q: %s", e.Predicate, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedPredicateError) Unwrap() error { return e.Err }

func (e *MalformedPredicateError) Is(target error) bool { return target == ErrMalformedPredicate }

// CorpusShapeError reports a structural member that a lookup expected but the
// corpus does not have (a missing attribute, a token index out of range, ...).
type CorpusShapeError struct {
	SentID string
	Member string
	Err    error
}

func (e *CorpusShapeError) Error() string {
	msg := "corpus"
	if e.SentID != "" {
		msg += " sentence " + e.SentID
	}
	msg += ": missing or invalid " + e.Member
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorpusShapeError) Unwrap() error { return e.Err }

func (e *CorpusShapeError) Is(target error) bool { return target == ErrCorpusShape }
