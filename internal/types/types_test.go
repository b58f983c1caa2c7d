package types

import (
	"errors"
	"fmt"
	"regexp/syntax"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsMatchSentinels(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "unknown field",
			err:      &UnknownFieldError{Field: "bogus"},
			sentinel: ErrUnknownField,
			message:  `unknown field "bogus"`,
		},
		{
			name:     "unknown field with reason",
			err:      &UnknownFieldError{Field: "g.lexcat", Reason: "not a token attribute"},
			sentinel: ErrUnknownField,
			message:  `unknown field "g.lexcat": not a token attribute`,
		},
		{
			name:     "malformed predicate",
			err:      &MalformedPredicateError{Predicate: "upos", Reason: "missing '=' clause"},
			sentinel: ErrMalformedPredicate,
			message:  `malformed predicate "upos": missing '=' clause`,
		},
		{
			name:     "corpus shape",
			err:      &CorpusShapeError{SentID: "s1", Member: "token 7"},
			sentinel: ErrCorpusShape,
			message:  "corpus sentence s1: missing or invalid token 7",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := fmt.Errorf("running query: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestMalformedPredicateUnwrap(t *testing.T) {
	t.Parallel()
	cause := &syntax.Error{Code: syntax.ErrMissingParen, Expr: "("}
	err := &MalformedPredicateError{Predicate: "w=(", Reason: "invalid pattern", Err: cause}

	var synErr *syntax.Error
	assert.True(t, errors.As(err, &synErr))
	assert.Contains(t, err.Error(), "invalid pattern")
	assert.False(t, errors.Is(err, ErrCorpusShape))
}
