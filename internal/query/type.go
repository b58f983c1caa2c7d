package query

import (
	"fmt"
	"strings"

	"github.com/gnolang/tquery/internal/fields"
)

// TokenType defines the types of tokens produced by the lexer.
type TokenType int

const (
	TokenPrint   TokenType = iota // leading '+'
	TokenIdent                    // field name or indirection prefix
	TokenDot                      // '.'
	TokenBang                     // '!'
	TokenEq                       // '='
	TokenPattern                  // everything after the operator
	TokenEOF                      // end of input
)

func (t TokenType) String() string {
	switch t {
	case TokenPrint:
		return "'+'"
	case TokenIdent:
		return "field name"
	case TokenDot:
		return "'.'"
	case TokenBang:
		return "'!'"
	case TokenEq:
		return "'='"
	case TokenPattern:
		return "pattern"
	case TokenEOF:
		return "end of input"
	default:
		return "unknown"
	}
}

// Token represents a single lexical token with type, value, and position.
type Token struct {
	Type     TokenType
	Value    string
	Position int // byte offset in the predicate
}

// Operator is the comparison a predicate applies to a field value.
type Operator int

const (
	OpNone       Operator = iota // print request only, no filtering
	OpPartial                    // =
	OpFull                       // ==
	OpNotPartial                 // !=
	OpNotFull                    // !==
)

func (o Operator) String() string {
	switch o {
	case OpPartial:
		return "="
	case OpFull:
		return "=="
	case OpNotPartial:
		return "!="
	case OpNotFull:
		return "!=="
	default:
		return ""
	}
}

// Negated reports whether the operator inverts the regex result.
func (o Operator) Negated() bool { return o == OpNotPartial || o == OpNotFull }

// Anchored reports whether the pattern must match the whole value.
func (o Operator) Anchored() bool { return o == OpFull || o == OpNotFull }

// Predicate is a parsed command-line predicate.
type Predicate struct {
	Raw     string
	Print   bool
	Via     fields.Indirection
	Field   string // field name or alias as typed, without indirection prefix
	Op      Operator
	Pattern string
}

// HasFilter reports whether the predicate constrains matches.
func (p Predicate) HasFilter() bool { return p.Op != OpNone }

// String renders the predicate back in query syntax.
func (p Predicate) String() string {
	var sb strings.Builder
	if p.Print {
		sb.WriteByte('+')
	}
	sb.WriteString(p.Via.Prefix())
	sb.WriteString(p.Field)
	if p.HasFilter() {
		sb.WriteString(p.Op.String())
		sb.WriteString(p.Pattern)
	}
	return sb.String()
}

// ConstraintKind distinguishes filtering constraints from print requests.
type ConstraintKind int

const (
	Filter  ConstraintKind = iota // reject expressions whose value fails Matcher
	Project                       // no filtering, the value is needed for output
)

// Constraint is one entry of a level's constraint list.
type Constraint struct {
	Kind    ConstraintKind
	Field   fields.Field
	Matcher *Matcher // nil for Project
}

func (c Constraint) String() string {
	if c.Kind == Project {
		return fmt.Sprintf("project(%s)", c.Field)
	}
	return fmt.Sprintf("filter(%s %s)", c.Field, c.Matcher)
}

// Query is a compiled set of predicates.
type Query struct {
	Lexical []Constraint
	GovObj  []Constraint
	Token   []Constraint
	Prints  []fields.Field // print columns, deduplicated, in request order

	Predicates []Predicate
}

func (q *Query) bucket(level fields.Level) *[]Constraint {
	switch level {
	case fields.LevelLexical:
		return &q.Lexical
	case fields.LevelGovObj:
		return &q.GovObj
	default:
		return &q.Token
	}
}

// PrintIndex returns the column of f in Prints, or -1.
func (q *Query) PrintIndex(f fields.Field) int {
	for i, p := range q.Prints {
		if p == f {
			return i
		}
	}
	return -1
}
