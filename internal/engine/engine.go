package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gnolang/tquery/internal/corpus"
	"github.com/gnolang/tquery/internal/fields"
	"github.com/gnolang/tquery/internal/query"
	tt "github.com/gnolang/tquery/internal/types"
)

// CellKind tells how a print column was filled.
type CellKind int

const (
	CellUnset  CellKind = iota // no pass looked the field up
	CellScalar                 // a lexical or governor/object value
	CellTuple                  // a token-level value across the expression's span
	CellEmpty                  // indirection through an absent governor/object token
)

// Cell is the value of one print column for a match.
type Cell struct {
	Kind  CellKind
	Value corpus.Value   // for CellScalar
	Tuple []corpus.Value // for CellTuple
}

// Match is a lexical expression that satisfied every constraint of a query.
type Match struct {
	Sentence  *corpus.Sentence
	ExprID    string
	Multiword bool
	Expr      *corpus.LexExpr
	Values    []Cell // one per query print column, in column order
}

// Engine evaluates a compiled query against lexical expressions.
type Engine struct {
	query    *query.Query
	columns  map[fields.Field]int
	logger   *zap.Logger
	progress func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProgress registers fn to be called once per scanned sentence.
func WithProgress(fn func()) Option {
	return func(e *Engine) { e.progress = fn }
}

// New creates an engine for q.
func New(q *query.Query, opts ...Option) *Engine {
	e := &Engine{
		query:   q,
		columns: make(map[fields.Field]int, len(q.Prints)),
		logger:  zap.NewNop(),
	}
	for i, f := range q.Prints {
		e.columns[f] = i
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, level := range []struct {
		name        string
		constraints []query.Constraint
	}{
		{"lexical", q.Lexical},
		{"govobj", q.GovObj},
		{"token", q.Token},
	} {
		for _, c := range level.constraints {
			e.logger.Debug("constraint", zap.String("level", level.name), zap.Stringer("constraint", c))
		}
	}
	return e
}

// Scan evaluates the query on every lexical expression of c and calls yield
// for each match, in corpus order. It returns the number of matches.
// The scan stops at the first error, from the corpus or from yield.
func (e *Engine) Scan(c *corpus.Corpus, yield func(*Match) error) (int, error) {
	n := 0
	for _, sent := range c.Sentences {
		err := sent.Expressions(func(id string, expr *corpus.LexExpr, mwe bool) error {
			m, err := e.Match(sent, id, expr)
			if err != nil {
				return err
			}
			if m == nil {
				return nil
			}
			m.Multiword = mwe
			n++
			return yield(m)
		})
		if err != nil {
			return n, err
		}
		if e.progress != nil {
			e.progress()
		}
	}
	return n, nil
}

// Match evaluates the query on one expression of sent. It returns nil when
// the expression is rejected. Lexical constraints are checked first, then
// governor/object ones, then token ones; the first failing filter rejects.
func (e *Engine) Match(sent *corpus.Sentence, id string, expr *corpus.LexExpr) (*Match, error) {
	m := &Match{
		Sentence: sent,
		ExprID:   id,
		Expr:     expr,
		Values:   make([]Cell, len(e.query.Prints)),
	}

	ok, err := e.matchLexical(sent, id, expr, m)
	if err != nil || !ok {
		return nil, err
	}
	if len(e.query.GovObj) > 0 {
		ok, err = e.matchGovObj(sent, id, expr, m)
		if err != nil || !ok {
			return nil, err
		}
	}
	if len(e.query.Token) > 0 {
		ok, err = e.matchTokens(sent, id, expr, m)
		if err != nil || !ok {
			return nil, err
		}
	}
	return m, nil
}

func (e *Engine) matchLexical(sent *corpus.Sentence, id string, expr *corpus.LexExpr, m *Match) (bool, error) {
	for _, c := range e.query.Lexical {
		v, ok := expr.Attr(c.Field.Name)
		if !ok {
			return false, missing(sent, fmt.Sprintf("expression %s attribute %q", id, c.Field.Name))
		}
		if !e.apply(c, Cell{Kind: CellScalar, Value: v}, m) {
			return false, nil
		}
	}
	return true, nil
}

func (e *Engine) matchGovObj(sent *corpus.Sentence, id string, expr *corpus.LexExpr, m *Match) (bool, error) {
	rel := expr.Relation
	if rel == nil {
		return false, nil
	}

	for _, c := range e.query.GovObj {
		if c.Field.Via == fields.None {
			v, ok := rel.Attr(c.Field.Name)
			if !ok {
				return false, missing(sent, fmt.Sprintf("expression %s heuristic_relation attribute %q", id, c.Field.Name))
			}
			if !e.apply(c, Cell{Kind: CellScalar, Value: v}, m) {
				return false, nil
			}
			continue
		}

		idx := rel.Gov
		if c.Field.Via == fields.Object {
			idx = rel.Obj
		}
		if idx == nil {
			if c.Kind == query.Filter {
				return false, nil
			}
			e.record(c.Field, Cell{Kind: CellEmpty}, m)
			continue
		}

		tok, err := sent.Token(*idx)
		if err != nil {
			return false, err
		}
		v, ok := tok.Attr(c.Field.Name)
		if !ok {
			return false, missing(sent, fmt.Sprintf("token %d attribute %q", *idx, c.Field.Name))
		}
		if !e.apply(c, Cell{Kind: CellScalar, Value: v}, m) {
			return false, nil
		}
	}
	return true, nil
}

func (e *Engine) matchTokens(sent *corpus.Sentence, id string, expr *corpus.LexExpr, m *Match) (bool, error) {
	toks := make([]*corpus.Token, len(expr.Toknums))
	for i, n := range expr.Toknums {
		tok, err := sent.Token(n)
		if err != nil {
			return false, err
		}
		toks[i] = tok
	}

	for _, c := range e.query.Token {
		if c.Kind == query.Filter {
			ok, err := anyToken(sent, toks, c)
			if err != nil || !ok {
				return false, err
			}
			continue
		}

		tuple := make([]corpus.Value, len(toks))
		for i, tok := range toks {
			v, ok := tok.Attr(c.Field.Name)
			if !ok {
				return false, missing(sent, fmt.Sprintf("token %d attribute %q", tok.Num, c.Field.Name))
			}
			tuple[i] = v
		}
		e.record(c.Field, Cell{Kind: CellTuple, Tuple: tuple}, m)
	}
	return true, nil
}

// anyToken reports whether at least one token of the span satisfies c.
func anyToken(sent *corpus.Sentence, toks []*corpus.Token, c query.Constraint) (bool, error) {
	for _, tok := range toks {
		v, ok := tok.Attr(c.Field.Name)
		if !ok {
			return false, missing(sent, fmt.Sprintf("token %d attribute %q", tok.Num, c.Field.Name))
		}
		if c.Matcher.Match(v) {
			return true, nil
		}
	}
	return false, nil
}

// apply runs a filter against cell's value, or records cell for a print request.
func (e *Engine) apply(c query.Constraint, cell Cell, m *Match) bool {
	if c.Kind == query.Filter {
		return c.Matcher.Match(cell.Value)
	}
	e.record(c.Field, cell, m)
	return true
}

func (e *Engine) record(f fields.Field, cell Cell, m *Match) {
	if i, ok := e.columns[f]; ok {
		m.Values[i] = cell
	}
}

func missing(sent *corpus.Sentence, member string) error {
	return &tt.CorpusShapeError{SentID: sent.SentID, Member: member}
}
