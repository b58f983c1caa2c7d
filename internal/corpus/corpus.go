package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	tt "github.com/gnolang/tquery/internal/types"
)

// Corpus is the whole annotated corpus, in file order.
type Corpus struct {
	Sentences []*Sentence
}

// Sentence is one annotated sentence.
type Sentence struct {
	SentID string
	Text   string
	Tokens []*Token
	SWEs   ExprTable // single-word expressions
	SMWEs  ExprTable // strong multiword expressions
}

// Token returns the token at 1-based position i.
func (s *Sentence) Token(i int) (*Token, error) {
	if i < 1 || i > len(s.Tokens) {
		return nil, &tt.CorpusShapeError{SentID: s.SentID, Member: fmt.Sprintf("token %d", i)}
	}
	return s.Tokens[i-1], nil
}

// Expressions calls fn for every lexical expression of the sentence:
// single-word expressions first, then multiword ones, each in stored order.
// mwe is true for entries of SMWEs. It stops at the first error fn returns.
func (s *Sentence) Expressions(fn func(id string, e *LexExpr, mwe bool) error) error {
	for i, table := range []ExprTable{s.SWEs, s.SMWEs} {
		for _, entry := range table {
			if err := fn(entry.ID, entry.Expr, i == 1); err != nil {
				return err
			}
		}
	}
	return nil
}

type sentenceJSON struct {
	SentID *string          `json:"sent_id"`
	Text   string           `json:"text"`
	Toks   *json.RawMessage `json:"toks"`
	SWEs   *json.RawMessage `json:"swes"`
	SMWEs  *json.RawMessage `json:"smwes"`
}

func (s *Sentence) UnmarshalJSON(data []byte) error {
	var raw sentenceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.SentID == nil {
		return &tt.CorpusShapeError{Member: "sent_id"}
	}
	s.SentID = *raw.SentID
	s.Text = raw.Text

	members := []struct {
		name string
		raw  *json.RawMessage
		dst  any
	}{
		{"toks", raw.Toks, &s.Tokens},
		{"swes", raw.SWEs, &s.SWEs},
		{"smwes", raw.SMWEs, &s.SMWEs},
	}
	for _, m := range members {
		if m.raw == nil {
			return &tt.CorpusShapeError{SentID: s.SentID, Member: m.name}
		}
		if err := json.Unmarshal(*m.raw, m.dst); err != nil {
			return annotate(err, s.SentID, m.name)
		}
	}

	// lookups index tokens by position and rendering by "#", so both must agree
	for i, tok := range s.Tokens {
		if tok.Num != i+1 {
			return &tt.CorpusShapeError{
				SentID: s.SentID,
				Member: fmt.Sprintf(`token %d "#"`, i+1),
				Err:    fmt.Errorf("found %d", tok.Num),
			}
		}
	}
	return nil
}

// annotate attaches the sentence id to shape errors raised below the sentence
// level, and turns anything else into a shape error for member.
func annotate(err error, sentID, member string) error {
	var shape *tt.CorpusShapeError
	if errors.As(err, &shape) {
		if shape.SentID == "" {
			shape.SentID = sentID
		}
		return shape
	}
	return &tt.CorpusShapeError{SentID: sentID, Member: member, Err: err}
}

// Token is one word of a sentence with its per-token annotation.
type Token struct {
	Num   int // the "#" attribute, 1-based position in the sentence
	attrs map[string]Value
}

// NewToken builds a token from its position and attributes.
func NewToken(num int, attrs map[string]Value) *Token {
	return &Token{Num: num, attrs: attrs}
}

// Attr returns the named attribute; ok is false when the token has no such member.
func (t *Token) Attr(name string) (Value, bool) {
	v, ok := t.attrs[name]
	return v, ok
}

// Word returns the word form, or "" when it is missing or null.
func (t *Token) Word() string {
	return t.attrs["word"].Text()
}

func (t *Token) UnmarshalJSON(data []byte) error {
	var attrs map[string]Value
	if err := json.Unmarshal(data, &attrs); err != nil {
		return err
	}
	num, ok := attrs["#"]
	if !ok || num.Kind() != KindNumber {
		return &tt.CorpusShapeError{Member: `token "#"`}
	}
	var n int
	if err := json.Unmarshal([]byte(num.Text()), &n); err != nil {
		return &tt.CorpusShapeError{Member: `token "#"`, Err: err}
	}
	t.Num = n
	t.attrs = attrs
	return nil
}

// LexExpr is a single- or multiword lexical expression.
type LexExpr struct {
	Toknums  []int   // 1-based token positions covered by the expression
	Relation *GovObj // nil when the expression has no heuristic_relation
	attrs    map[string]Value
}

// NewLexExpr builds an expression from its span, attributes and optional relation.
func NewLexExpr(toknums []int, attrs map[string]Value, rel *GovObj) *LexExpr {
	return &LexExpr{Toknums: toknums, Relation: rel, attrs: attrs}
}

func (e *LexExpr) Attr(name string) (Value, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// Covers reports whether token position i belongs to the expression's span.
func (e *LexExpr) Covers(i int) bool {
	for _, n := range e.Toknums {
		if n == i {
			return true
		}
	}
	return false
}

func (e *LexExpr) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	toknums, ok := raw["toknums"]
	if !ok {
		return &tt.CorpusShapeError{Member: "toknums"}
	}
	if err := json.Unmarshal(toknums, &e.Toknums); err != nil {
		return &tt.CorpusShapeError{Member: "toknums", Err: err}
	}
	if len(e.Toknums) == 0 {
		return &tt.CorpusShapeError{Member: "toknums", Err: errors.New("empty span")}
	}
	delete(raw, "toknums")

	if rel, ok := raw["heuristic_relation"]; ok {
		if !bytes.Equal(bytes.TrimSpace(rel), []byte("null")) {
			e.Relation = new(GovObj)
			if err := json.Unmarshal(rel, e.Relation); err != nil {
				return &tt.CorpusShapeError{Member: "heuristic_relation", Err: err}
			}
		}
		delete(raw, "heuristic_relation")
	}

	e.attrs = make(map[string]Value, len(raw))
	for k, v := range raw {
		var val Value
		if err := json.Unmarshal(v, &val); err != nil {
			return &tt.CorpusShapeError{Member: k, Err: err}
		}
		e.attrs[k] = val
	}
	return nil
}

// GovObj is the governor/object relation of a lexical expression.
type GovObj struct {
	Gov   *int // governor token position, nil when absent
	Obj   *int // object token position, nil when absent
	attrs map[string]Value
}

// NewGovObj builds a relation; gov and obj may be nil.
func NewGovObj(gov, obj *int, attrs map[string]Value) *GovObj {
	return &GovObj{Gov: gov, Obj: obj, attrs: attrs}
}

func (g *GovObj) Attr(name string) (Value, bool) {
	v, ok := g.attrs[name]
	return v, ok
}

func (g *GovObj) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, idx := range []struct {
		name string
		dst  **int
	}{{"gov", &g.Gov}, {"obj", &g.Obj}} {
		if v, ok := raw[idx.name]; ok {
			if err := json.Unmarshal(v, idx.dst); err != nil {
				return &tt.CorpusShapeError{Member: "heuristic_relation." + idx.name, Err: err}
			}
			delete(raw, idx.name)
		}
	}
	g.attrs = make(map[string]Value, len(raw))
	for k, v := range raw {
		var val Value
		if err := json.Unmarshal(v, &val); err != nil {
			return &tt.CorpusShapeError{Member: "heuristic_relation." + k, Err: err}
		}
		g.attrs[k] = val
	}
	return nil
}

// ExprEntry is one id -> expression pair of an ExprTable.
type ExprEntry struct {
	ID   string
	Expr *LexExpr
}

// ExprTable maps expression ids to expressions, keeping the order in which
// the ids appear in the corpus file.
type ExprTable []ExprEntry

func (t *ExprTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*t = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object of expressions, got %v", tok)
	}

	var entries ExprTable
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return err
		}
		id, _ := key.(string)
		expr := new(LexExpr)
		if err := dec.Decode(expr); err != nil {
			var shape *tt.CorpusShapeError
			if errors.As(err, &shape) {
				shape.Member = "expression " + id + " " + shape.Member
				return shape
			}
			return fmt.Errorf("expression %s: %w", id, err)
		}
		entries = append(entries, ExprEntry{ID: id, Expr: expr})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = entries
	return nil
}
