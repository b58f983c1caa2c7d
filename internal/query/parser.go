package query

import (
	"fmt"

	"github.com/gnolang/tquery/internal/fields"
	tt "github.com/gnolang/tquery/internal/types"
)

// Parser consumes the tokens of one predicate and builds a Predicate.
type Parser struct {
	input   string
	tokens  []Token
	current int
}

// NewParser creates a parser over the tokens of input.
func NewParser(input string, tokens []Token) *Parser {
	return &Parser{
		input:   input,
		tokens:  tokens,
		current: 0,
	}
}

// ParsePredicate tokenizes and parses a single predicate.
func ParsePredicate(input string) (Predicate, error) {
	return NewParser(input, NewLexer(input).Tokenize()).Parse()
}

// Parse processes all tokens:
//
//	predicate := ['+'] ident ['.' ident] [['!'] '=' ['='] pattern] EOF
func (p *Parser) Parse() (Predicate, error) {
	pred := Predicate{Raw: p.input}

	if p.peek().Type == TokenPrint {
		pred.Print = true
		p.current++
	}

	name, err := p.expectIdent()
	if err != nil {
		return pred, err
	}
	pred.Field = name

	if p.peek().Type == TokenDot {
		p.current++
		via, ok := fields.ParseIndirection(name)
		if !ok {
			return pred, p.errorf("unknown indirection prefix %q, expected \"g\" or \"o\"", name)
		}
		sub, err := p.expectIdent()
		if err != nil {
			return pred, err
		}
		if p.peek().Type == TokenDot {
			return pred, p.errorf("indirection cannot be nested")
		}
		pred.Via = via
		pred.Field = sub
	}

	negated := false
	if p.peek().Type == TokenBang {
		p.current++
		if p.peek().Type != TokenEq {
			return pred, p.errorf("expected '=' after '!', found %s", p.peek().Type)
		}
		negated = true
	}

	switch p.peek().Type {
	case TokenEq:
		p.current++
		full := false
		if p.peek().Type == TokenEq {
			full = true
			p.current++
		}
		pred.Op = operatorFor(negated, full)
		pred.Pattern = p.peek().Value
		p.current++
	case TokenEOF:
		if !pred.Print {
			return pred, p.errorf("missing '=' clause; a bare field is only valid as a '+' print request")
		}
	default:
		return pred, p.errorf("unexpected %s %q", p.peek().Type, p.peek().Value)
	}

	if p.peek().Type != TokenEOF {
		return pred, p.errorf("unexpected %s %q", p.peek().Type, p.peek().Value)
	}
	return pred, nil
}

func operatorFor(negated, full bool) Operator {
	switch {
	case negated && full:
		return OpNotFull
	case negated:
		return OpNotPartial
	case full:
		return OpFull
	default:
		return OpPartial
	}
}

func (p *Parser) expectIdent() (string, error) {
	tok := p.peek()
	if tok.Type != TokenIdent || tok.Value == "" {
		return "", p.errorf("missing field name at offset %d", tok.Position)
	}
	p.current++
	return tok.Value, nil
}

func (p *Parser) peek() Token {
	if p.current >= len(p.tokens) {
		return Token{Type: TokenEOF, Position: len(p.input)}
	}
	return p.tokens[p.current]
}

func (p *Parser) errorf(format string, args ...any) error {
	return &tt.MalformedPredicateError{
		Predicate: p.input,
		Reason:    fmt.Sprintf(format, args...),
	}
}
