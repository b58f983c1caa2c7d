/*
Package query compiles command-line predicates into typed constraints over the
three levels of an annotated corpus.

# Predicate Syntax

Each predicate is one command-line argument:

	['+'] field ['.' subfield] [op pattern]

  - '+' asks for the field's value to be printed in its own output column.
    A predicate without an op clause must carry it (pure print request).

  - field is a field name or alias from the fields registry (w, lemma, upos,
    lc, ss, f, g, config, ...). With a subfield, field must be "g" or "o" and
    names the governor or object token of the expression's governor/object
    relation; subfield is then a token attribute of that token (g.upos, o.lt).
    Indirection cannot be nested.

  - op is one of

	=    regex partial match
	==   regex full match
	!=   negated partial match
	!==  negated full match

  - pattern is everything after the op, taken verbatim (it may itself contain
    '=', '!' or '.'). Patterns use RE2 syntax and are case-insensitive unless
    Options.CaseSensitive is set.

# Token Types

The lexer splits a predicate into:

  - TokenPrint: the leading '+'
  - TokenIdent: a field name or indirection prefix
  - TokenDot: '.' between prefix and subfield
  - TokenBang: '!' of a negated op
  - TokenEq: each '=' of the op
  - TokenPattern: the rest of the input after the op
  - TokenEOF: end of input

# Null Values

A matcher never matches a null (or absent) value, whatever its op: "!=" is the
negation of "=" on non-null values only. Missing data is neither a match nor an
anti-match.

# Usage Example

	q, err := query.NewCompiler(fields.Default(), query.Options{}).
		Compile([]string{"ss=Time", "+w", "g.upos!==VERB"})
	if err != nil {
		// handle error
	}
	for _, c := range q.Lexical {
		fmt.Println(c)
	}
*/
package query
