package query

// Lexer is responsible for scanning a predicate and producing tokens.
type Lexer struct {
	input    string // the whole predicate
	position int    // current reading position in input
	tokens   []Token
}

// NewLexer returns a new Lexer with the given input and initializes state.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:    input,
		position: 0,
		tokens:   make([]Token, 0, 6),
	}
}

// Tokenize processes the entire input and produces the list of tokens.
// The lexer never fails: grammar errors are reported by the parser.
func (l *Lexer) Tokenize() []Token {
	if l.position < len(l.input) && l.input[l.position] == '+' {
		l.addToken(TokenPrint, "+", l.position)
		l.position++
	}

	for l.position < len(l.input) {
		currentPos := l.position
		switch c := l.input[l.position]; c {
		case '.':
			l.addToken(TokenDot, ".", currentPos)
			l.position++

		case '!':
			l.addToken(TokenBang, "!", currentPos)
			l.position++

		case '=':
			l.lexOperatorAndPattern()

		default:
			l.lexIdent(currentPos)
		}
	}

	l.addToken(TokenEOF, "", l.position)
	return l.tokens
}

// lexOperatorAndPattern emits the '=' of the operator, an optional second
// '=' for full matching, and the remaining input as a single pattern token.
func (l *Lexer) lexOperatorAndPattern() {
	l.addToken(TokenEq, "=", l.position)
	l.position++
	if l.position < len(l.input) && l.input[l.position] == '=' {
		l.addToken(TokenEq, "=", l.position)
		l.position++
	}
	l.addToken(TokenPattern, l.input[l.position:], l.position)
	l.position = len(l.input)
}

// lexIdent scans up to the next '.', '!' or '='.
func (l *Lexer) lexIdent(startPos int) {
	for l.position < len(l.input) && !isSeparator(l.input[l.position]) {
		l.position++
	}
	l.addToken(TokenIdent, l.input[startPos:l.position], startPos)
}

func (l *Lexer) addToken(tokenType TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Position: pos,
	})
}

func isSeparator(c byte) bool {
	return c == '.' || c == '!' || c == '='
}
