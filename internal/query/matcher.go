package query

import (
	"regexp"

	"github.com/gnolang/tquery/internal/corpus"
)

// Matcher tests a field value against a predicate's compiled pattern.
type Matcher struct {
	op Operator
	re *regexp.Regexp
}

// NewMatcher compiles pattern for op. Full-match operators wrap the pattern
// as ^pattern$, so a top-level '|' leaves each branch anchored at one end
// only. Matching is case-insensitive unless caseSensitive is set.
func NewMatcher(op Operator, pattern string, caseSensitive bool) (*Matcher, error) {
	expr := pattern
	if op.Anchored() {
		expr = "^" + expr + "$"
	}
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Matcher{op: op, re: re}, nil
}

// Match reports whether v satisfies the predicate. Null never matches,
// whether or not the operator is negated.
func (m *Matcher) Match(v corpus.Value) bool {
	if v.IsNull() {
		return false
	}
	found := m.re.MatchString(v.Text())
	if m.op.Negated() {
		return !found
	}
	return found
}

func (m *Matcher) Op() Operator { return m.op }

func (m *Matcher) String() string {
	if m == nil {
		return "<nil>"
	}
	return m.op.String() + " /" + m.re.String() + "/"
}
