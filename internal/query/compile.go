package query

import (
	"github.com/gnolang/tquery/internal/fields"
	tt "github.com/gnolang/tquery/internal/types"
)

// Options control how predicates are compiled.
type Options struct {
	// CaseSensitive disables the default case-insensitive regex matching
	// for every predicate of the query.
	CaseSensitive bool
}

// Compiler turns predicates into a Query using a field registry.
type Compiler struct {
	registry *fields.Registry
	opts     Options
}

// NewCompiler returns a compiler; a nil registry means fields.Default().
func NewCompiler(registry *fields.Registry, opts Options) *Compiler {
	if registry == nil {
		registry = fields.Default()
	}
	return &Compiler{registry: registry, opts: opts}
}

// Compile parses each argument and files its constraints by level.
// Arguments are processed in order, and Prints keeps the order in which
// fields were first requested.
func (c *Compiler) Compile(args []string) (*Query, error) {
	q := &Query{}
	for _, arg := range args {
		pred, err := ParsePredicate(arg)
		if err != nil {
			return nil, err
		}
		if err := c.add(q, pred); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func (c *Compiler) add(q *Query, pred Predicate) error {
	field, err := c.registry.Resolve(pred.Field, pred.Via)
	if err != nil {
		return err
	}
	bucket := q.bucket(field.Level)

	if pred.HasFilter() {
		m, err := NewMatcher(pred.Op, pred.Pattern, c.opts.CaseSensitive)
		if err != nil {
			return &tt.MalformedPredicateError{Predicate: pred.Raw, Reason: "invalid pattern", Err: err}
		}
		*bucket = append(*bucket, Constraint{Kind: Filter, Field: field, Matcher: m})
	}

	if pred.Print && q.PrintIndex(field) < 0 {
		q.Prints = append(q.Prints, field)
		*bucket = append(*bucket, Constraint{Kind: Project, Field: field})
	}

	q.Predicates = append(q.Predicates, pred)
	return nil
}

// Compile compiles args with the default field registry.
func Compile(args []string, opts Options) (*Query, error) {
	return NewCompiler(nil, opts).Compile(args)
}
