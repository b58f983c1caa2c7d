package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/gnolang/tquery/internal/corpus"
	"github.com/gnolang/tquery/internal/engine"
	"github.com/gnolang/tquery/internal/fields"
)

const (
	enterMarker = ">> "
	exitMarker  = "<< "

	// nullText stands for a null annotation value, as in CoNLL-U.
	nullText = "_"
)

// Sentence renders the words of sent separated by spaces, with each run of
// tokens covered by expr opened by ">> " and closed by "<< ". A non-nil style
// colours the covered words.
func Sentence(sent *corpus.Sentence, expr *corpus.LexExpr, style *color.Color) string {
	var sb strings.Builder
	inside := false
	for _, tok := range sent.Tokens {
		covered := expr.Covers(tok.Num)
		switch {
		case covered && !inside:
			sb.WriteString(enterMarker)
		case !covered && inside:
			sb.WriteString(exitMarker)
		}
		inside = covered

		word := tok.Word()
		if covered && style != nil {
			word = style.Sprint(word)
		}
		sb.WriteString(word)
		sb.WriteByte(' ')
	}
	if inside {
		sb.WriteString(exitMarker)
	}
	return sb.String()
}

// ValueText renders a single annotation value; null is "_".
func ValueText(v corpus.Value) string {
	if v.IsNull() {
		return nullText
	}
	return v.Text()
}

// CellText renders a print column. Tuples use Go's slice formatting,
// e.g. "[up to]"; empty and unset cells render as "".
func CellText(c engine.Cell) string {
	switch c.Kind {
	case engine.CellScalar:
		return ValueText(c.Value)
	case engine.CellTuple:
		words := make([]string, len(c.Tuple))
		for i, v := range c.Tuple {
			words[i] = ValueText(v)
		}
		return fmt.Sprint(words)
	default:
		return ""
	}
}

// Line renders a match as: sentence id, print columns, rendered sentence,
// separated by tabs.
func Line(m *engine.Match, style *color.Color) string {
	cols := make([]string, 0, len(m.Values)+2)
	cols = append(cols, m.Sentence.SentID)
	for _, c := range m.Values {
		cols = append(cols, CellText(c))
	}
	cols = append(cols, Sentence(m.Sentence, m.Expr, style))
	return strings.Join(cols, "\t")
}

// Summary is the end-of-run report, e.g. "3 matches [word lexcat]".
func Summary(n int, prints []fields.Field) string {
	suffix := "es"
	if n == 1 {
		suffix = ""
	}
	names := make([]string, len(prints))
	for i, f := range prints {
		names[i] = f.String()
	}
	return fmt.Sprintf("%d match%s %v", n, suffix, names)
}

// Options control the Printer output.
type Options struct {
	Color bool // highlight the matched span
	JSON  bool // one JSON object per line instead of tab-separated text
}

// Printer writes matches to an output stream and counts them.
type Printer struct {
	w      io.Writer
	prints []fields.Field
	style  *color.Color
	json   bool
	count  int
}

// NewPrinter creates a printer for matches of a query with the given print columns.
func NewPrinter(w io.Writer, prints []fields.Field, opts Options) *Printer {
	p := &Printer{w: w, prints: prints, json: opts.JSON}
	if opts.Color {
		p.style = color.New(color.FgRed, color.Bold)
		p.style.EnableColor()
	}
	return p
}

// Print writes one match.
func (p *Printer) Print(m *engine.Match) error {
	var err error
	if p.json {
		err = p.printJSON(m)
	} else {
		_, err = fmt.Fprintln(p.w, Line(m, p.style))
	}
	if err != nil {
		return fmt.Errorf("error writing match: %w", err)
	}
	p.count++
	return nil
}

// Count returns the number of matches printed so far.
func (p *Printer) Count() int { return p.count }

// Summary returns the end-of-run report for the matches printed so far.
func (p *Printer) Summary() string { return Summary(p.count, p.prints) }

type matchRecord struct {
	SentID    string         `json:"sent_id"`
	ExprID    string         `json:"expr_id"`
	Multiword bool           `json:"mwe"`
	Toknums   []int          `json:"toknums"`
	Values    map[string]any `json:"values,omitempty"`
	Sentence  string         `json:"sentence"`
}

func (p *Printer) printJSON(m *engine.Match) error {
	rec := matchRecord{
		SentID:    m.Sentence.SentID,
		ExprID:    m.ExprID,
		Multiword: m.Multiword,
		Toknums:   m.Expr.Toknums,
		Sentence:  Sentence(m.Sentence, m.Expr, nil),
	}
	if len(p.prints) > 0 {
		rec.Values = make(map[string]any, len(p.prints))
		for i, f := range p.prints {
			rec.Values[f.String()] = cellJSON(m.Values[i])
		}
	}
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	return enc.Encode(rec)
}

func cellJSON(c engine.Cell) any {
	switch c.Kind {
	case engine.CellScalar:
		return c.Value
	case engine.CellTuple:
		return c.Tuple
	case engine.CellEmpty:
		return ""
	default:
		return nil
	}
}
