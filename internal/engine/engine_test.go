package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/tquery/internal/corpus"
	"github.com/gnolang/tquery/internal/query"
	tt "github.com/gnolang/tquery/internal/types"
)

const testCorpus = `[
  {
    "sent_id": "s1",
    "toks": [
      {"#": 1, "word": "We", "lemma": "we", "upos": "PRON", "deprel": "nsubj", "lextag": "O-PRON"},
      {"#": 2, "word": "waited", "lemma": "wait", "upos": "VERB", "deprel": "root", "lextag": "O-V-v.stative"},
      {"#": 3, "word": "up", "lemma": "up", "upos": "ADP", "deprel": "case", "lextag": "B-P-p.Time"},
      {"#": 4, "word": "to", "lemma": "to", "upos": "NOUN", "deprel": "fixed", "lextag": "I_"},
      {"#": 5, "word": "hours", "lemma": "hour", "upos": "NOUN", "deprel": "obl", "lextag": "O-N-n.TIME"}
    ],
    "swes": {
      "1": {"lexlemma": "we", "lexcat": "PRON", "ss": null, "ss2": null, "toknums": [1]},
      "2": {"lexlemma": "wait", "lexcat": "V", "ss": "v.stative", "ss2": null, "toknums": [2]},
      "5": {"lexlemma": "hour", "lexcat": "N", "ss": "n.TIME", "ss2": null, "toknums": [5]}
    },
    "smwes": {
      "1": {
        "lexlemma": "up to", "lexcat": "P", "ss": "p.Time", "ss2": "p.Time", "toknums": [3, 4],
        "heuristic_relation": {"gov": 2, "govlemma": "wait", "obj": null, "objlemma": null, "config": "default"}
      }
    }
  },
  {
    "sent_id": "s2",
    "toks": [
      {"#": 1, "word": "in", "lemma": "in", "upos": "ADP", "deprel": "case", "lextag": "O-P-p.Locus"},
      {"#": 2, "word": "town", "lemma": "town", "upos": "NOUN", "deprel": "root", "lextag": "O-N-n.LOCATION"}
    ],
    "swes": {
      "1": {
        "lexlemma": "in", "lexcat": "P", "ss": "p.Locus", "ss2": "p.Locus", "toknums": [1],
        "heuristic_relation": {"gov": null, "govlemma": null, "obj": 2, "objlemma": "town", "config": "default"}
      },
      "2": {"lexlemma": "town", "lexcat": "N", "ss": "n.LOCATION", "ss2": null, "toknums": [2]}
    },
    "smwes": {}
  }
]`

func loadCorpus(t *testing.T, src string) *corpus.Corpus {
	t.Helper()
	c, err := corpus.Decode(strings.NewReader(src), nil)
	require.NoError(t, err)
	return c
}

func scan(t *testing.T, c *corpus.Corpus, args ...string) []*Match {
	t.Helper()
	q, err := query.Compile(args, query.Options{})
	require.NoError(t, err)

	var matches []*Match
	n, err := New(q).Scan(c, func(m *Match) error {
		matches = append(matches, m)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, len(matches), n)
	return matches
}

func ids(matches []*Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Sentence.SentID + "/" + m.ExprID
	}
	return out
}

func TestScanFilters(t *testing.T) {
	t.Parallel()
	c := loadCorpus(t, testCorpus)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "lexcat full", args: []string{"lc==P"}, want: []string{"s1/1", "s2/1"}},
		{name: "lexcat partial", args: []string{"lc=P"}, want: []string{"s1/1", "s1/1", "s2/1"}},
		{name: "role", args: []string{"ss=time"}, want: []string{"s1/5", "s1/1"}},
		{name: "null never matches negation", args: []string{"ss2!=Time"}, want: []string{"s2/1"}},
		{name: "negated full", args: []string{"lc!==N"}, want: []string{"s1/1", "s1/2", "s1/1", "s2/1"}},
		{name: "governor lemma", args: []string{"g=wait"}, want: []string{"s1/1"}},
		{name: "object lemma null", args: []string{"o!=zzz"}, want: []string{"s2/1"}},
		{name: "governor upos", args: []string{"g.upos==VERB"}, want: []string{"s1/1"}},
		{name: "object upos", args: []string{"o.upos==NOUN"}, want: []string{"s2/1"}},
		{name: "absent governor rejects", args: []string{"lc==P", "g.upos=."}, want: []string{"s1/1"}},
		{name: "token level", args: []string{"deprel=^obl$"}, want: []string{"s1/5"}},
		{name: "all levels", args: []string{"lc==P", "config=default", "w=^up$"}, want: []string{"s1/1"}},
		{name: "nothing", args: []string{"lc==ADV"}, want: nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := scan(t, c, tc.args...)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestExistentialTokenMatch(t *testing.T) {
	t.Parallel()
	c := loadCorpus(t, testCorpus)

	// "up to" spans an ADP and a NOUN token
	mwe := func(args ...string) int {
		n := 0
		for _, m := range scan(t, c, args...) {
			if m.Multiword {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 1, mwe("upos=NOUN"))
	assert.Equal(t, 1, mwe("upos==NOUN"))
	assert.Equal(t, 1, mwe("upos==ADP"))
	assert.Equal(t, 0, mwe("upos==VERB"))
	assert.Equal(t, 1, mwe("upos!==VERB"))
}

func TestProjections(t *testing.T) {
	t.Parallel()
	c := loadCorpus(t, testCorpus)

	matches := scan(t, c, "lc==P", "+w", "+g.lemma", "+ss", "+o.upos", "+config")
	require.Len(t, matches, 2)

	first := matches[0] // s1 "up to"
	assert.Equal(t, "s1", first.Sentence.SentID)
	assert.True(t, first.Multiword)
	require.Len(t, first.Values, 5)
	assert.Equal(t, CellTuple, first.Values[0].Kind)
	assert.Equal(t, []corpus.Value{corpus.String("up"), corpus.String("to")}, first.Values[0].Tuple)
	assert.Equal(t, CellScalar, first.Values[1].Kind)
	assert.Equal(t, corpus.String("wait"), first.Values[1].Value)
	assert.Equal(t, corpus.String("p.Time"), first.Values[2].Value)
	assert.Equal(t, CellEmpty, first.Values[3].Kind)
	assert.Equal(t, corpus.String("default"), first.Values[4].Value)

	second := matches[1] // s2/1, a single-word expression with no governor
	assert.Equal(t, "s2", second.Sentence.SentID)
	assert.False(t, second.Multiword)
	assert.Equal(t, []corpus.Value{corpus.String("in")}, second.Values[0].Tuple)
	assert.Equal(t, CellEmpty, second.Values[1].Kind)
	assert.Equal(t, corpus.String("p.Locus"), second.Values[2].Value)
	assert.Equal(t, corpus.String("NOUN"), second.Values[3].Value)
}

func TestScanOrderIsSWEsThenSMWEs(t *testing.T) {
	t.Parallel()
	c := loadCorpus(t, testCorpus)
	got := scan(t, c, "+lc")
	assert.Equal(t, []string{"s1/1", "s1/2", "s1/5", "s1/1", "s2/1", "s2/2"}, ids(got))
	assert.True(t, got[3].Multiword)
}

func TestShortCircuitSkipsLaterLookups(t *testing.T) {
	t.Parallel()
	// the expression lacks "ss"; the lexcat filter rejects it before ss is read
	src := `[{"sent_id": "s", "toks": [{"#": 1, "word": "a"}],
	  "swes": {"1": {"lexcat": "DISC", "toknums": [1]}}, "smwes": {}}]`
	c := loadCorpus(t, src)

	assert.Empty(t, scan(t, c, "lc==N", "ss=x", "upos=X"))

	q, err := query.Compile([]string{"lc==DISC", "ss=x"}, query.Options{})
	require.NoError(t, err)
	_, err = New(q).Scan(c, func(*Match) error { return nil })
	assert.ErrorIs(t, err, tt.ErrCorpusShape)
}

func TestShapeErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		args []string
	}{
		{
			name: "token out of range",
			src: `[{"sent_id": "s", "toks": [{"#": 1, "word": "a"}],
			  "swes": {"1": {"lexcat": "N", "toknums": [2]}}, "smwes": {}}]`,
			args: []string{"w=a"},
		},
		{
			name: "governor out of range",
			src: `[{"sent_id": "s", "toks": [{"#": 1, "word": "a"}],
			  "swes": {"1": {"lexcat": "P", "toknums": [1],
			    "heuristic_relation": {"gov": 9, "obj": null, "config": "x"}}}, "smwes": {}}]`,
			args: []string{"g.w=a"},
		},
		{
			name: "relation attribute missing",
			src: `[{"sent_id": "s", "toks": [{"#": 1, "word": "a"}],
			  "swes": {"1": {"lexcat": "P", "toknums": [1],
			    "heuristic_relation": {"gov": null, "obj": null}}}, "smwes": {}}]`,
			args: []string{"+config"},
		},
		{
			name: "token attribute missing",
			src: `[{"sent_id": "s", "toks": [{"#": 1, "word": "a"}],
			  "swes": {"1": {"lexcat": "N", "toknums": [1]}}, "smwes": {}}]`,
			args: []string{"+upos"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := loadCorpus(t, tc.src)
			q, err := query.Compile(tc.args, query.Options{})
			require.NoError(t, err)

			_, err = New(q).Scan(c, func(*Match) error { return nil })
			var shape *tt.CorpusShapeError
			require.ErrorAs(t, err, &shape)
			assert.Equal(t, "s", shape.SentID)
		})
	}
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Print(match *Match) error {
	args := m.Called(match.Sentence.SentID + "/" + match.ExprID)
	return args.Error(0)
}

func TestScanStopsOnYieldError(t *testing.T) {
	t.Parallel()
	c := loadCorpus(t, testCorpus)
	q, err := query.Compile([]string{"+lc"}, query.Options{})
	require.NoError(t, err)

	stop := errors.New("stop")
	sink := new(mockSink)
	sink.On("Print", "s1/1").Return(nil).Once()
	sink.On("Print", "s1/2").Return(stop).Once()

	n, err := New(q).Scan(c, sink.Print)
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, n)
	sink.AssertExpectations(t)
	sink.AssertNotCalled(t, "Print", "s1/5")
}

func TestProgressCalledPerSentence(t *testing.T) {
	t.Parallel()
	c := loadCorpus(t, testCorpus)
	q, err := query.Compile([]string{"lc==ADV"}, query.Options{})
	require.NoError(t, err)

	ticks := 0
	_, err = New(q, WithProgress(func() { ticks++ }), WithLogger(nil)).Scan(c, func(*Match) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 2, ticks)
}
