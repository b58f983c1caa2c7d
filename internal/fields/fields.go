package fields

import (
	"fmt"
	"sort"

	tt "github.com/gnolang/tquery/internal/types"
)

// Level tells which structural level of the corpus a field lives on.
type Level int

const (
	LevelToken   Level = iota // per-token annotation (word, upos, ...)
	LevelLexical              // lexical expression annotation (lexcat, ss, ...)
	LevelGovObj               // governor/object relation of a lexical expression
)

func (l Level) String() string {
	switch l {
	case LevelToken:
		return "token"
	case LevelLexical:
		return "lexical"
	case LevelGovObj:
		return "govobj"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Indirection selects the related token of a governor/object relation whose
// own attribute is looked up instead of the relation's.
type Indirection int

const (
	None     Indirection = iota
	Governor             // g.
	Object               // o.
)

// Prefix returns the user-facing prefix, including the trailing dot.
func (i Indirection) Prefix() string {
	switch i {
	case Governor:
		return "g."
	case Object:
		return "o."
	default:
		return ""
	}
}

// ParseIndirection maps a prefix name ("g" or "o") to an Indirection.
func ParseIndirection(prefix string) (Indirection, bool) {
	switch prefix {
	case "g":
		return Governor, true
	case "o":
		return Object, true
	default:
		return None, false
	}
}

// Field is a resolved field reference.
type Field struct {
	Name  string // canonical attribute name
	Via   Indirection
	Level Level
}

func (f Field) String() string { return f.Via.Prefix() + f.Name }

// Entry describes one alias in the registry.
type Entry struct {
	Alias     string
	Canonical string
	Level     Level
}

var defaultFields = []Entry{
	{"w", "word", LevelToken},
	{"word", "word", LevelToken},
	{"l", "lemma", LevelToken},
	{"lemma", "lemma", LevelToken},
	{"upos", "upos", LevelToken},
	{"xpos", "xpos", LevelToken},
	{"feats", "feats", LevelToken},
	{"head", "head", LevelToken},
	{"deprel", "deprel", LevelToken},
	{"edeps", "edeps", LevelToken},
	{"misc", "misc", LevelToken},
	{"smwe", "smwe", LevelToken},
	{"wmwe", "wmwe", LevelToken},
	{"lt", "lextag", LevelToken},
	{"lextag", "lextag", LevelToken},

	{"lc", "lexcat", LevelLexical},
	{"lexcat", "lexcat", LevelLexical},
	{"ll", "lexlemma", LevelLexical},
	{"lexlemma", "lexlemma", LevelLexical},
	{"r", "ss", LevelLexical},
	{"ss", "ss", LevelLexical},
	{"f", "ss2", LevelLexical},
	{"ss2", "ss2", LevelLexical},

	{"g", "govlemma", LevelGovObj},
	{"govlemma", "govlemma", LevelGovObj},
	{"o", "objlemma", LevelGovObj},
	{"objlemma", "objlemma", LevelGovObj},
	{"config", "config", LevelGovObj},
}

// Registry maps user-facing field names and aliases to canonical names,
// partitioned into token, lexical and governor/object levels.
type Registry struct {
	aliases map[string]Entry
	levels  map[string]Level // canonical name -> level
}

// Default returns the registry of built-in fields.
func Default() *Registry {
	r := &Registry{
		aliases: make(map[string]Entry, len(defaultFields)),
		levels:  make(map[string]Level),
	}
	for _, e := range defaultFields {
		r.aliases[e.Alias] = e
		r.levels[e.Canonical] = e.Level
	}
	return r
}

// WithAliases returns a copy of r extended with user aliases
// (alias -> existing alias or canonical name).
func (r *Registry) WithAliases(extra map[string]string) (*Registry, error) {
	out := &Registry{
		aliases: make(map[string]Entry, len(r.aliases)+len(extra)),
		levels:  r.levels,
	}
	for k, v := range r.aliases {
		out.aliases[k] = v
	}

	names := make([]string, 0, len(extra))
	for alias := range extra {
		names = append(names, alias)
	}
	sort.Strings(names)

	for _, alias := range names {
		target, ok := r.aliases[extra[alias]]
		if !ok {
			return nil, &tt.UnknownFieldError{Field: extra[alias], Reason: fmt.Sprintf("target of alias %q", alias)}
		}
		if existing, ok := out.aliases[alias]; ok && existing.Canonical != target.Canonical {
			return nil, fmt.Errorf("alias %q already names field %q", alias, existing.Canonical)
		}
		out.aliases[alias] = Entry{Alias: alias, Canonical: target.Canonical, Level: target.Level}
	}
	return out, nil
}

// Lookup resolves a plain (unprefixed) name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.aliases[name]
	return e, ok
}

// Resolve resolves name, optionally reached through a governor/object
// indirection. An indirected field always files under LevelGovObj, and its
// base must be a token-level attribute.
func (r *Registry) Resolve(name string, via Indirection) (Field, error) {
	e, ok := r.aliases[name]
	if !ok {
		return Field{}, &tt.UnknownFieldError{Field: via.Prefix() + name}
	}
	if via == None {
		return Field{Name: e.Canonical, Level: e.Level}, nil
	}
	if e.Level != LevelToken {
		return Field{}, &tt.UnknownFieldError{
			Field:  via.Prefix() + name,
			Reason: fmt.Sprintf("%s is a %s-level field, not a token attribute", e.Canonical, e.Level),
		}
	}
	return Field{Name: e.Canonical, Via: via, Level: LevelGovObj}, nil
}

// Entries lists all aliases ordered by level, then canonical name, then alias.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.aliases))
	for _, e := range r.aliases {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		if a.Canonical != b.Canonical {
			return a.Canonical < b.Canonical
		}
		return a.Alias < b.Alias
	})
	return out
}
