package corpus

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind is the JSON kind of an annotation value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindComposite // array or object, kept as compact JSON text
)

// Value is a scalar annotation value as found in the corpus.
type Value struct {
	kind Kind
	text string
}

// Null is the JSON null value.
var Null = Value{}

func String(s string) Value { return Value{kind: KindString, text: s} }

func Int(n int) Value { return Value{kind: KindNumber, text: strconv.Itoa(n)} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Text returns the value as the string a pattern is matched against.
// Numbers and booleans use their JSON spelling. Null yields "".
func (v Value) Text() string { return v.text }

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = Null
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		*v = Value{kind: KindBool, text: string(data)}
	case data[0] == '[' || data[0] == '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*v = Value{kind: KindComposite, text: buf.String()}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Value{kind: KindNumber, text: n.String()}
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.text)
	default:
		return []byte(v.text), nil
	}
}
