package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant of the JSON union a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// TypeTag is the user-facing name of a JSON value's structural type.
type TypeTag string

const (
	TypeNull    TypeTag = "null"
	TypeArray   TypeTag = "array"
	TypeObject  TypeTag = "object"
	TypeString  TypeTag = "string"
	TypeNumber  TypeTag = "number"
	TypeBoolean TypeTag = "boolean"
)

// Member is a single key/value entry of a JSON object.
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable JSON value. The zero Value is JSON null.
//
// Objects keep their members in insertion order; callers must not modify
// slices returned by Items or Members.
type Value struct {
	kind    Kind
	boolean bool
	number  float64
	text    string
	items   []Value
	members []Member
}

// Null returns the JSON null value
func Null() Value { return Value{} }

// Bool returns a JSON boolean
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Number returns a JSON number
func Number(n float64) Value { return Value{kind: KindNumber, number: n} }

// String returns a JSON string
func String(s string) Value { return Value{kind: KindString, text: s} }

// Array returns a JSON array holding items in order
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Object returns a JSON object holding members in order. If a key repeats,
// the later value replaces the earlier one and the key keeps its first position.
func Object(members ...Member) Value {
	out := make([]Member, 0, len(members))
	seen := make(map[string]int, len(members))
	for _, m := range members {
		if i, ok := seen[m.Key]; ok {
			out[i].Value = m.Value
			continue
		}
		seen[m.Key] = len(out)
		out = append(out, m)
	}
	return Value{kind: KindObject, members: out}
}

// Kind returns the variant held by v
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null
func (v Value) IsNull() bool { return v.kind == KindNull }

// BoolValue returns the boolean payload; false for other kinds
func (v Value) BoolValue() bool { return v.boolean }

// NumberValue returns the numeric payload; 0 for other kinds
func (v Value) NumberValue() float64 { return v.number }

// Text returns the string payload; "" for other kinds
func (v Value) Text() string { return v.text }

// Items returns the elements of an array; nil for other kinds
func (v Value) Items() []Value { return v.items }

// Members returns the entries of an object; nil for other kinds
func (v Value) Members() []Member { return v.members }

// Len returns the number of elements or keys of a composite value, 0 otherwise
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Get returns the value stored under key in an object
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Index returns the i-th element of an array
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Equal reports whether v and other are structurally equal. Object member
// order is significant.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolean == other.boolean
	case KindNumber:
		return v.number == other.number
	case KindString:
		return v.text == other.text
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.members) != len(other.members) {
			return false
		}
		for i := range v.members {
			if v.members[i].Key != other.members[i].Key || !v.members[i].Value.Equal(other.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Literal returns the textual form of a primitive as it appears in JSON text:
// strings are quoted, numbers use the shortest round-trip form. Composite
// values return their compact JSON encoding.
func (v Value) Literal() string {
	b, _ := v.MarshalJSON()
	return string(b)
}

// MarshalJSON encodes v as compact JSON, preserving object member order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case KindNumber:
		buf.WriteString(FormatNumber(v.number))
	case KindString:
		return encodeString(buf, v.text)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// FormatNumber renders n the way ECMAScript's Number#toString does, so 1.0
// prints as "1" and 1e21 as "1e+21".
func FormatNumber(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		// not representable in JSON
		return "null"
	}
	if n == 0 {
		return "0"
	}
	abs := math.Abs(n)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(n, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[0]
	exp = strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + string(sign) + exp
}

// Interface converts v into the plain Go representation produced by
// encoding/json: map[string]any, []any, float64, string, bool and nil.
// Object member order is lost.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.boolean
	case KindNumber:
		return v.number
	case KindString:
		return v.text
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// MatchKind says which half of an entry produced a search result.
type MatchKind string

const (
	MatchKey   MatchKind = "key"
	MatchValue MatchKind = "value"
)

// SearchResult is one located match. Path is the path of the object or array
// holding the matched entry and Key names the entry within it, so a key match
// and a value match on the same entry share a path. Entry is the full path
// of the matched node itself.
type SearchResult struct {
	Path  Path      `json:"path"`
	Key   string    `json:"key"`
	Value Value     `json:"value"`
	Type  TypeTag   `json:"type"`
	Match MatchKind `json:"match"`
	Entry Path      `json:"entry"`
}
