package models

import (
	"bytes"
	"encoding/json"
)

// JSONValue is a generic type to represent any JSON value.
// Concrete values are nil, bool, json.Number, string, JSONArray or JSONObject.
// Values are immutable by convention: edits build a new tree and share
// untouched subtrees with the old one.
type JSONValue interface{}

// Member is a single key/value entry of a JSONObject.
type Member struct {
	Key   string
	Value JSONValue
}

// JSONObject represents a JSON object as an ordered list of members.
// Keys are unique and insertion order is significant.
type JSONObject []Member

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// IntermediateRepresentation holds a parsed document.
type IntermediateRepresentation struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the JSON is an array vs an object
}

// Kind identifies which JSON type a value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindArray
	KindObject
	KindInvalid
)

var kindNames = map[Kind]string{
	KindNull:    "null",
	KindBoolean: "boolean",
	KindNumber:  "number",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
	KindInvalid: "invalid",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// IsContainer reports whether the kind holds other values.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindObject
}

// KindOf classifies a value. Go values outside the model report KindInvalid.
func KindOf(v JSONValue) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBoolean
	case json.Number:
		return KindNumber
	case string:
		return KindString
	case JSONArray:
		return KindArray
	case JSONObject:
		return KindObject
	default:
		return KindInvalid
	}
}

// IsContainer reports whether v is an array or object.
func IsContainer(v JSONValue) bool {
	return KindOf(v).IsContainer()
}

// Get returns the value stored under key.
func (o JSONObject) Get(key string) (JSONValue, bool) {
	if i := o.IndexOf(key); i >= 0 {
		return o[i].Value, true
	}
	return nil, false
}

// IndexOf returns the position of key, or -1.
func (o JSONObject) IndexOf(key string) int {
	for i := range o {
		if o[i].Key == key {
			return i
		}
	}
	return -1
}

// Keys returns the member keys in order.
func (o JSONObject) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// With returns a copy of o where key holds value. An existing member keeps
// its position; a new one is appended.
func (o JSONObject) With(key string, value JSONValue) JSONObject {
	out := make(JSONObject, len(o), len(o)+1)
	copy(out, o)
	if i := out.IndexOf(key); i >= 0 {
		out[i].Value = value
		return out
	}
	return append(out, Member{Key: key, Value: value})
}

// Without returns a copy of o with key removed.
func (o JSONObject) Without(key string) JSONObject {
	out := make(JSONObject, 0, len(o))
	for _, m := range o {
		if m.Key != key {
			out = append(out, m)
		}
	}
	return out
}

// Clone returns a deep copy of v.
func Clone(v JSONValue) JSONValue {
	switch val := v.(type) {
	case JSONObject:
		out := make(JSONObject, len(val))
		for i, m := range val {
			out[i] = Member{Key: m.Key, Value: Clone(m.Value)}
		}
		return out
	case JSONArray:
		out := make(JSONArray, len(val))
		for i, e := range val {
			out[i] = Clone(e)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether a and b are the same JSON value, including member
// order. Numbers compare by literal text.
func Equal(a, b JSONValue) bool {
	switch av := a.(type) {
	case JSONObject:
		bv, ok := b.(JSONObject)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i].Key != bv[i].Key || !Equal(av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	case JSONArray:
		bv, ok := b.(JSONArray)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		k := KindOf(a)
		return k != KindInvalid && k == KindOf(b) && a == b
	}
}

// MarshalJSON writes members in order. HTML characters are left unescaped.
func (o JSONObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCompact(&buf, m.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeCompact(&buf, m.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON keeps HTML characters in nested strings unescaped.
func (a JSONArray) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCompact(&buf, e); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func writeCompact(buf *bytes.Buffer, v interface{}) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
