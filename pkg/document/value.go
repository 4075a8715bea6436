package document

import (
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates the shapes a field value can take.
type Kind int

const (
	KindText Kind = iota
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Pair is one key/text entry of an object value.
type Pair struct {
	Key   string
	Value string
}

// Value is a closed variant over the three value shapes a form produces:
// text, a list of text, or an ordered object of text entries. The zero value
// is empty text.
type Value struct {
	kind   Kind
	text   string
	list   []string
	object []Pair
}

// Text builds a text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// List builds a list value. The items are copied.
func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string{}, items...)}
}

// Object builds an object value. Later pairs replace earlier pairs sharing a
// key while keeping the first position.
func Object(pairs ...Pair) Value {
	out := make([]Pair, 0, len(pairs))
	index := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		if pos, ok := index[pair.Key]; ok {
			out[pos].Value = pair.Value
			continue
		}
		index[pair.Key] = len(out)
		out = append(out, pair)
	}
	return Value{kind: KindObject, object: out}
}

// Kind reports the value shape.
func (v Value) Kind() Kind { return v.kind }

// Text returns the text payload; empty for non-text values.
func (v Value) Text() string { return v.text }

// List returns a copy of the list payload.
func (v Value) List() []string {
	if v.kind != KindList {
		return nil
	}
	return append([]string(nil), v.list...)
}

// Pairs returns a copy of the object payload.
func (v Value) Pairs() []Pair {
	if v.kind != KindObject {
		return nil
	}
	return append([]Pair(nil), v.object...)
}

// Get returns the text stored under key in an object value.
func (v Value) Get(key string) (string, bool) {
	for _, pair := range v.object {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return "", false
}

// With returns a copy of an object value with key set.
func (v Value) With(key, value string) Value {
	pairs := append(v.Pairs(), Pair{Key: key, Value: value})
	return Object(pairs...)
}

// IsZero reports whether the value carries nothing worth serializing: empty
// text, an empty list, or an object whose entries are all empty.
func (v Value) IsZero() bool {
	switch v.kind {
	case KindList:
		return len(v.list) == 0
	case KindObject:
		for _, pair := range v.object {
			if pair.Value != "" {
				return false
			}
		}
		return true
	default:
		return v.text == ""
	}
}

// Equal compares two values structurally.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != other.list[i] {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.object) != len(other.object) {
			return false
		}
		for i := range v.object {
			if v.object[i] != other.object[i] {
				return false
			}
		}
		return true
	default:
		return v.text == other.text
	}
}

// Any converts the value into plain Go data (string, []any, map[string]any).
func (v Value) Any() any {
	switch v.kind {
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.object))
		for _, pair := range v.object {
			out[pair.Key] = pair.Value
		}
		return out
	default:
		return v.text
	}
}

// FromAny converts decoded JSON/YAML data into a Value. Scalars are rendered
// as text, lists must hold scalars and objects must map to scalars; anything
// else reports false. Object keys are sorted because the source map carries no
// order; document building re-orders them by nested field order.
func FromAny(raw any) (Value, bool) {
	switch typed := raw.(type) {
	case nil:
		return Text(""), true
	case Value:
		return typed, true
	case string:
		return Text(typed), true
	case bool, int, int64, float64, float32, uint, uint64:
		return Text(fmt.Sprint(typed)), true
	case []string:
		return List(typed...), true
	case []any:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			text, ok := scalarText(item)
			if !ok {
				return Value{}, false
			}
			items = append(items, text)
		}
		return List(items...), true
	case map[string]string:
		keys := sortedKeys(typed)
		pairs := make([]Pair, 0, len(keys))
		for _, key := range keys {
			pairs = append(pairs, Pair{Key: key, Value: typed[key]})
		}
		return Object(pairs...), true
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		pairs := make([]Pair, 0, len(keys))
		for _, key := range keys {
			text, ok := scalarText(typed[key])
			if !ok {
				return Value{}, false
			}
			pairs = append(pairs, Pair{Key: key, Value: text})
		}
		return Object(pairs...), true
	default:
		return Value{}, false
	}
}

func scalarText(raw any) (string, bool) {
	switch typed := raw.(type) {
	case nil:
		return "", true
	case string:
		return typed, true
	case bool, int, int64, float64, float32, uint, uint64:
		return fmt.Sprint(typed), true
	default:
		return "", false
	}
}

func sortedKeys(in map[string]string) []string {
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// String renders a short human readable form, used by logs and the CLI.
func (v Value) String() string {
	switch v.kind {
	case KindList:
		return "[" + strings.Join(v.list, ", ") + "]"
	case KindObject:
		parts := make([]string, 0, len(v.object))
		for _, pair := range v.object {
			parts = append(parts, pair.Key+"="+pair.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return v.text
	}
}
