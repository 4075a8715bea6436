package document

import (
	"sort"
	"strings"

	"github.com/goliatone/go-schemeweave/pkg/schema"
)

// FormData maps field ids to the values entered for the active context.
type FormData map[string]Value

// Clone returns a copy of the form data.
func (d FormData) Clone() FormData {
	if d == nil {
		return FormData{}
	}
	out := make(FormData, len(d))
	for key, value := range d {
		out[key] = value
	}
	return out
}

// FromDefaults converts template default values into form data. Entries whose
// shape cannot be represented are skipped.
func FromDefaults(defaults map[string]any) FormData {
	out := make(FormData, len(defaults))
	for key, raw := range defaults {
		value, ok := FromAny(raw)
		if !ok {
			continue
		}
		out[key] = value
	}
	return out
}

// Entry is one key/value pair of an ordered document.
type Entry struct {
	Key   string
	Value Value
}

// Document is the field-ordered, filtered view serializers consume. Context
// and Type carry the JSON-LD framing synthesized from the schema definition.
type Document struct {
	Context []string
	Type    string
	Entries []Entry
}

// Keys lists the entry keys in order.
func (d Document) Keys() []string {
	keys := make([]string, len(d.Entries))
	for i, entry := range d.Entries {
		keys[i] = entry.Key
	}
	return keys
}

// Lookup returns the value stored under key.
func (d Document) Lookup(key string) (Value, bool) {
	for _, entry := range d.Entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return Value{}, false
}

// Build merges data into the resolved field order of def. Empty values are
// dropped, object values keep only non-empty entries ordered by the nested
// field list, and the definition's type field selects @type instead of being
// emitted. Keys without a matching field are appended in sorted order.
func Build(def schema.Definition, fields []schema.Field, data FormData) Document {
	doc := Document{
		Context: append([]string(nil), def.Context...),
		Type:    def.Type,
	}

	if def.TypeField != "" {
		if value, ok := data[def.TypeField]; ok && value.Kind() == KindText {
			if typ := strings.TrimSpace(value.Text()); typ != "" {
				doc.Type = typ
			}
		}
	}

	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		seen[field.ID] = struct{}{}
		if field.ID == def.TypeField {
			continue
		}
		value, ok := data[field.ID]
		if !ok {
			continue
		}
		if value.Kind() == KindObject {
			value = orderObject(value, field.Nested)
		}
		if value.IsZero() {
			continue
		}
		doc.Entries = append(doc.Entries, Entry{Key: field.ID, Value: value})
	}

	var extra []string
	for key := range data {
		if _, ok := seen[key]; ok || key == def.TypeField {
			continue
		}
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		value := data[key]
		if value.Kind() == KindObject {
			value = orderObject(value, nil)
		}
		if value.IsZero() {
			continue
		}
		doc.Entries = append(doc.Entries, Entry{Key: key, Value: value})
	}

	return doc
}

func orderObject(value Value, nested []schema.Field) Value {
	pairs := value.Pairs()
	position := make(map[string]int, len(nested))
	for idx, field := range nested {
		position[field.ID] = idx
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		pi, okI := position[pairs[i].Key]
		pj, okJ := position[pairs[j].Key]
		switch {
		case okI && okJ:
			return pi < pj
		case okI:
			return true
		default:
			return false
		}
	})

	kept := pairs[:0]
	for _, pair := range pairs {
		if pair.Value == "" {
			continue
		}
		kept = append(kept, pair)
	}
	return Object(kept...)
}
