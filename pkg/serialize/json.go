package serialize

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-schemeweave/pkg/document"
)

const jsonIndent = "  "

// JSONSerializer writes documents as two-space indented JSON. The JSON and
// JSON-LD formats share this writer and produce identical text.
type JSONSerializer struct {
	format Format
}

// NewJSON returns the plain JSON serializer.
func NewJSON() *JSONSerializer { return &JSONSerializer{format: FormatJSON} }

// NewJSONLD returns the JSON-LD serializer.
func NewJSONLD() *JSONSerializer { return &JSONSerializer{format: FormatJSONLD} }

func (s *JSONSerializer) Format() Format { return s.format }

func (s *JSONSerializer) ContentType() string { return contentType(s.format) }

// Serialize renders @context, @type and then the entries in document order.
// Lists are written inline and objects expand over lines.
func (s *JSONSerializer) Serialize(doc document.Document) (string, error) {
	var members []string

	switch len(doc.Context) {
	case 0:
	case 1:
		members = append(members, member("@context", quote(doc.Context[0])))
	default:
		members = append(members, member("@context", inlineList(doc.Context)))
	}
	if doc.Type != "" {
		members = append(members, member("@type", quote(doc.Type)))
	}
	for _, entry := range doc.Entries {
		members = append(members, member(entry.Key, encodeValue(entry.Value, 1)))
	}

	return block(members, 0), nil
}

func encodeValue(value document.Value, depth int) string {
	switch value.Kind() {
	case document.KindList:
		return inlineList(value.List())
	case document.KindObject:
		pairs := value.Pairs()
		members := make([]string, 0, len(pairs))
		for _, pair := range pairs {
			members = append(members, member(pair.Key, quote(pair.Value)))
		}
		return block(members, depth)
	default:
		return quote(value.Text())
	}
}

func member(key, encoded string) string {
	return quote(key) + ": " + encoded
}

// block lays members out one per line, one indent level past depth.
func block(members []string, depth int) string {
	if len(members) == 0 {
		return "{}"
	}
	inner := strings.Repeat(jsonIndent, depth+1)
	var b strings.Builder
	b.WriteString("{\n")
	for idx, m := range members {
		b.WriteString(inner)
		b.WriteString(m)
		if idx < len(members)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat(jsonIndent, depth))
	b.WriteString("}")
	return b.String()
}

func inlineList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	parts := make([]string, len(items))
	for idx, item := range items {
		parts[idx] = quote(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func quote(s string) string {
	payload, err := json.MarshalNoEscape(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(payload)
}
