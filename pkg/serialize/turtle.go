package serialize

import (
	"strings"

	"github.com/goliatone/go-schemeweave/pkg/document"
)

// TurtleSubject is the placeholder subject every document is written under.
const TurtleSubject = "<http://example.org/document>"

var turtlePrefixes = []struct{ prefix, iri string }{
	{prefix: "schema", iri: "https://schema.org/"},
	{prefix: "doap", iri: "http://usefulinc.com/ns/doap#"},
	{prefix: "foaf", iri: "http://xmlns.com/foaf/0.1/"},
}

// TurtleSerializer writes one subject block with a literal predicate per
// value. Keys starting with "@" are not predicates and are skipped.
type TurtleSerializer struct{}

// NewTurtle returns the Turtle serializer.
func NewTurtle() *TurtleSerializer { return &TurtleSerializer{} }

func (s *TurtleSerializer) Format() Format { return FormatTurtle }

func (s *TurtleSerializer) ContentType() string { return contentType(FormatTurtle) }

// Serialize terminates the last emitted line with " ." instead of " ;". With no
// predicates besides the type, the subject line itself ends the block.
func (s *TurtleSerializer) Serialize(doc document.Document) (string, error) {
	var b strings.Builder
	for _, p := range turtlePrefixes {
		b.WriteString("@prefix " + p.prefix + ": <" + p.iri + "> .\n")
	}
	b.WriteString("\n")

	lines := []string{TurtleSubject + " a " + doc.Type}
	for _, entry := range doc.Entries {
		if strings.HasPrefix(entry.Key, "@") {
			continue
		}
		lines = append(lines, predicateLines(entry.Key, entry.Value)...)
	}

	for idx, line := range lines {
		b.WriteString(line)
		if idx == len(lines)-1 {
			b.WriteString(" .\n")
		} else {
			b.WriteString(" ;\n")
		}
	}
	return b.String(), nil
}

// predicateLines returns the unterminated lines for one entry.
func predicateLines(key string, value document.Value) []string {
	switch value.Kind() {
	case document.KindList:
		items := value.List()
		lines := make([]string, len(items))
		for idx, item := range items {
			lines[idx] = "  " + key + ` "` + item + `"`
		}
		return lines
	case document.KindObject:
		var b strings.Builder
		b.WriteString("  " + key + " [\n")
		for _, pair := range value.Pairs() {
			b.WriteString("    " + pair.Key + ` "` + pair.Value + `" ;` + "\n")
		}
		b.WriteString("  ]")
		return []string{b.String()}
	default:
		return []string{"  " + key + ` "` + value.Text() + `"`}
	}
}
