package serialize

import (
	"strings"

	"github.com/goliatone/go-schemeweave/pkg/document"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

// XMLSerializer walks the document and writes one element per value. Element
// names are the entry keys and text is written verbatim: nothing is escaped
// and no CDATA sections are produced.
type XMLSerializer struct{}

// NewXML returns the XML serializer.
func NewXML() *XMLSerializer { return &XMLSerializer{} }

func (s *XMLSerializer) Format() Format { return FormatXML }

func (s *XMLSerializer) ContentType() string { return contentType(FormatXML) }

// Serialize emits the declaration and a <document> root. @context entries and
// @type are written as elements named after their keys.
func (s *XMLSerializer) Serialize(doc document.Document) (string, error) {
	var b strings.Builder
	b.WriteString(xmlDeclaration)
	b.WriteString("\n<document>\n")

	for _, ctx := range doc.Context {
		writeElement(&b, "@context", ctx, 1)
	}
	if doc.Type != "" {
		writeElement(&b, "@type", doc.Type, 1)
	}
	for _, entry := range doc.Entries {
		writeValue(&b, entry.Key, entry.Value, 1)
	}

	b.WriteString("</document>")
	return b.String(), nil
}

func writeValue(b *strings.Builder, key string, value document.Value, depth int) {
	switch value.Kind() {
	case document.KindList:
		for _, item := range value.List() {
			writeElement(b, key, item, depth)
		}
	case document.KindObject:
		indent := strings.Repeat("  ", depth)
		b.WriteString(indent + "<" + key + ">\n")
		for _, pair := range value.Pairs() {
			writeElement(b, pair.Key, pair.Value, depth+1)
		}
		b.WriteString(indent + "</" + key + ">\n")
	default:
		writeElement(b, key, value.Text(), depth)
	}
}

func writeElement(b *strings.Builder, key, text string, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString("<" + key + ">")
	b.WriteString(text)
	b.WriteString("</" + key + ">\n")
}
