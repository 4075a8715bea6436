package serialize

import (
	"errors"
	"fmt"
	"strings"
)

// Format names an output format.
type Format string

const (
	FormatJSON   Format = "json"
	FormatJSONLD Format = "json-ld"
	FormatXML    Format = "xml"
	FormatTurtle Format = "turtle"
)

// ErrUnknownFormat reports a format name that has no serializer.
var ErrUnknownFormat = errors.New("serialize: unknown format")

// FormatInfo describes how a format is served and exported.
type FormatInfo struct {
	Format      Format
	MIMEType    string
	Extension   string
	Description string
}

var formatTable = []FormatInfo{
	{
		Format:      FormatJSON,
		MIMEType:    "application/json",
		Extension:   "json",
		Description: "JSON",
	},
	{
		Format:      FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   "json",
		Description: "JSON-LD - JSON for Linked Data",
	},
	{
		Format:      FormatXML,
		MIMEType:    "application/xml",
		Extension:   "xml",
		Description: "XML",
	},
	{
		Format:      FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   "turtle",
		Description: "Turtle - Terse RDF Triple Language",
	},
}

// Formats lists the built-in formats in display order.
func Formats() []FormatInfo {
	return append([]FormatInfo(nil), formatTable...)
}

// Info returns the metadata for a built-in format.
func Info(format Format) (FormatInfo, bool) {
	for _, info := range formatTable {
		if info.Format == format {
			return info, true
		}
	}
	return FormatInfo{}, false
}

// ParseFormat normalises a user supplied format name. It accepts the aliases
// "jsonld" and "ttl".
func ParseFormat(raw string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "jsonld", "json_ld":
		name = string(FormatJSONLD)
	case "ttl":
		name = string(FormatTurtle)
	}
	if _, ok := Info(Format(name)); !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, raw)
	}
	return Format(name), nil
}

func (f Format) String() string { return string(f) }
