// Package schemeweave composes linked-data metadata documents from a catalog
// of schema definitions and serializes them as JSON, JSON-LD, XML or Turtle.
//
// The root package re-exports the common entry points; the building blocks
// live under pkg/ (schema, ordering, document, serialize, workspace, ...).
package schemeweave

import (
	"io/fs"

	"github.com/goliatone/go-schemeweave/pkg/document"
	"github.com/goliatone/go-schemeweave/pkg/ordering"
	"github.com/goliatone/go-schemeweave/pkg/preview"
	"github.com/goliatone/go-schemeweave/pkg/schema"
	"github.com/goliatone/go-schemeweave/pkg/serialize"
	"github.com/goliatone/go-schemeweave/pkg/workspace"
)

// Workspace aliases the stateful editing session.
type Workspace = workspace.Workspace

// Snapshot aliases the persisted workspace state.
type Snapshot = workspace.Snapshot

// Format names an output format.
type Format = serialize.Format

// FormData maps field ids to their values.
type FormData = document.FormData

const (
	FormatJSON   = serialize.FormatJSON
	FormatJSONLD = serialize.FormatJSONLD
	FormatXML    = serialize.FormatXML
	FormatTurtle = serialize.FormatTurtle
)

// NewWorkspace opens a workspace over the bundled catalog.
func NewWorkspace(options ...workspace.Option) (*Workspace, error) {
	catalog, err := schema.Default()
	if err != nil {
		return nil, err
	}
	return workspace.New(catalog, options...)
}

// LoadCatalog returns the bundled catalog extended by the definitions found
// in dir. An empty dir returns the bundled catalog.
func LoadCatalog(dir string) (*schema.Catalog, error) {
	catalog, err := schema.Default()
	if err != nil || dir == "" {
		return catalog, err
	}
	extra, err := schema.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return catalog.Merge(extra), nil
}

// Render serializes data for def using the declared field order.
func Render(def schema.Definition, data FormData, format Format) (string, error) {
	fields := ordering.Resolve(def.Fields, nil, nil)
	return serialize.Serialize(document.Build(def, fields, data), format)
}

// SchemaFiles exposes the bundled schema definitions.
func SchemaFiles() fs.FS {
	return schema.EmbeddedFS()
}

// PreviewTemplates exposes the bundled preview page templates so callers can
// copy or extend them.
func PreviewTemplates() fs.FS {
	return preview.TemplatesFS()
}
