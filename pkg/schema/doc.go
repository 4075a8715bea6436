// Package schema defines the static schema catalog Schemeweave composes
// documents from. A Definition (DOAP, FOAF, ...) lists typed fields and named
// templates carrying default values. Definitions are loaded once from YAML or
// JSON files (LoadFS) and treated as immutable afterwards; the bundled catalog
// is available through EmbeddedFS and Default. Field ordering hints (`order`)
// and the `locked` flag are consumed by the ordering package, while the
// JSON-LD framing (`context`, `type`, `typeField`) is consumed when documents
// are built for serialization.
package schema
