package schema

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed catalog/*
var embeddedCatalog embed.FS

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// EmbeddedFS returns the bundled schema catalog files.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedCatalog, "catalog")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Default returns the bundled DOAP/FOAF catalog, parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = LoadFS(EmbeddedFS())
	})
	return defaultCatalog, defaultErr
}

// MustDefault panics when the bundled catalog fails to load.
func MustDefault() *Catalog {
	catalog, err := Default()
	if err != nil {
		panic(err)
	}
	return catalog
}
