package preview

import (
	"embed"
	"io/fs"
)

//go:embed templates/*
var embeddedTemplates embed.FS

// TemplatesFS exposes the bundled preview templates rooted at the templates
// directory.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
