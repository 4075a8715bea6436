// Package preview renders the HTML preview page: the serialized document,
// the format tabs, the resolved field list and any validation errors, styled
// by the selected go-theme manifest.
//
// Templates are executed with a pongo2 template set loaded from the embedded
// templates directory, or from a directory on disk. A theme manifest may
// replace the page template through its "preview.page" template entry.
package preview
