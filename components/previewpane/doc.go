// Package previewpane serves the live document preview over net/http.
//
// The handler answers GET and HEAD requests. By default it returns the raw
// serializer output for the requested format (?format=json|json-ld|xml|turtle)
// with the format's MIME type; ?view=html returns the themed preview page
// rendered by pkg/preview. The workspace is shared through a Provider so the
// CLI can keep mutating it while requests are served.
package previewpane
