// Package workspace holds the editing state of one user session: the selected
// schema and template, form data, per-context field ordering and custom
// fields, and saved documents.
//
// State changes only through commands run by Workspace.Dispatch. Queries such
// as Fields, Document and Render derive their results from that state through
// the ordering, document and serialize packages. A Workspace is not safe for
// concurrent mutation; callers serving it concurrently must guard it.
package workspace
