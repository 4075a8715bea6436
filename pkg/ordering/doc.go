// Package ordering resolves the display and serialization order of schema and
// custom fields for one (schema, template) context.
//
// Ranks come from a sparse override map first, then from the field's declared
// order, and finally from Sentinel so undeclared fields sort last. Sorting is
// stable, so fields sharing a rank keep their input order. A reorder re-stamps
// the whole context with sequential ranks.
package ordering
