// Package validation checks form data against the rules declared on schema
// fields. Errors are keyed by field id, or "parent.child" for nested fields.
package validation
