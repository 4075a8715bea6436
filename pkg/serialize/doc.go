// Package serialize renders ordered documents as JSON, JSON-LD, XML or Turtle
// text.
//
// Serializers are registered by format in a Registry. DefaultRegistry holds
// the built-in writers; callers can register extra formats on their own
// registry. Every serializer consumes the filtered document produced by
// document.Build and never re-filters it.
package serialize
