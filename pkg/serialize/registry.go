package serialize

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-schemeweave/pkg/document"
)

// Serializer renders a document in one format.
type Serializer interface {
	Format() Format
	ContentType() string
	Serialize(doc document.Document) (string, error)
}

// Registry stores serializers by format, rejecting duplicates.
type Registry struct {
	mu          sync.RWMutex
	serializers map[Format]Serializer
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		serializers: make(map[Format]Serializer),
	}
}

// Register adds a serializer by its Format(). Duplicate formats return an error.
func (r *Registry) Register(serializer Serializer) error {
	if serializer == nil {
		return fmt.Errorf("serialize: serializer is required")
	}
	format := serializer.Format()
	if format == "" {
		return fmt.Errorf("serialize: serializer format is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.serializers[format]; exists {
		return fmt.Errorf("serialize: serializer %q already registered", format)
	}
	r.serializers[format] = serializer
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(serializer Serializer) {
	if err := r.Register(serializer); err != nil {
		panic(err)
	}
}

// Get retrieves a serializer by format.
func (r *Registry) Get(format Format) (Serializer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	serializer, ok := r.serializers[format]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
	return serializer, nil
}

// List returns the registered formats sorted by name.
func (r *Registry) List() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]Format, 0, len(r.serializers))
	for format := range r.serializers {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// Serialize renders doc with the serializer registered for format.
func (r *Registry) Serialize(doc document.Document, format Format) (string, error) {
	serializer, err := r.Get(format)
	if err != nil {
		return "", err
	}
	return serializer.Serialize(doc)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the shared registry holding the built-in formats.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultRegistry.MustRegister(NewJSON())
		defaultRegistry.MustRegister(NewJSONLD())
		defaultRegistry.MustRegister(NewXML())
		defaultRegistry.MustRegister(NewTurtle())
	})
	return defaultRegistry
}

// Serialize renders doc through the default registry.
func Serialize(doc document.Document, format Format) (string, error) {
	return DefaultRegistry().Serialize(doc, format)
}

func contentType(format Format) string {
	if info, ok := Info(format); ok {
		return info.MIMEType
	}
	return "text/plain"
}
