package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-schemeweave/pkg/document"
	"github.com/goliatone/go-schemeweave/pkg/ordering"
	"github.com/goliatone/go-schemeweave/pkg/schema"
	"github.com/goliatone/go-schemeweave/pkg/serialize"
	"github.com/goliatone/go-schemeweave/pkg/validation"
)

// Option customises a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger used by Dispatch.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithClock overrides the time source used for document metadata.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) {
		if now != nil {
			w.now = now
		}
	}
}

// WithIDGenerator overrides how document and custom field ids are generated.
func WithIDGenerator(next func() string) Option {
	return func(w *Workspace) {
		if next != nil {
			w.newID = next
		}
	}
}

// WithRegistry sets the serializer registry used by Render.
func WithRegistry(registry *serialize.Registry) Option {
	return func(w *Workspace) {
		if registry != nil {
			w.registry = registry
		}
	}
}

// WithDefaultSchema selects the initial schema. Without it the first catalog
// key is used.
func WithDefaultSchema(key string) Option {
	return func(w *Workspace) {
		w.selection.Schema = key
	}
}

// WithPreviewFormat sets the initial preview format.
func WithPreviewFormat(format serialize.Format) Option {
	return func(w *Workspace) {
		if format != "" {
			w.previewFormat = format
		}
	}
}

// Workspace is the application state of one editing session.
type Workspace struct {
	catalog  *schema.Catalog
	registry *serialize.Registry
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string

	selection     Selection
	contexts      map[string]*contextState
	formData      document.FormData
	documents     []DocumentInstance
	current       string
	previewFormat serialize.Format
	dirty         bool
}

// New builds a workspace over catalog with the default schema selected.
func New(catalog *schema.Catalog, opts ...Option) (*Workspace, error) {
	if catalog.Empty() {
		return nil, errors.New("workspace: catalog is empty")
	}
	w := &Workspace{
		catalog:       catalog,
		registry:      serialize.DefaultRegistry(),
		logger:        slog.Default(),
		now:           time.Now,
		newID:         func() string { return uuid.NewString() },
		contexts:      make(map[string]*contextState),
		formData:      document.FormData{},
		previewFormat: serialize.FormatJSON,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	if w.selection.Schema == "" {
		w.selection.Schema = catalog.Keys()[0]
	}
	if _, ok := catalog.Get(w.selection.Schema); !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSchema, w.selection.Schema)
	}
	return w, nil
}

// Dispatch applies cmd to the workspace.
func (w *Workspace) Dispatch(cmd Command) error {
	if cmd == nil {
		return ErrNilCommand
	}
	name := cmd.Name()
	if err := cmd.Apply(w); err != nil {
		w.logger.Warn("workspace command failed",
			"command", name,
			"context", w.selection.Key(),
			"error", err,
		)
		return err
	}
	w.logger.Debug("workspace command applied",
		"command", name,
		"context", w.selection.Key(),
		"dirty", w.dirty,
	)
	return nil
}

// Catalog returns the catalog backing the workspace.
func (w *Workspace) Catalog() *schema.Catalog { return w.catalog }

// Selection returns the active context.
func (w *Workspace) Selection() Selection { return w.selection }

// Definition returns the selected schema definition.
func (w *Workspace) Definition() schema.Definition {
	def, _ := w.catalog.Get(w.selection.Schema)
	return def
}

// Template returns the selected template, if any.
func (w *Workspace) Template() (schema.Template, bool) {
	if w.selection.Template == "" {
		return schema.Template{}, false
	}
	return w.catalog.Template(w.selection.Schema, w.selection.Template)
}

// Fields returns the resolved field order for the active context.
func (w *Workspace) Fields() []schema.Field {
	state := w.contexts[w.selection.Key()]
	if state == nil {
		return ordering.Resolve(w.Definition().Fields, nil, nil)
	}
	return ordering.Resolve(w.Definition().Fields, state.custom, state.overrides)
}

// CustomFields returns the custom fields of the active context.
func (w *Workspace) CustomFields() []schema.Field {
	if state := w.contexts[w.selection.Key()]; state != nil {
		return schema.CloneFields(state.custom)
	}
	return nil
}

// Overrides returns a copy of the override map of the active context.
func (w *Workspace) Overrides() ordering.Overrides {
	if state := w.contexts[w.selection.Key()]; state != nil {
		return state.overrides.Clone()
	}
	return nil
}

// FormData returns a copy of the current form data.
func (w *Workspace) FormData() document.FormData { return w.formData.Clone() }

// Value returns the form value stored for field.
func (w *Workspace) Value(field string) (document.Value, bool) {
	value, ok := w.formData[field]
	return value, ok
}

// Document builds the ordered, filtered document for the active context.
// Values of generated custom fields that the context no longer defines, for
// example after ResetOrder, stay in the form data but are left out.
func (w *Workspace) Document() document.Document {
	fields := w.Fields()
	return document.Build(w.Definition(), fields, w.documentData(fields))
}

func (w *Workspace) documentData(fields []schema.Field) document.FormData {
	var orphaned []string
	for key := range w.formData {
		if strings.HasPrefix(key, customIDPrefix) && ordering.IndexOf(fields, key) < 0 {
			orphaned = append(orphaned, key)
		}
	}
	if len(orphaned) == 0 {
		return w.formData
	}
	data := w.formData.Clone()
	for _, key := range orphaned {
		delete(data, key)
	}
	return data
}

// Render serializes the current document. An empty format uses the preview
// format.
func (w *Workspace) Render(format serialize.Format) (string, error) {
	if format == "" {
		format = w.previewFormat
	}
	return w.registry.Serialize(w.Document(), format)
}

// Validate checks the form data against the resolved fields.
func (w *Workspace) Validate() validation.Errors {
	return validation.Validate(w.Fields(), w.formData)
}

// PreviewFormat returns the selected preview format.
func (w *Workspace) PreviewFormat() serialize.Format { return w.previewFormat }

// Registry returns the serializer registry used by Render.
func (w *Workspace) Registry() *serialize.Registry { return w.registry }

// Dirty reports whether the form changed since the last save or load.
func (w *Workspace) Dirty() bool { return w.dirty }

// Documents returns copies of the saved documents in save order.
func (w *Workspace) Documents() []DocumentInstance {
	out := make([]DocumentInstance, len(w.documents))
	for i, doc := range w.documents {
		out[i] = doc.clone()
	}
	return out
}

// CurrentDocument returns the document the form was last saved to or loaded
// from.
func (w *Workspace) CurrentDocument() (DocumentInstance, bool) {
	if idx := w.documentIndex(w.current); idx >= 0 {
		return w.documents[idx].clone(), true
	}
	return DocumentInstance{}, false
}

// Snapshot captures the workspace state in its persisted form.
func (w *Workspace) Snapshot() Snapshot {
	snap := Snapshot{
		Selection:       w.selection,
		CurrentDocument: w.current,
		PreviewFormat:   w.previewFormat,
	}
	if len(w.formData) > 0 {
		snap.FormData = w.formData.Clone()
	}
	if len(w.documents) > 0 {
		snap.Documents = w.Documents()
	}
	for key, state := range w.contexts {
		if state.empty() {
			continue
		}
		if snap.Contexts == nil {
			snap.Contexts = make(map[string]ContextSnapshot)
		}
		snap.Contexts[key] = state.snapshot()
	}
	return snap
}

// Restore replaces the workspace state with snap. The selection must name a
// schema (and template) known to the catalog.
func (w *Workspace) Restore(snap Snapshot) error {
	def, ok := w.catalog.Get(snap.Selection.Schema)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownSchema, snap.Selection.Schema)
	}
	if snap.Selection.Template != "" {
		if _, ok := def.Template(snap.Selection.Template); !ok {
			return fmt.Errorf("%w %q", ErrUnknownTemplate, snap.Selection.Template)
		}
	}

	contexts := make(map[string]*contextState, len(snap.Contexts))
	for key, ctx := range snap.Contexts {
		if err := w.checkCustomFields(key, ctx.CustomFields); err != nil {
			return fmt.Errorf("workspace: context %q: %w", key, err)
		}
		contexts[key] = contextFromSnapshot(ctx)
	}
	documents := make([]DocumentInstance, len(snap.Documents))
	for i, doc := range snap.Documents {
		documents[i] = doc.clone()
	}

	w.selection = snap.Selection
	w.contexts = contexts
	w.formData = snap.FormData.Clone()
	w.documents = documents
	w.current = ""
	if w.documentIndex(snap.CurrentDocument) >= 0 {
		w.current = snap.CurrentDocument
	}
	if snap.PreviewFormat != "" {
		w.previewFormat = snap.PreviewFormat
	}
	w.dirty = false
	return nil
}

func (w *Workspace) context() *contextState {
	key := w.selection.Key()
	state, ok := w.contexts[key]
	if !ok {
		state = &contextState{}
		w.contexts[key] = state
	}
	return state
}

func (w *Workspace) documentIndex(id string) int {
	if id == "" {
		return -1
	}
	for i, doc := range w.documents {
		if doc.ID == id {
			return i
		}
	}
	return -1
}

func (w *Workspace) fieldIndex(id string) int {
	return ordering.IndexOf(w.Fields(), id)
}

// checkCustomFields applies the AddCustomField id rules to persisted custom
// fields of the context stored under key.
func (w *Workspace) checkCustomFields(key string, custom []schema.Field) error {
	schemaKey, _, _ := strings.Cut(key, "/")
	def, _ := w.catalog.Get(schemaKey)

	taken := make(map[string]struct{}, len(def.Fields)+len(custom))
	for _, field := range def.Fields {
		taken[field.ID] = struct{}{}
	}
	for _, field := range custom {
		if strings.TrimSpace(field.ID) == "" {
			return fmt.Errorf("%w: custom field id is required", ErrInvalidField)
		}
		if err := checkCustomID(def, field.ID); err != nil {
			return err
		}
		if _, ok := taken[field.ID]; ok {
			return fmt.Errorf("%w %q", ErrDuplicateField, field.ID)
		}
		taken[field.ID] = struct{}{}
	}
	return nil
}

// checkCustomID rejects ids that would collide with document keywords or the
// definition's type selector.
func checkCustomID(def schema.Definition, id string) error {
	if strings.HasPrefix(id, "@") {
		return fmt.Errorf("%w: id %q is reserved", ErrInvalidField, id)
	}
	if def.TypeField != "" && id == def.TypeField {
		return fmt.Errorf("%w: id %q selects the document type", ErrInvalidField, id)
	}
	return nil
}
