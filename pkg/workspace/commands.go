package workspace

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-schemeweave/pkg/document"
	"github.com/goliatone/go-schemeweave/pkg/ordering"
	"github.com/goliatone/go-schemeweave/pkg/schema"
	"github.com/goliatone/go-schemeweave/pkg/serialize"
)

// Command is a discrete state change applied through Workspace.Dispatch.
type Command interface {
	Name() string
	Apply(w *Workspace) error
}

// SelectSchema switches the active schema, clearing the template, the form
// data and the current document.
type SelectSchema struct {
	Schema string
}

func (SelectSchema) Name() string { return "select-schema" }

func (c SelectSchema) Apply(w *Workspace) error {
	key := strings.TrimSpace(c.Schema)
	if _, ok := w.catalog.Get(key); !ok {
		return fmt.Errorf("%w %q", ErrUnknownSchema, c.Schema)
	}
	w.selection = Selection{Schema: key}
	w.formData = document.FormData{}
	w.current = ""
	w.dirty = false
	return nil
}

// SelectTemplate switches the template of the active schema. An empty
// Template selects the bare schema. Form data is cleared; with SeedDefaults
// the template's default values are loaded, list defaults following any item
// order remembered for the new context.
type SelectTemplate struct {
	Template     string
	SeedDefaults bool
}

func (SelectTemplate) Name() string { return "select-template" }

func (c SelectTemplate) Apply(w *Workspace) error {
	id := strings.TrimSpace(c.Template)
	var tpl schema.Template
	if id != "" {
		var ok bool
		tpl, ok = w.catalog.Template(w.selection.Schema, id)
		if !ok {
			return fmt.Errorf("%w %q for schema %q", ErrUnknownTemplate, c.Template, w.selection.Schema)
		}
	}

	w.selection.Template = id
	w.formData = document.FormData{}
	w.current = ""
	w.dirty = false

	if c.SeedDefaults && id != "" {
		data := document.FromDefaults(tpl.Defaults)
		if state := w.contexts[w.selection.Key()]; state != nil {
			for field, order := range state.itemOrders {
				if value, ok := data[field]; ok && value.Kind() == document.KindList {
					data[field] = document.List(ordering.ApplyItemOrder(value.List(), order)...)
				}
			}
		}
		w.formData = data
	}
	return nil
}

// SetValue stores one form value.
type SetValue struct {
	Field string
	Value document.Value
}

func (SetValue) Name() string { return "set-value" }

func (c SetValue) Apply(w *Workspace) error {
	return SetValues{Values: document.FormData{c.Field: c.Value}}.Apply(w)
}

// SetValues merges several form values at once. Every key must name a field
// of the active context.
type SetValues struct {
	Values document.FormData
}

func (SetValues) Name() string { return "set-values" }

func (c SetValues) Apply(w *Workspace) error {
	fields := w.Fields()
	for id := range c.Values {
		if ordering.IndexOf(fields, id) < 0 {
			return fmt.Errorf("%w %q", ErrUnknownField, id)
		}
	}
	for id, value := range c.Values {
		w.formData[id] = value
	}
	if len(c.Values) > 0 {
		w.dirty = true
	}
	return nil
}

// AddCustomField appends a user defined field to the active context. Label
// and help text are stripped of markup; the label must not be empty. When
// Field.ID is empty an id of the form "custom-<uuid>" is generated and written
// back to Field.ID.
type AddCustomField struct {
	Field schema.Field
}

func (*AddCustomField) Name() string { return "add-custom-field" }

func (c *AddCustomField) Apply(w *Workspace) error {
	field := c.Field.Clone()
	field.Label = sanitizeText(field.Label)
	if field.Label == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidField)
	}
	field.Description = sanitizeText(field.Description)
	field.HelpText = sanitizeText(field.HelpText)
	if field.Type == "" {
		field.Type = schema.FieldTypeText
	}
	if !field.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidField, field.Type)
	}
	if field.Type != schema.FieldTypeObject && len(field.Nested) > 0 {
		return fmt.Errorf("%w: nested fields require type object", ErrInvalidField)
	}

	field.ID = strings.TrimSpace(field.ID)
	if field.ID == "" {
		field.ID = customIDPrefix + w.newID()
	}
	if err := checkCustomID(w.Definition(), field.ID); err != nil {
		return err
	}
	if w.fieldIndex(field.ID) >= 0 {
		return fmt.Errorf("%w %q", ErrDuplicateField, field.ID)
	}
	field.Custom = true
	field.Locked = false
	field.Order = nil

	state := w.context()
	state.custom = append(state.custom, field)
	c.Field = field
	return nil
}

// RemoveCustomField deletes a custom field together with its override entry,
// remembered item order and form value.
type RemoveCustomField struct {
	Field string
}

func (RemoveCustomField) Name() string { return "remove-custom-field" }

func (c RemoveCustomField) Apply(w *Workspace) error {
	state := w.contexts[w.selection.Key()]
	idx := -1
	if state != nil {
		idx = ordering.IndexOf(state.custom, c.Field)
	}
	if idx < 0 {
		return fmt.Errorf("%w %q", ErrUnknownField, c.Field)
	}

	state.custom = append(state.custom[:idx:idx], state.custom[idx+1:]...)
	state.overrides.Prune(c.Field)
	delete(state.itemOrders, c.Field)
	if _, ok := w.formData[c.Field]; ok {
		delete(w.formData, c.Field)
		w.dirty = true
	}
	return nil
}

// ReorderField moves a field to Index in the resolved order. Unknown and
// locked fields are ignored.
type ReorderField struct {
	Field string
	Index int
}

func (ReorderField) Name() string { return "reorder-field" }

func (c ReorderField) Apply(w *Workspace) error {
	overrides, ok := ordering.Reorder(w.Fields(), c.Field, c.Index)
	if !ok {
		w.logger.Debug("reorder ignored", "field", c.Field, "context", w.selection.Key())
		return nil
	}
	w.context().overrides = overrides
	return nil
}

// ResetOrder clears the override map and the custom fields of the active
// context. Form data is left untouched.
type ResetOrder struct{}

func (ResetOrder) Name() string { return "reset-order" }

func (ResetOrder) Apply(w *Workspace) error {
	state := w.context()
	state.overrides = nil
	state.custom = nil
	return nil
}

// ReorderItem moves one item of a list value and remembers the new item order
// for the context.
type ReorderItem struct {
	Field string
	From  int
	To    int
}

func (ReorderItem) Name() string { return "reorder-item" }

func (c ReorderItem) Apply(w *Workspace) error {
	value, ok := w.formData[c.Field]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, c.Field)
	}
	if value.Kind() != document.KindList {
		return fmt.Errorf("%w: %q", ErrNotList, c.Field)
	}
	items := ordering.MoveItem(value.List(), c.From, c.To)
	w.formData[c.Field] = document.List(items...)

	state := w.context()
	if state.itemOrders == nil {
		state.itemOrders = make(map[string][]string)
	}
	state.itemOrders[c.Field] = items
	w.dirty = true
	return nil
}

// SaveDocument stores the form data as a document. Saving again after a save
// or load replaces that document by id and keeps its creation time.
type SaveDocument struct{}

func (SaveDocument) Name() string { return "save-document" }

func (SaveDocument) Apply(w *Workspace) error {
	now := w.now().UTC()
	doc := DocumentInstance{
		Schema:   w.selection.Schema,
		Template: w.selection.Template,
		Data:     w.formData.Clone(),
		Metadata: Metadata{Created: now, Modified: now, Version: DocumentVersion},
	}

	if idx := w.documentIndex(w.current); idx >= 0 {
		prev := w.documents[idx]
		doc.ID = prev.ID
		doc.Metadata.Created = prev.Metadata.Created
		w.documents[idx] = doc
	} else {
		doc.ID = w.newID()
		w.documents = append(w.documents, doc)
	}
	w.current = doc.ID
	w.dirty = false
	return nil
}

// LoadDocument makes a saved document current, restoring its context and
// form data.
type LoadDocument struct {
	ID string
}

func (LoadDocument) Name() string { return "load-document" }

func (c LoadDocument) Apply(w *Workspace) error {
	idx := w.documentIndex(c.ID)
	if idx < 0 {
		return fmt.Errorf("%w %q", ErrUnknownDocument, c.ID)
	}
	doc := w.documents[idx]
	if _, ok := w.catalog.Get(doc.Schema); !ok {
		return fmt.Errorf("%w %q", ErrUnknownSchema, doc.Schema)
	}
	w.selection = Selection{Schema: doc.Schema, Template: doc.Template}
	w.formData = doc.Data.Clone()
	w.current = doc.ID
	w.dirty = false
	return nil
}

// DeleteDocument removes a saved document.
type DeleteDocument struct {
	ID string
}

func (DeleteDocument) Name() string { return "delete-document" }

func (c DeleteDocument) Apply(w *Workspace) error {
	idx := w.documentIndex(c.ID)
	if idx < 0 {
		return fmt.Errorf("%w %q", ErrUnknownDocument, c.ID)
	}
	w.documents = append(w.documents[:idx:idx], w.documents[idx+1:]...)
	if w.current == c.ID {
		w.current = ""
	}
	return nil
}

// ResetForm clears the form data and detaches the current document.
type ResetForm struct{}

func (ResetForm) Name() string { return "reset-form" }

func (ResetForm) Apply(w *Workspace) error {
	w.formData = document.FormData{}
	w.current = ""
	w.dirty = false
	return nil
}

// SetPreviewFormat selects the format used by Render when none is given.
type SetPreviewFormat struct {
	Format serialize.Format
}

func (SetPreviewFormat) Name() string { return "set-preview-format" }

func (c SetPreviewFormat) Apply(w *Workspace) error {
	if _, err := w.registry.Get(c.Format); err != nil {
		return err
	}
	w.previewFormat = c.Format
	return nil
}
