package schema

import (
	"sort"
	"strings"
)

// FieldType enumerates the input kinds a field can hold.
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeEmail   FieldType = "email"
	FieldTypeURL     FieldType = "url"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeURL, FieldTypeNumber,
		FieldTypeBoolean, FieldTypeArray, FieldTypeObject:
		return true
	default:
		return false
	}
}

const (
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
	RuleEmail     = "email"
	RuleURL       = "url"
)

// Rule is a single validation constraint attached to a field. Value carries
// the threshold for length rules and the expression for pattern rules.
type Rule struct {
	Kind    string `json:"kind" yaml:"kind"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Field describes one input slot of a document. Struct tags keep the shape
// stable for persisted custom field definitions.
type Field struct {
	ID          string    `json:"id" yaml:"id"`
	Label       string    `json:"label" yaml:"label"`
	Type        FieldType `json:"type" yaml:"type"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	HelpText    string    `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Nested      []Field   `json:"nestedFields,omitempty" yaml:"nestedFields,omitempty"`
	Order       *int      `json:"order,omitempty" yaml:"order,omitempty"`
	Locked      bool      `json:"locked,omitempty" yaml:"locked,omitempty"`
	Custom      bool      `json:"isCustom,omitempty" yaml:"isCustom,omitempty"`
	Options     []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  []Rule    `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// DisplayLabel returns the label, falling back to the id.
func (f Field) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.ID
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	if f.Order != nil {
		order := *f.Order
		out.Order = &order
	}
	if len(f.Nested) > 0 {
		out.Nested = CloneFields(f.Nested)
	}
	if len(f.Options) > 0 {
		out.Options = append([]string(nil), f.Options...)
	}
	if len(f.Validation) > 0 {
		out.Validation = append([]Rule(nil), f.Validation...)
	}
	return out
}

// CloneFields deep-copies a field list.
func CloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, field := range fields {
		out[i] = field.Clone()
	}
	return out
}

// Template is a named preset of default values within a definition.
type Template struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Defaults    map[string]any `json:"defaultValues,omitempty" yaml:"defaultValues,omitempty"`
}

// Definition is a named, versioned set of fields and templates describing one
// document type.
type Definition struct {
	Key       string     `json:"key" yaml:"key"`
	Name      string     `json:"name" yaml:"name"`
	Namespace string     `json:"namespace" yaml:"namespace"`
	Version   string     `json:"version" yaml:"version"`
	Context   []string   `json:"context" yaml:"context"`
	Type      string     `json:"type" yaml:"type"`
	TypeField string     `json:"typeField,omitempty" yaml:"typeField,omitempty"`
	Fields    []Field    `json:"fields" yaml:"fields"`
	Templates []Template `json:"templates,omitempty" yaml:"templates,omitempty"`
}

// Field looks up a top-level field by id.
func (d Definition) Field(id string) (Field, bool) {
	for _, field := range d.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// Template looks up a template by id.
func (d Definition) Template(id string) (Template, bool) {
	for _, tpl := range d.Templates {
		if tpl.ID == id {
			return tpl, true
		}
	}
	return Template{}, false
}

// Catalog holds the loaded definitions keyed by their catalog key. It is safe
// for concurrent readers when treated as immutable after construction.
type Catalog struct {
	definitions map[string]Definition
}

// NewCatalog builds a catalog from already validated definitions. Later
// definitions replace earlier ones sharing the same key.
func NewCatalog(defs ...Definition) *Catalog {
	c := &Catalog{definitions: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		c.definitions[def.Key] = def
	}
	return c
}

// Get returns the definition registered under key.
func (c *Catalog) Get(key string) (Definition, bool) {
	if c == nil {
		return Definition{}, false
	}
	def, ok := c.definitions[strings.TrimSpace(key)]
	return def, ok
}

// Keys returns the sorted catalog keys.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.definitions))
	for key := range c.definitions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Template resolves a template inside the definition registered under key.
func (c *Catalog) Template(key, templateID string) (Template, bool) {
	def, ok := c.Get(key)
	if !ok {
		return Template{}, false
	}
	return def.Template(templateID)
}

// Empty reports whether the catalog holds any definitions.
func (c *Catalog) Empty() bool {
	return c == nil || len(c.definitions) == 0
}

// Definitions returns every definition ordered by key.
func (c *Catalog) Definitions() []Definition {
	keys := c.Keys()
	out := make([]Definition, 0, len(keys))
	for _, key := range keys {
		out = append(out, c.definitions[key])
	}
	return out
}

// Merge returns a new catalog holding c's definitions replaced or extended by
// other's.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	return NewCatalog(append(c.Definitions(), other.Definitions()...)...)
}
