package validation

import (
	"sort"

	"github.com/goliatone/go-schemeweave/pkg/document"
	"github.com/goliatone/go-schemeweave/pkg/schema"
)

// Errors maps field paths to their validation messages.
type Errors map[string][]string

// Empty reports whether no field failed.
func (e Errors) Empty() bool { return len(e) == 0 }

// Paths lists the failing field paths sorted.
func (e Errors) Paths() []string {
	paths := make([]string, 0, len(e))
	for path := range e {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Validate checks every field against data. Nested fields are only checked
// when their parent is required or carries at least one value.
func Validate(fields []schema.Field, data document.FormData) Errors {
	out := Errors{}
	for _, field := range fields {
		value := data[field.ID]
		if field.Type == schema.FieldTypeObject && len(field.Nested) > 0 {
			validateObject(out, field, value)
			continue
		}
		if problems := Field(field, value); len(problems) > 0 {
			out[field.ID] = problems
		}
	}
	return out
}

// Field validates a single non-object value.
func Field(field schema.Field, value document.Value) []string {
	r := collectRules(field)
	if value.Kind() == document.KindList || field.Type == schema.FieldTypeArray {
		return r.checkList(value.List())
	}
	return r.checkText(value.Text())
}

// Text validates raw text entered for field, as interactive prompts do before
// storing it.
func Text(field schema.Field, text string) []string {
	return collectRules(field).checkText(text)
}

func validateObject(out Errors, field schema.Field, value document.Value) {
	if value.IsZero() && !field.Required {
		return
	}
	for _, nested := range field.Nested {
		text, _ := value.Get(nested.ID)
		if problems := Text(nested, text); len(problems) > 0 {
			out[field.ID+"."+nested.ID] = problems
		}
	}
}
