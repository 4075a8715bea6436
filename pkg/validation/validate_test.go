package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemeweave/pkg/document"
	"github.com/goliatone/go-schemeweave/pkg/schema"
	"github.com/goliatone/go-schemeweave/pkg/testsupport"
	"github.com/goliatone/go-schemeweave/pkg/validation"
)

func TestValidate_DOAPRules(t *testing.T) {
	def := testsupport.Definition(t, "doap")

	errs := validation.Validate(def.Fields, document.FormData{
		"name":        document.Text("Foo"),
		"description": document.Text("short"),
		"version":     document.Text("v1"),
		"author":      document.Object(document.Pair{Key: "email", Value: "nope"}),
		"homepage":    document.Text("not a url"),
		"license":     document.Text("https://opensource.org/licenses/MIT"),
		"repository":  document.Object(document.Pair{Key: "programmingLanguage", Value: "Go"}),
	})

	want := validation.Errors{
		"description":    {"Description must be at least 10 characters"},
		"version":        {"Version must follow semantic versioning format"},
		"author.name":    {"Author name is required"},
		"author.email":   {"Please enter a valid email address"},
		"homepage":       {"Please enter a valid homepage URL"},
		"repository.url": {"required"},
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_RequiredAndOptionalObjects(t *testing.T) {
	def := testsupport.Definition(t, "doap")

	errs := validation.Validate(def.Fields, document.FormData{})
	for _, path := range []string{"name", "description", "version", "author.name"} {
		if _, ok := errs[path]; !ok {
			t.Fatalf("expected error for %s, got %v", path, errs.Paths())
		}
	}
	if _, ok := errs["repository.url"]; ok {
		t.Fatalf("optional empty object should not be validated: %v", errs.Paths())
	}
}

func TestValidate_ValidDocument(t *testing.T) {
	def := testsupport.Definition(t, "doap")
	errs := validation.Validate(def.Fields, document.FormData{
		"name":        document.Text("Schemeweave"),
		"description": document.Text("Composes linked data documents"),
		"version":     document.Text("1.2.3"),
		"author":      document.Object(document.Pair{Key: "name", Value: "Ada"}, document.Pair{Key: "email", Value: "ada@example.org"}),
		"keywords":    document.List("rdf"),
	})
	if !errs.Empty() {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestField_ListAndDefaults(t *testing.T) {
	max := "2"
	field := schema.Field{
		ID:         "tags",
		Type:       schema.FieldTypeArray,
		Required:   true,
		Validation: []schema.Rule{{Kind: schema.RuleMaxLength, Value: max}},
	}
	if got := validation.Field(field, document.List()); !cmp.Equal([]string{"required"}, got) {
		t.Fatalf("unexpected required result %v", got)
	}
	if got := validation.Field(field, document.List("a", "b", "c")); !cmp.Equal([]string{"max items 2"}, got) {
		t.Fatalf("unexpected max result %v", got)
	}

	number := schema.Field{ID: "count", Type: schema.FieldTypeNumber}
	if got := validation.Text(number, "12.5"); len(got) != 0 {
		t.Fatalf("expected valid number, got %v", got)
	}
	if got := validation.Text(number, "twelve"); !cmp.Equal([]string{"expected number"}, got) {
		t.Fatalf("unexpected number result %v", got)
	}
}
