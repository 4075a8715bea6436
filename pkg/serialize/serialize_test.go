package serialize_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemeweave/pkg/document"
	"github.com/goliatone/go-schemeweave/pkg/ordering"
	"github.com/goliatone/go-schemeweave/pkg/serialize"
	"github.com/goliatone/go-schemeweave/pkg/testsupport"
)

func buildDocument(t *testing.T, key string, data document.FormData) document.Document {
	t.Helper()
	def := testsupport.Definition(t, key)
	return document.Build(def, ordering.Resolve(def.Fields, nil, nil), data)
}

func TestSerialize_Goldens(t *testing.T) {
	data := testsupport.MustLoadFormData(t, filepath.Join("testdata", "doap_full.json"))
	doc := buildDocument(t, "doap", data)

	for _, format := range []serialize.Format{serialize.FormatJSON, serialize.FormatXML, serialize.FormatTurtle} {
		t.Run(string(format), func(t *testing.T) {
			got, err := serialize.Serialize(doc, format)
			if err != nil {
				t.Fatalf("serialize: %v", err)
			}
			testsupport.AssertGolden(t, filepath.Join("testdata", "doap_full."+string(format)+".golden"), got)
		})
	}
}

func TestSerialize_EndToEndDOAP(t *testing.T) {
	doc := buildDocument(t, "doap", document.FormData{
		"projectType": document.Text("SoftwareApplication"),
		"name":        document.Text("Foo"),
		"keywords":    document.List("a", "b"),
	})

	got, err := serialize.Serialize(doc, serialize.FormatJSON)
	if err != nil {
		t.Fatalf("serialize json: %v", err)
	}
	want := strings.Join([]string{
		`{`,
		`  "@context": ["https://schema.org/", "http://usefulinc.com/ns/doap#"],`,
		`  "@type": "SoftwareApplication",`,
		`  "name": "Foo",`,
		`  "keywords": ["a", "b"]`,
		`}`,
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}

	turtle, err := serialize.Serialize(doc, serialize.FormatTurtle)
	if err != nil {
		t.Fatalf("serialize turtle: %v", err)
	}
	block := turtle[strings.Index(turtle, "<http://example.org/document>"):]
	wantBlock := strings.Join([]string{
		`<http://example.org/document> a SoftwareApplication ;`,
		`  name "Foo" ;`,
		`  keywords "a" ;`,
		`  keywords "b" .`,
		``,
	}, "\n")
	if diff := cmp.Diff(wantBlock, block); diff != "" {
		t.Fatalf("turtle mismatch (-want +got):\n%s", diff)
	}
}

func TestSerialize_JSONLDMatchesJSON(t *testing.T) {
	docs := []document.Document{
		buildDocument(t, "doap", testsupport.MustLoadFormData(t, filepath.Join("testdata", "doap_full.json"))),
		buildDocument(t, "foaf", document.FormData{"name": document.Text("Ada")}),
		{},
	}
	for _, doc := range docs {
		jsonOut, err := serialize.Serialize(doc, serialize.FormatJSON)
		if err != nil {
			t.Fatalf("json: %v", err)
		}
		ldOut, err := serialize.Serialize(doc, serialize.FormatJSONLD)
		if err != nil {
			t.Fatalf("json-ld: %v", err)
		}
		if jsonOut != ldOut {
			t.Fatalf("json and json-ld differ:\n%s\n---\n%s", jsonOut, ldOut)
		}
	}
}

func TestSerialize_FOAFContextIsString(t *testing.T) {
	doc := buildDocument(t, "foaf", document.FormData{"name": document.Text("Ada")})
	got, _ := serialize.Serialize(doc, serialize.FormatJSON)
	want := "{\n  \"@context\": \"http://xmlns.com/foaf/0.1/\",\n  \"@type\": \"Person\",\n  \"name\": \"Ada\"\n}"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("foaf json mismatch (-want +got):\n%s", diff)
	}
}

func TestSerialize_FiltersEmptyValues(t *testing.T) {
	doc := buildDocument(t, "doap", document.FormData{
		"name":        document.Text("X"),
		"description": document.Text(""),
		"tags":        document.List(),
	})
	for _, info := range serialize.Formats() {
		got, err := serialize.Serialize(doc, info.Format)
		if err != nil {
			t.Fatalf("%s: %v", info.Format, err)
		}
		if strings.Contains(got, "description") || strings.Contains(got, "tags") {
			t.Fatalf("%s output kept empty values:\n%s", info.Format, got)
		}
		if strings.Contains(got, "projectType") {
			t.Fatalf("%s output leaked projectType:\n%s", info.Format, got)
		}
	}
}

func TestTurtle_ZeroPredicates(t *testing.T) {
	got, err := serialize.NewTurtle().Serialize(document.Document{Type: "Person"})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !strings.HasSuffix(got, "\n\n<http://example.org/document> a Person .\n") {
		t.Fatalf("unexpected zero predicate block:\n%s", got)
	}
}

func TestXML_NoEscaping(t *testing.T) {
	doc := document.Document{Entries: []document.Entry{{Key: "note", Value: document.Text(`a < b & "c"`)}}}
	got, _ := serialize.NewXML().Serialize(doc)
	if !strings.Contains(got, `<note>a < b & "c"</note>`) {
		t.Fatalf("expected verbatim value, got:\n%s", got)
	}
}

func TestSerialize_EmptyEnvelopes(t *testing.T) {
	empty := document.Document{}
	cases := map[serialize.Format]string{
		serialize.FormatJSON: "{}",
		serialize.FormatXML:  "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<document>\n</document>",
	}
	for format, want := range cases {
		got, err := serialize.Serialize(empty, format)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if got != want {
			t.Fatalf("%s envelope mismatch: %q", format, got)
		}
	}
}

func TestJSON_EscapesStrings(t *testing.T) {
	doc := document.Document{Entries: []document.Entry{{Key: "quote", Value: document.Text("say \"hi\"\n<b>")}}}
	got, _ := serialize.NewJSON().Serialize(doc)
	if !strings.Contains(got, `"quote": "say \"hi\"\n<b>"`) {
		t.Fatalf("unexpected escaping:\n%s", got)
	}
}
