package workspace_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemeweave/pkg/document"
	"github.com/goliatone/go-schemeweave/pkg/ordering"
	"github.com/goliatone/go-schemeweave/pkg/schema"
	"github.com/goliatone/go-schemeweave/pkg/serialize"
	"github.com/goliatone/go-schemeweave/pkg/workspace"
)

func newWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()

	seq := 0
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ws, err := workspace.New(schema.MustDefault(),
		workspace.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		workspace.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		workspace.WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}),
	)
	if err != nil {
		t.Fatalf("new workspace: %v", err)
	}
	return ws
}

func mustDispatch(t *testing.T, ws *workspace.Workspace, cmds ...workspace.Command) {
	t.Helper()
	for _, cmd := range cmds {
		if err := ws.Dispatch(cmd); err != nil {
			t.Fatalf("dispatch %s: %v", cmd.Name(), err)
		}
	}
}

func TestNew_DefaultsToFirstSchema(t *testing.T) {
	ws := newWorkspace(t)
	if got := ws.Selection(); got != (workspace.Selection{Schema: "doap"}) {
		t.Fatalf("unexpected selection %+v", got)
	}
	if ws.PreviewFormat() != serialize.FormatJSON {
		t.Fatalf("unexpected preview format %q", ws.PreviewFormat())
	}
	if _, err := workspace.New(schema.NewCatalog()); err == nil {
		t.Fatalf("expected empty catalog error")
	}
	if _, err := workspace.New(schema.MustDefault(), workspace.WithDefaultSchema("nope")); !errors.Is(err, workspace.ErrUnknownSchema) {
		t.Fatalf("expected ErrUnknownSchema, got %v", err)
	}
}

func TestSelectSchemaAndTemplate_ClearFormData(t *testing.T) {
	ws := newWorkspace(t)
	mustDispatch(t, ws, workspace.SetValue{Field: "name", Value: document.Text("Foo")})
	if !ws.Dirty() {
		t.Fatalf("expected dirty after edit")
	}

	mustDispatch(t, ws, workspace.SelectTemplate{Template: "web-application"})
	if len(ws.FormData()) != 0 || ws.Dirty() {
		t.Fatalf("template switch should clear form data")
	}

	mustDispatch(t, ws, workspace.SetValue{Field: "name", Value: document.Text("Foo")}, workspace.SelectSchema{Schema: "foaf"})
	if got := ws.Selection(); got != (workspace.Selection{Schema: "foaf"}) {
		t.Fatalf("unexpected selection %+v", got)
	}
	if len(ws.FormData()) != 0 {
		t.Fatalf("schema switch should clear form data")
	}

	if err := ws.Dispatch(workspace.SelectSchema{Schema: "missing"}); !errors.Is(err, workspace.ErrUnknownSchema) {
		t.Fatalf("expected ErrUnknownSchema, got %v", err)
	}
	if err := ws.Dispatch(workspace.SelectTemplate{Template: "web-application"}); !errors.Is(err, workspace.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestSelectTemplate_SeedsDefaultsWithItemOrder(t *testing.T) {
	ws := newWorkspace(t)
	mustDispatch(t, ws,
		workspace.SelectTemplate{Template: "web-application", SeedDefaults: true},
		workspace.ReorderItem{Field: "keywords", From: 2, To: 0},
	)
	value, _ := ws.Value("keywords")
	want := []string{"client-side", "web", "application"}
	if diff := cmp.Diff(want, value.List()); diff != "" {
		t.Fatalf("reordered items mismatch (-want +got):\n%s", diff)
	}

	mustDispatch(t, ws, workspace.SelectTemplate{Template: "web-application", SeedDefaults: true})
	value, _ = ws.Value("keywords")
	if diff := cmp.Diff(want, value.List()); diff != "" {
		t.Fatalf("remembered item order not applied (-want +got):\n%s", diff)
	}

	doc := ws.Document()
	if doc.Type != "WebApplication" {
		t.Fatalf("expected type from template, got %q", doc.Type)
	}
}

func TestSetValue_RejectsUnknownField(t *testing.T) {
	ws := newWorkspace(t)
	if err := ws.Dispatch(workspace.SetValue{Field: "nope", Value: document.Text("x")}); !errors.Is(err, workspace.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := ws.Dispatch(workspace.ReorderItem{Field: "name"}); !errors.Is(err, workspace.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for missing value, got %v", err)
	}
	mustDispatch(t, ws, workspace.SetValue{Field: "name", Value: document.Text("Foo")})
	if err := ws.Dispatch(workspace.ReorderItem{Field: "name"}); !errors.Is(err, workspace.ErrNotList) {
		t.Fatalf("expected ErrNotList, got %v", err)
	}
}

func TestAddCustomField(t *testing.T) {
	ws := newWorkspace(t)
	add := &workspace.AddCustomField{Field: schema.Field{Label: "  <b>Funding</b> & grants ", HelpText: "<script>x</script>Source"}}
	mustDispatch(t, ws, add)

	if add.Field.ID != "custom-id-1" {
		t.Fatalf("unexpected generated id %q", add.Field.ID)
	}
	custom := ws.CustomFields()
	if len(custom) != 1 {
		t.Fatalf("expected one custom field, got %d", len(custom))
	}
	got := custom[0]
	if got.Label != "Funding & grants" || got.HelpText != "Source" || got.Type != schema.FieldTypeText || !got.Custom {
		t.Fatalf("unexpected custom field %+v", got)
	}

	fields := ws.Fields()
	if fields[len(fields)-1].ID != "custom-id-1" {
		t.Fatalf("custom field should resolve last, got %v", ordering.IDs(fields))
	}

	if err := ws.Dispatch(&workspace.AddCustomField{Field: schema.Field{ID: "name", Label: "Name"}}); !errors.Is(err, workspace.ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
	if err := ws.Dispatch(&workspace.AddCustomField{Field: schema.Field{Label: "<i></i>"}}); !errors.Is(err, workspace.ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField for empty label, got %v", err)
	}
	if err := ws.Dispatch(&workspace.AddCustomField{Field: schema.Field{Label: "X", Type: "date"}}); !errors.Is(err, workspace.ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField for bad type, got %v", err)
	}
}

func TestAddCustomField_RejectsReservedIDs(t *testing.T) {
	ws := newWorkspace(t)
	for _, id := range []string{"@type", "@context", "@id", "projectType"} {
		err := ws.Dispatch(&workspace.AddCustomField{Field: schema.Field{ID: id, Label: "Reserved"}})
		if !errors.Is(err, workspace.ErrInvalidField) {
			t.Fatalf("id %q: expected ErrInvalidField, got %v", id, err)
		}
	}
	if len(ws.CustomFields()) != 0 {
		t.Fatalf("expected no custom fields, got %v", ordering.IDs(ws.CustomFields()))
	}

	out, err := ws.Render(serialize.FormatJSON)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Count(out, `"@type"`) != 1 {
		t.Fatalf("expected a single @type key:\n%s", out)
	}
}

func TestRemoveCustomField_PrunesState(t *testing.T) {
	ws := newWorkspace(t)
	add := &workspace.AddCustomField{Field: schema.Field{Label: "Funding", Type: schema.FieldTypeArray}}
	mustDispatch(t, ws,
		add,
		workspace.ReorderField{Field: "custom-id-1", Index: 0},
		workspace.SetValue{Field: "custom-id-1", Value: document.List("a", "b")},
		workspace.ReorderItem{Field: "custom-id-1", From: 0, To: 1},
	)
	if _, ok := ws.Overrides()["custom-id-1"]; !ok {
		t.Fatalf("expected override for custom field")
	}

	mustDispatch(t, ws, workspace.RemoveCustomField{Field: "custom-id-1"})
	if _, ok := ws.Overrides()["custom-id-1"]; ok {
		t.Fatalf("override not pruned")
	}
	if _, ok := ws.Value("custom-id-1"); ok {
		t.Fatalf("form value not removed")
	}
	snap := ws.Snapshot()
	if items := snap.Contexts["doap"].ItemOrders["custom-id-1"]; items != nil {
		t.Fatalf("item order not removed: %v", items)
	}
	if err := ws.Dispatch(workspace.RemoveCustomField{Field: "name"}); !errors.Is(err, workspace.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for static field, got %v", err)
	}
}

func TestReorderAndReset_ArePerContext(t *testing.T) {
	ws := newWorkspace(t)
	declared := ordering.IDs(ws.Fields())

	mustDispatch(t, ws,
		workspace.ReorderField{Field: "keywords", Index: 0},
		&workspace.AddCustomField{Field: schema.Field{Label: "Extra"}},
		workspace.SetValue{Field: "name", Value: document.Text("Foo")},
	)
	if got := ws.Fields()[0].ID; got != "keywords" {
		t.Fatalf("expected keywords first, got %s", got)
	}

	mustDispatch(t, ws, workspace.SelectTemplate{Template: "software-project"})
	if diff := cmp.Diff(declared, ordering.IDs(ws.Fields())); diff != "" {
		t.Fatalf("template context should have its own order (-want +got):\n%s", diff)
	}
	mustDispatch(t, ws, workspace.SelectTemplate{}, workspace.SetValue{Field: "name", Value: document.Text("Foo")})
	if got := ws.Fields()[0].ID; got != "keywords" {
		t.Fatalf("bare schema context lost its order, got %s", got)
	}

	mustDispatch(t, ws, workspace.ResetOrder{})
	if diff := cmp.Diff(declared, ordering.IDs(ws.Fields())); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
	if len(ws.CustomFields()) != 0 {
		t.Fatalf("reset should drop custom fields")
	}
	if value, _ := ws.Value("name"); value.Text() != "Foo" {
		t.Fatalf("reset must not touch form data")
	}
}

func TestResetOrder_LeavesRemovedCustomValuesOutOfDocument(t *testing.T) {
	ws := newWorkspace(t)
	mustDispatch(t, ws,
		&workspace.AddCustomField{Field: schema.Field{Label: "Funding"}},
		workspace.SetValue{Field: "custom-id-1", Value: document.Text("grant")},
		workspace.SetValue{Field: "name", Value: document.Text("Foo")},
	)
	out, err := ws.Render(serialize.FormatJSON)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `"custom-id-1": "grant"`) {
		t.Fatalf("expected custom value in document:\n%s", out)
	}

	mustDispatch(t, ws, workspace.ResetOrder{})
	if value, ok := ws.Value("custom-id-1"); !ok || value.Text() != "grant" {
		t.Fatalf("reset must keep the form value, got %v %v", value, ok)
	}
	out, err = ws.Render(serialize.FormatJSON)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "custom-id-1") || !strings.Contains(out, `"name": "Foo"`) {
		t.Fatalf("unexpected document after reset:\n%s", out)
	}
}

func TestReorderField_IgnoresLockedAndUnknown(t *testing.T) {
	ws := newWorkspace(t)
	mustDispatch(t, ws,
		workspace.SelectSchema{Schema: "foaf"},
		workspace.ReorderField{Field: "name", Index: 3},
		workspace.ReorderField{Field: "missing", Index: 0},
	)
	if len(ws.Overrides()) != 0 {
		t.Fatalf("expected no overrides, got %v", ws.Overrides())
	}
	if ws.Fields()[0].ID != "name" {
		t.Fatalf("locked field moved")
	}
}

func TestSaveLoadDelete_ReplaceByID(t *testing.T) {
	ws := newWorkspace(t)
	mustDispatch(t, ws,
		workspace.SetValue{Field: "name", Value: document.Text("First")},
		workspace.SaveDocument{},
	)
	first, ok := ws.CurrentDocument()
	if !ok || first.ID != "id-1" || first.Metadata.Version != workspace.DocumentVersion {
		t.Fatalf("unexpected saved document %+v", first)
	}

	mustDispatch(t, ws,
		workspace.SetValue{Field: "name", Value: document.Text("Second")},
		workspace.SaveDocument{},
	)
	docs := ws.Documents()
	if len(docs) != 1 {
		t.Fatalf("expected replace by id, got %d documents", len(docs))
	}
	if docs[0].Data["name"].Text() != "Second" || !docs[0].Metadata.Created.Equal(first.Metadata.Created) {
		t.Fatalf("unexpected replaced document %+v", docs[0])
	}
	if !docs[0].Metadata.Modified.After(first.Metadata.Modified) {
		t.Fatalf("modified time not advanced")
	}

	mustDispatch(t, ws, workspace.ResetForm{}, workspace.SelectSchema{Schema: "foaf"},
		workspace.SetValue{Field: "name", Value: document.Text("Ada")},
		workspace.SaveDocument{},
	)
	if len(ws.Documents()) != 2 {
		t.Fatalf("expected two documents")
	}

	mustDispatch(t, ws, workspace.LoadDocument{ID: "id-1"})
	if ws.Selection().Schema != "doap" || ws.Dirty() {
		t.Fatalf("load did not restore context: %+v", ws.Selection())
	}
	if value, _ := ws.Value("name"); value.Text() != "Second" {
		t.Fatalf("load did not restore data")
	}

	mustDispatch(t, ws, workspace.DeleteDocument{ID: "id-1"})
	if _, ok := ws.CurrentDocument(); ok {
		t.Fatalf("deleted document still current")
	}
	if err := ws.Dispatch(workspace.LoadDocument{ID: "id-1"}); !errors.Is(err, workspace.ErrUnknownDocument) {
		t.Fatalf("expected ErrUnknownDocument, got %v", err)
	}
}

func TestRender_UsesPreviewFormat(t *testing.T) {
	ws := newWorkspace(t)
	mustDispatch(t, ws,
		workspace.SetValue{Field: "name", Value: document.Text("Foo")},
		workspace.SetPreviewFormat{Format: serialize.FormatTurtle},
	)
	out, err := ws.Render("")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasSuffix(out, "  name \"Foo\" .\n") {
		t.Fatalf("unexpected turtle:\n%s", out)
	}
	if err := ws.Dispatch(workspace.SetPreviewFormat{Format: "yaml"}); !errors.Is(err, serialize.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if errs := ws.Validate(); len(errs["description"]) == 0 {
		t.Fatalf("expected description validation error, got %v", errs)
	}
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	ws := newWorkspace(t)
	mustDispatch(t, ws,
		workspace.SelectTemplate{Template: "web-application", SeedDefaults: true},
		&workspace.AddCustomField{Field: schema.Field{Label: "Funding"}},
		workspace.ReorderField{Field: "custom-id-1", Index: 1},
		workspace.SaveDocument{},
		workspace.SetPreviewFormat{Format: serialize.FormatXML},
	)
	snap := ws.Snapshot()

	restored := newWorkspace(t)
	if err := restored.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if diff := cmp.Diff(snap, restored.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ordering.IDs(ws.Fields()), ordering.IDs(restored.Fields())); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	snap.Selection.Schema = "gone"
	if err := restored.Restore(snap); !errors.Is(err, workspace.ErrUnknownSchema) {
		t.Fatalf("expected ErrUnknownSchema, got %v", err)
	}
}

func TestSnapshotRestore_RejectsCollidingCustomFields(t *testing.T) {
	cases := map[string]struct {
		custom []schema.Field
		want   error
	}{
		"static id":   {custom: []schema.Field{{ID: "name", Label: "Name", Custom: true}}, want: workspace.ErrDuplicateField},
		"repeated id": {custom: []schema.Field{{ID: "custom-a", Label: "A"}, {ID: "custom-a", Label: "B"}}, want: workspace.ErrDuplicateField},
		"keyword id":  {custom: []schema.Field{{ID: "@type", Label: "Type"}}, want: workspace.ErrInvalidField},
		"type field":  {custom: []schema.Field{{ID: "projectType", Label: "Kind"}}, want: workspace.ErrInvalidField},
		"empty id":    {custom: []schema.Field{{ID: " ", Label: "Blank"}}, want: workspace.ErrInvalidField},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ws := newWorkspace(t)
			before := ordering.IDs(ws.Fields())
			snap := workspace.Snapshot{
				Selection: workspace.Selection{Schema: "doap"},
				Contexts:  map[string]workspace.ContextSnapshot{"doap": {CustomFields: tc.custom}},
			}
			if err := ws.Restore(snap); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if diff := cmp.Diff(before, ordering.IDs(ws.Fields())); diff != "" {
				t.Fatalf("failed restore changed fields (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatch_NilCommand(t *testing.T) {
	ws := newWorkspace(t)
	if err := ws.Dispatch(nil); !errors.Is(err, workspace.ErrNilCommand) {
		t.Fatalf("expected ErrNilCommand, got %v", err)
	}
}
