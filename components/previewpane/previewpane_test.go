package previewpane

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-schemeweave/pkg/document"
	"github.com/goliatone/go-schemeweave/pkg/schema"
	"github.com/goliatone/go-schemeweave/pkg/workspace"
)

func newProvider(t *testing.T) *Provider {
	t.Helper()
	ws, err := workspace.New(schema.MustDefault(),
		workspace.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatalf("new workspace: %v", err)
	}
	provider := NewProvider(ws)
	for _, cmd := range []workspace.Command{
		workspace.SelectSchema{Schema: "doap"},
		workspace.SelectTemplate{Template: "web-application", SeedDefaults: true},
		workspace.SetValue{Field: "name", Value: document.Text("Schemeweave")},
	} {
		if err := provider.Dispatch(cmd); err != nil {
			t.Fatalf("dispatch %s: %v", cmd.Name(), err)
		}
	}
	return provider
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_DefaultFormatIsJSON(t *testing.T) {
	h := Handler(WithProvider(newProvider(t)))

	rec := serve(h, http.MethodGet, "/preview")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content-type %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"@type": "WebApplication"`) || !strings.Contains(body, `"name": "Schemeweave"`) {
		t.Fatalf("unexpected body:\n%s", body)
	}
}

func TestHandler_FormatParam(t *testing.T) {
	h := Handler(WithProvider(newProvider(t)))

	cases := []struct {
		query       string
		contentType string
		contains    string
	}{
		{"?format=turtle", "text/turtle; charset=utf-8", "<http://example.org/document> a WebApplication ;"},
		{"?format=ttl", "text/turtle; charset=utf-8", `  name "Schemeweave"`},
		{"?format=xml", "application/xml; charset=utf-8", "<name>Schemeweave</name>"},
		{"?format=json-ld", "application/ld+json; charset=utf-8", `"name": "Schemeweave"`},
	}
	for _, tc := range cases {
		rec := serve(h, http.MethodGet, "/preview"+tc.query)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", tc.query, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != tc.contentType {
			t.Fatalf("%s: unexpected content-type %q", tc.query, ct)
		}
		if !strings.Contains(rec.Body.String(), tc.contains) {
			t.Fatalf("%s: expected body to contain %q\n%s", tc.query, tc.contains, rec.Body.String())
		}
	}
}

func TestHandler_UnknownFormat(t *testing.T) {
	h := Handler(WithProvider(newProvider(t)))
	if rec := serve(h, http.MethodGet, "/preview?format=csv"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandler_HTMLView(t *testing.T) {
	h := Handler(WithProvider(newProvider(t)))

	rec := serve(h, http.MethodGet, "/preview?view=html&format=xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content-type %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>DOAP preview</title>",
		`data-format="xml" class="active">XML</a>`,
		"&lt;name&gt;Schemeweave&lt;/name&gt;",
		`<li data-field="description">description: Description is required</li>`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected page to contain %q\n%s", want, body)
		}
	}
}

func TestHandler_MethodAndGuard(t *testing.T) {
	provider := newProvider(t)

	rec := serve(Handler(WithProvider(provider)), http.MethodPost, "/preview")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("unexpected Allow header %q", allow)
	}

	guarded := Handler(WithProvider(provider), WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("nope")}
	}))
	if rec := serve(guarded, http.MethodGet, "/preview"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	head := serve(Handler(WithProvider(provider)), http.MethodHead, "/preview")
	if head.Code != http.StatusOK || head.Body.Len() != 0 {
		t.Fatalf("expected empty 200 for HEAD, got %d with %d bytes", head.Code, head.Body.Len())
	}
}

func TestHandler_NoWorkspace(t *testing.T) {
	rec := serve(Handler(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))), http.MethodGet, "/preview")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestRegisterRoutes_ServesUpdates(t *testing.T) {
	if got := MountPath("/admin/"); got != "/admin/preview" {
		t.Fatalf("unexpected mount path: %q", got)
	}

	provider := newProvider(t)
	mux := http.NewServeMux()
	pattern, err := New(WithProvider(provider)).RegisterRoutes(mux, "/admin")
	if err != nil {
		t.Fatalf("register routes: %v", err)
	}
	if pattern != "/admin/preview" {
		t.Fatalf("unexpected pattern %q", pattern)
	}

	if err := provider.Dispatch(workspace.SetValue{Field: "name", Value: document.Text("Renamed")}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	rec := serve(mux, http.MethodGet, pattern+"?format=turtle")
	if !strings.Contains(rec.Body.String(), `name "Renamed"`) {
		t.Fatalf("expected updated value in body:\n%s", rec.Body.String())
	}

	if _, err := RegisterRoutes(nil, "/"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}
