package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemeweave/pkg/document"
	"github.com/goliatone/go-schemeweave/pkg/schema"
)

// Definition returns a definition from the embedded catalog, failing the test
// when it is missing.
func Definition(t *testing.T, key string) schema.Definition {
	t.Helper()

	def, ok := schema.MustDefault().Get(key)
	if !ok {
		t.Fatalf("definition %q not found in embedded catalog", key)
	}
	return def
}

// MustLoadFormData reads a JSON fixture into form data.
func MustLoadFormData(t *testing.T, path string) document.FormData {
	t.Helper()

	data, err := LoadFormData(path)
	if err != nil {
		t.Fatalf("load form data: %v", err)
	}
	return data
}

// LoadFormData reads a JSON object fixture into form data, returning an error
// for callers managing setup outside of *testing.T.
func LoadFormData(path string) (document.FormData, error) {
	if path == "" {
		return nil, errors.New("testsupport: form data path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read form data: %w", err)
	}
	var out document.FormData
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal form data: %w", err)
	}
	return out, nil
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertGolden compares got against the golden file at path, rewriting the
// golden instead when UPDATE_GOLDENS is set.
func AssertGolden(t *testing.T, path, got string) {
	t.Helper()
	if WriteMaybeGolden(t, path, []byte(got)) {
		return
	}
	want := MustReadGoldenString(t, path)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", filepath.Base(path), diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out, buf.String()
}
