package export_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-schemeweave/pkg/export"
	"github.com/goliatone/go-schemeweave/pkg/serialize"
	"github.com/goliatone/go-schemeweave/pkg/testsupport"
)

func TestDefaultBaseName(t *testing.T) {
	got := export.DefaultBaseName("doap", time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC))
	if got != "doap-document-2024-03-09" {
		t.Fatalf("unexpected base name %q", got)
	}
}

func TestFileName(t *testing.T) {
	cases := []struct {
		base   string
		format serialize.Format
		want   string
	}{
		{base: "doc", format: serialize.FormatJSON, want: "doc.json"},
		{base: "doc", format: serialize.FormatJSONLD, want: "doc.json"},
		{base: "doc", format: serialize.FormatXML, want: "doc.xml"},
		{base: "doc", format: serialize.FormatTurtle, want: "doc.turtle"},
		{base: "doc.xml", format: serialize.FormatXML, want: "doc.xml"},
		{base: "../escape/doc", format: serialize.FormatJSON, want: "doc.json"},
	}
	for _, tc := range cases {
		got, err := export.FileName(tc.base, tc.format)
		if err != nil {
			t.Fatalf("%s/%s: %v", tc.base, tc.format, err)
		}
		if got != tc.want {
			t.Fatalf("%s/%s: got %q want %q", tc.base, tc.format, got, tc.want)
		}
	}

	if _, err := export.FileName("  ", serialize.FormatJSON); !errors.Is(err, export.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := export.FileName("doc", "csv"); !errors.Is(err, serialize.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := export.Write(dir, "doap-document-2024-03-09", serialize.FormatTurtle, "content\n")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(dir, "doap-document-2024-03-09.turtle") {
		t.Fatalf("unexpected path %q", path)
	}
	if got := testsupport.MustReadGoldenString(t, path); got != "content\n" {
		t.Fatalf("unexpected content %q", got)
	}
}
