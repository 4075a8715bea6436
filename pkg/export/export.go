// Package export names and writes serialized documents to disk.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-schemeweave/pkg/serialize"
)

// ErrEmptyName reports a base name that is blank after cleaning.
var ErrEmptyName = errors.New("export: file name is required")

// DefaultBaseName returns "<schema>-document-<YYYY-MM-DD>".
func DefaultBaseName(schemaKey string, at time.Time) string {
	return fmt.Sprintf("%s-document-%s", schemaKey, at.Format("2006-01-02"))
}

// FileName joins base with the extension of format. A base already ending in
// that extension is left alone.
func FileName(base string, format serialize.Format) (string, error) {
	info, ok := serialize.Info(format)
	if !ok {
		return "", fmt.Errorf("%w %q", serialize.ErrUnknownFormat, format)
	}
	base = strings.TrimSpace(filepath.Base(strings.TrimSpace(base)))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", ErrEmptyName
	}
	ext := "." + info.Extension
	if strings.HasSuffix(base, ext) {
		return base, nil
	}
	return base + ext, nil
}

// Write stores content as dir/<base>.<ext> and returns the written path.
func Write(dir, base string, format serialize.Format, content string) (string, error) {
	name, err := FileName(base, format)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}
