package preview

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

const (
	// DefaultThemeName names the bundled manifest.
	DefaultThemeName = "schemeweave"
	// PagePartial is the manifest template key that replaces the page template.
	PagePartial = "preview.page"
	// StylesheetAsset is the manifest asset key linked from the page head.
	StylesheetAsset = "preview.stylesheet"
)

var (
	ErrUnknownTheme   = errors.New("preview: unknown theme")
	ErrUnknownVariant = errors.New("preview: unknown theme variant")
)

func defaultPartials() map[string]string {
	return map[string]string{
		PagePartial: "page.html",
	}
}

// DefaultManifest returns the bundled light theme with a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"background": "#ffffff",
			"foreground": "#1f2933",
			"accent":     "#2f6fed",
			"muted":      "#6b7280",
			"code-bg":    "#f5f7fa",
			"error":      "#b42318",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"background": "#111827",
					"foreground": "#e5e7eb",
					"muted":      "#9ca3af",
					"code-bg":    "#1f2937",
				},
			},
		},
	}
}

// ManifestSelector resolves themes from a fixed set of manifests.
type ManifestSelector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

// NewManifestSelector validates and stores the manifests. The first manifest
// becomes the default theme.
func NewManifestSelector(manifests ...*theme.Manifest) (*ManifestSelector, error) {
	registry := theme.NewRegistry()
	selector := &ManifestSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("preview: register theme %q: %w", manifest.Name, err)
		}
		if selector.defaultTheme == "" {
			selector.defaultTheme = manifest.Name
		}
		selector.manifests[manifest.Name] = manifest
	}
	if len(selector.manifests) == 0 {
		return nil, errors.New("preview: no theme manifests")
	}
	return selector, nil
}

// DefaultSelector serves the bundled manifest.
func DefaultSelector() *ManifestSelector {
	selector, err := NewManifestSelector(DefaultManifest())
	if err != nil {
		panic(err)
	}
	return selector
}

// SetDefaults changes the theme and variant used when Select receives blanks.
func (s *ManifestSelector) SetDefaults(name, variant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name = strings.TrimSpace(name); name != "" {
		s.defaultTheme = name
	}
	s.defaultVariant = strings.TrimSpace(variant)
}

// Themes lists the registered theme names.
func (s *ManifestSelector) Themes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}

	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTheme, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrUnknownVariant, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection: variant tokens, templates and asset
// files override the base manifest, and partials fall back to the bundled
// templates.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Partials: defaultPartials(),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	if selection == nil || selection.Manifest == nil {
		cfg.AssetURL = func(string) string { return "" }
		return cfg
	}
	cfg.Theme = selection.Theme
	cfg.Variant = selection.Variant

	manifest := selection.Manifest
	prefix := manifest.Assets.Prefix
	files := map[string]string{}

	mergeInto(cfg.Tokens, manifest.Tokens)
	mergeInto(cfg.Partials, manifest.Templates)
	mergeInto(files, manifest.Assets.Files)

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		mergeInto(cfg.Tokens, variant.Tokens)
		mergeInto(cfg.Partials, variant.Templates)
		mergeInto(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}

	prefix = strings.TrimRight(prefix, "/")
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}
	return cfg
}

func mergeInto(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
