package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/goliatone/go-schemeweave/pkg/schema"
	"github.com/goliatone/go-schemeweave/pkg/serialize"
	"github.com/goliatone/go-schemeweave/pkg/validation"
	theme "github.com/goliatone/go-theme"
)

// Page carries everything the preview page shows.
type Page struct {
	Title    string
	Schema   string
	Template string
	Format   serialize.Format
	Formats  []serialize.FormatInfo
	Content  string
	Fields   []schema.Field
	Errors   validation.Errors
	// BasePath prefixes the format tab links.
	BasePath string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithEngine replaces the default template engine.
func WithEngine(engine *Engine) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithThemeSelector replaces the bundled theme selector.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(r *Renderer) {
		if selector != nil {
			r.selector = selector
		}
	}
}

// WithTheme picks the theme and variant passed to the selector.
func WithTheme(name, variant string) Option {
	return func(r *Renderer) {
		r.themeName = strings.TrimSpace(name)
		r.themeVariant = strings.TrimSpace(variant)
	}
}

// WithLogger sets the logger used for theme fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer produces the themed HTML preview page.
type Renderer struct {
	engine       *Engine
	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
	logger       *slog.Logger
}

// New constructs a renderer over the embedded templates and bundled theme.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{logger: slog.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.engine == nil {
		engine, err := NewEngine()
		if err != nil {
			return nil, err
		}
		r.engine = engine
	}
	if r.selector == nil {
		r.selector = DefaultSelector()
	}
	return r, nil
}

// Render executes the page template selected by the theme.
func (r *Renderer) Render(ctx context.Context, page Page, out ...io.Writer) (string, error) {
	if r == nil || r.engine == nil {
		return "", errors.New("preview: renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	selection, err := r.selector.Select(r.themeName, r.themeVariant)
	if err != nil {
		return "", fmt.Errorf("preview: select theme: %w", err)
	}
	cfg := RendererConfig(selection)

	name := cfg.Partials[PagePartial]
	if name == "" {
		name = defaultPartials()[PagePartial]
	}
	r.logger.Debug("rendering preview page", "template", name, "theme", cfg.Theme, "variant", cfg.Variant, "format", page.Format)

	return r.engine.RenderTemplate(name, pageContext(page, cfg), out...)
}

func pageContext(page Page, cfg *theme.RendererConfig) map[string]any {
	title := page.Title
	if title == "" {
		title = page.Schema
	}
	formats := page.Formats
	if len(formats) == 0 {
		formats = serialize.Formats()
	}

	tabs := make([]map[string]any, 0, len(formats))
	for _, info := range formats {
		tabs = append(tabs, map[string]any{
			"name":   string(info.Format),
			"label":  formatLabel(info.Format),
			"href":   tabHref(page.BasePath, info.Format),
			"active": info.Format == page.Format,
		})
	}

	errs := make([]map[string]any, 0, len(page.Errors))
	for _, path := range page.Errors.Paths() {
		errs = append(errs, map[string]any{
			"path":     path,
			"messages": strings.Join(page.Errors[path], ", "),
		})
	}

	return map[string]any{
		"title":    title,
		"schema":   page.Schema,
		"template": page.Template,
		"format":   string(page.Format),
		"tabs":     tabs,
		"content":  page.Content,
		"fields":   fieldContexts(page.Fields),
		"errors":   errs,
		"theme": map[string]any{
			"name":       cfg.Theme,
			"variant":    cfg.Variant,
			"style":      cssVarsStyle(cfg.CSSVars),
			"stylesheet": cfg.AssetURL(StylesheetAsset),
		},
	}
}

func fieldContexts(fields []schema.Field) []map[string]any {
	out := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		out = append(out, map[string]any{
			"id":       field.ID,
			"label":    field.DisplayLabel(),
			"type":     string(field.Type),
			"required": field.Required,
			"locked":   field.Locked,
			"custom":   field.Custom,
			"nested":   fieldContexts(field.Nested),
		})
	}
	return out
}

func formatLabel(format serialize.Format) string {
	switch format {
	case serialize.FormatJSON:
		return "JSON"
	case serialize.FormatJSONLD:
		return "JSON-LD"
	case serialize.FormatXML:
		return "XML"
	case serialize.FormatTurtle:
		return "Turtle"
	default:
		return string(format)
	}
}

func tabHref(basePath string, format serialize.Format) string {
	query := url.Values{}
	query.Set("view", "html")
	query.Set("format", string(format))
	if basePath == "" {
		basePath = "/"
	}
	return basePath + "?" + query.Encode()
}
