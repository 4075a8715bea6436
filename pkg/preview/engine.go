package preview

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// EngineOption configures the template engine before construction.
type EngineOption func(*engineConfig)

type engineConfig struct {
	baseDir    string
	templates  fs.FS
	globalData map[string]any
}

// WithBaseDir loads templates from a directory on disk. Templates found there
// take precedence over the embedded ones.
func WithBaseDir(dir string) EngineOption {
	return func(cfg *engineConfig) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS replaces the embedded templates.
func WithFS(files fs.FS) EngineOption {
	return func(cfg *engineConfig) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) EngineOption {
	return func(cfg *engineConfig) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine executes pongo2 templates and caches parsed files.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
}

// NewEngine builds an engine over the embedded templates unless overridden.
func NewEngine(options ...EngineOption) (*Engine, error) {
	cfg := &engineConfig{templates: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("preview: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	if len(loaders) == 0 {
		return nil, errors.New("preview: need to provide either base dir or fs.FS")
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("schemeweave-preview", loaders...),
		templates:   make(map[string]*pongo2.Template),
	}
	if len(cfg.globalData) > 0 {
		engine.templateSet.Globals.Update(pongo2.Context(cfg.globalData))
	}
	return engine, nil
}

// RenderTemplate executes the named template with data, copying the result to
// any writers supplied.
func (e *Engine) RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("preview: engine is nil")
	}
	tmpl, err := e.getTemplate(name)
	if err != nil {
		return "", err
	}
	return execute(tmpl, name, data, out)
}

// RenderString parses and executes template content.
func (e *Engine) RenderString(content string, data map[string]any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("preview: engine is nil")
	}
	tmpl, err := e.templateSet.FromString(content)
	if err != nil {
		return "", fmt.Errorf("preview: parse template string: %w", err)
	}
	return execute(tmpl, "string", data, out)
}

func execute(tmpl *pongo2.Template, name string, data map[string]any, out []io.Writer) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context(data), &buf); err != nil {
		return "", fmt.Errorf("preview: execute template %q: %w", name, err)
	}
	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("preview: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}
