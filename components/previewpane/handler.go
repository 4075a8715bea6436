package previewpane

import (
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/goliatone/go-schemeweave/pkg/preview"
	"github.com/goliatone/go-schemeweave/pkg/serialize"
	"github.com/goliatone/go-schemeweave/pkg/workspace"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

const viewHTML = "html"

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds a handler from a pre-constructed Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	pages := &pageRenderer{renderer: opts.Renderer}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeError(w, err, http.StatusForbidden)
				return
			}
		}

		query := r.URL.Query()
		html := query.Get(opts.ViewParam) == viewHTML

		var (
			body        string
			contentType string
		)
		err := opts.Provider.Read(func(ws *workspace.Workspace) error {
			format := ws.PreviewFormat()
			if raw := query.Get(opts.FormatParam); raw != "" {
				parsed, err := serialize.ParseFormat(raw)
				if err != nil {
					return StatusError{Code: http.StatusBadRequest, Err: err}
				}
				format = parsed
			}

			content, err := ws.Render(format)
			if err != nil {
				if errors.Is(err, serialize.ErrUnknownFormat) {
					return StatusError{Code: http.StatusBadRequest, Err: err}
				}
				return err
			}

			if !html {
				serializer, err := ws.Registry().Get(format)
				if err != nil {
					return err
				}
				body, contentType = content, serializer.ContentType()+"; charset=utf-8"
				return nil
			}

			renderer, err := pages.get()
			if err != nil {
				return err
			}
			body, err = renderer.Render(r.Context(), pageFor(ws, format, content, r.URL.Path))
			contentType = "text/html; charset=utf-8"
			return err
		})
		if err != nil {
			if errors.Is(err, errNoWorkspace) {
				err = StatusError{Code: http.StatusServiceUnavailable, Err: err}
			}
			opts.Logger.Warn("preview request failed", "path", r.URL.Path, "error", err)
			writeError(w, err, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = io.WriteString(w, body)
	})
}

func pageFor(ws *workspace.Workspace, format serialize.Format, content, basePath string) preview.Page {
	def := ws.Definition()
	selection := ws.Selection()

	formats := make([]serialize.FormatInfo, 0, len(serialize.Formats()))
	for _, name := range ws.Registry().List() {
		if info, ok := serialize.Info(name); ok {
			formats = append(formats, info)
		}
	}

	return preview.Page{
		Title:    def.Name,
		Schema:   selection.Schema,
		Template: selection.Template,
		Format:   format,
		Formats:  formats,
		Content:  content,
		Fields:   ws.Fields(),
		Errors:   ws.Validate(),
		BasePath: basePath,
	}
}

type pageRenderer struct {
	once     sync.Once
	renderer *preview.Renderer
	err      error
}

func (p *pageRenderer) get() (*preview.Renderer, error) {
	p.once.Do(func() {
		if p.renderer == nil {
			p.renderer, p.err = preview.New()
		}
	})
	return p.renderer, p.err
}

func writeError(w http.ResponseWriter, err error, fallback int) {
	if w == nil {
		return
	}
	code := fallback
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = fallback
		}
	}
	http.Error(w, http.StatusText(code), code)
}
