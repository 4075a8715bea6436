package previewpane

import (
	"log/slog"
	"net/http"

	"github.com/goliatone/go-schemeweave/pkg/preview"
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath   string
	FormatParam string
	ViewParam   string
	Guard       GuardFunc

	Provider *Provider
	Renderer *preview.Renderer
	Logger   *slog.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:   "/preview",
		FormatParam: "format",
		ViewParam:   "view",
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/preview"
	}
	if opts.FormatParam == "" {
		opts.FormatParam = "format"
	}
	if opts.ViewParam == "" {
		opts.ViewParam = "view"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithFormatParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FormatParam = name
	}
}

func WithViewParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ViewParam = name
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithProvider(provider *Provider) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Provider = provider
	}
}

// WithRenderer sets the page renderer used for ?view=html. Without one the
// default preview renderer is built on first use.
func WithRenderer(renderer *preview.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil || logger == nil {
			return
		}
		o.Logger = logger
	}
}
