package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-schemeweave/components/previewpane"
	"github.com/goliatone/go-schemeweave/pkg/preview"
)

func serveCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live preview over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Serve.Addr
			}
			handler, pattern, err := a.previewRouter(cmd.Context())
			if err != nil {
				return err
			}

			listener, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			a.printf("Serving preview on http://%s%s\n", listener.Addr(), pattern)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveUntilDone(ctx, listener, handler, a.cfg.Serve.ShutdownTimeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

// previewRouter mounts the preview pane on a chi router and returns the
// mounted route.
func (a *app) previewRouter(ctx context.Context) (http.Handler, string, error) {
	ws, err := a.open(ctx)
	if err != nil {
		return nil, "", err
	}

	renderOpts := []preview.Option{
		preview.WithLogger(a.logger),
		preview.WithTheme(a.cfg.Theme.Name, a.cfg.Theme.Variant),
	}
	if dir := a.cfg.Theme.TemplatesDir; dir != "" {
		engine, err := preview.NewEngine(preview.WithBaseDir(dir))
		if err != nil {
			return nil, "", err
		}
		renderOpts = append(renderOpts, preview.WithEngine(engine))
	}
	renderer, err := preview.New(renderOpts...)
	if err != nil {
		return nil, "", err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	pattern, err := previewpane.RegisterRoutes(r, a.cfg.Serve.BasePath,
		previewpane.WithProvider(previewpane.NewProvider(ws)),
		previewpane.WithRenderer(renderer),
		previewpane.WithLogger(a.logger),
	)
	if err != nil {
		return nil, "", err
	}
	a.logger.Debug("Mounted preview pane", "pattern", pattern)
	return r, pattern, nil
}

func serveUntilDone(ctx context.Context, listener net.Listener, handler http.Handler, timeout time.Duration) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
