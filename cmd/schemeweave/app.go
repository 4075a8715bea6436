package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/goliatone/go-schemeweave/pkg/config"
	"github.com/goliatone/go-schemeweave/pkg/prompt"
	"github.com/goliatone/go-schemeweave/pkg/schema"
	"github.com/goliatone/go-schemeweave/pkg/serialize"
	"github.com/goliatone/go-schemeweave/pkg/statestore"
	"github.com/goliatone/go-schemeweave/pkg/workspace"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	statePath  string
	logLevel   string

	stdout io.Writer
	stderr io.Writer
	driver prompt.PromptDriver
	now    func() time.Time

	cfg     *config.Config
	logger  *slog.Logger
	catalog *schema.Catalog
	store   statestore.Store
	ws      *workspace.Workspace
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (a *app) newLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: parseLevel(level)}))
}

// setup loads configuration and the schema catalog.
func (a *app) setup() error {
	a.logger = a.newLogger(a.logLevel)

	cfg, err := config.NewLoader(a.logger).Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	if a.logLevel == "" {
		a.logger = a.newLogger(cfg.Log.Level)
	}
	slog.SetDefault(a.logger)

	catalog, err := schema.Default()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if dir := cfg.Catalog.Dir; dir != "" {
		extra, err := schema.LoadDir(dir)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		catalog = catalog.Merge(extra)
		a.logger.Debug("Loaded catalog dir", "dir", dir, "schemas", extra.Keys())
	}
	a.catalog = catalog

	path := a.statePath
	if path == "" {
		path = cfg.State.Path
	}
	a.store = statestore.NewFileStore(path, statestore.WithLogger(a.logger))
	return nil
}

// open builds the workspace and restores the persisted snapshot.
func (a *app) open(ctx context.Context) (*workspace.Workspace, error) {
	if a.ws != nil {
		return a.ws, nil
	}
	format, err := serialize.ParseFormat(a.cfg.Workspace.PreviewFormat)
	if err != nil {
		return nil, err
	}
	ws, err := workspace.New(a.catalog,
		workspace.WithLogger(a.logger),
		workspace.WithClock(a.now),
		workspace.WithDefaultSchema(a.cfg.Workspace.DefaultSchema),
		workspace.WithPreviewFormat(format),
	)
	if err != nil {
		return nil, err
	}

	snap, ok, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if ok {
		if err := ws.Restore(snap); err != nil {
			a.logger.Warn("Discarding saved state", "error", err)
		}
	}
	a.ws = ws
	return ws, nil
}

// apply dispatches cmds in order and persists the result.
func (a *app) apply(ctx context.Context, cmds ...workspace.Command) error {
	ws, err := a.open(ctx)
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		if err := ws.Dispatch(cmd); err != nil {
			return err
		}
	}
	return a.store.Save(ctx, ws.Snapshot())
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.stdout, format, args...)
}
