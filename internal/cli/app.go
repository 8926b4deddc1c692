// Package cli wires configuration, storage, rendering and the editor
// controller into the changenotice commands.
package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-changenotice/components/timezones"
	"github.com/goliatone/go-changenotice/internal/config"
	"github.com/goliatone/go-changenotice/internal/editor"
	"github.com/goliatone/go-changenotice/internal/observability"
	"github.com/goliatone/go-changenotice/pkg/draft"
	"github.com/goliatone/go-changenotice/pkg/palette"
	"github.com/goliatone/go-changenotice/pkg/render"
	"github.com/goliatone/go-changenotice/pkg/renderers/email"
	"github.com/goliatone/go-changenotice/pkg/renderers/text"
)

// App carries the flags shared by every command and the services built from
// them.
type App struct {
	ConfigPath string
	LogLevel   string
	// DraftKey overrides the configured draft slot.
	DraftKey string

	cfg       *config.Config
	logger    *zap.Logger
	renderers *render.Registry
	location  *time.Location
	closers   []func() error
}

// setup loads configuration and builds the logger. It runs once per
// command invocation.
func (a *App) setup() error {
	if a.cfg != nil {
		return nil
	}
	path := a.ConfigPath
	if path == "" {
		path = config.ResolvePath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.LogLevel != "" {
		cfg.LogLevel = a.LogLevel
	}
	logger, err := observability.NewCLILogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("cli: build logger: %w", err)
	}
	loc, err := timezones.New().Location(cfg.Timezone)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger.With(zap.String("config", path))
	a.location = loc
	return nil
}

// drafts opens the configured draft backend.
func (a *App) drafts(ctx context.Context) (*draft.Drafts, error) {
	var backend draft.Backend
	switch a.cfg.Draft.Backend {
	case config.BackendSQLite:
		sqlite, err := draft.OpenSQLite(ctx, a.cfg.Draft.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sqlite.Close)
		backend = sqlite
	case config.BackendMemory:
		backend = draft.NewMemoryBackend()
	default:
		backend = draft.NewFileBackend(a.cfg.Draft.Dir)
	}
	key := a.cfg.Draft.Key
	if a.DraftKey != "" {
		key = a.DraftKey
	}
	return draft.New(backend,
		draft.WithKey(key),
		draft.WithQuota(a.cfg.Draft.QuotaBytes),
	), nil
}

// registry builds the email and text renderers from the render settings.
func (a *App) registry() (*render.Registry, error) {
	if a.renderers != nil {
		return a.renderers, nil
	}
	format, err := render.ParseTextFormat(a.cfg.Render.TextFormat)
	if err != nil {
		return nil, err
	}
	catalog, err := palette.NewCatalog(palette.DefaultManifest())
	if err != nil {
		return nil, err
	}
	colours, err := palette.Resolve(catalog, a.cfg.Render.Theme, a.cfg.Render.Variant)
	if err != nil {
		return nil, err
	}

	html, err := email.New(email.WithRenderOptions(
		render.WithTextFormat(format),
		render.WithPalette(colours),
		render.WithLogoURL(a.cfg.Render.LogoURL),
	))
	if err != nil {
		return nil, err
	}
	plain, err := text.New(nil)
	if err != nil {
		return nil, err
	}

	registry, err := render.NewRegistry(html, plain)
	if err != nil {
		return nil, err
	}
	a.renderers = registry
	return registry, nil
}

// controller builds an editor over the configured draft slot, previewing
// with the named renderer.
func (a *App) controller(ctx context.Context, rendererName string) (*editor.Controller, error) {
	drafts, err := a.drafts(ctx)
	if err != nil {
		return nil, err
	}
	registry, err := a.registry()
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, err
	}
	return editor.New(
		editor.WithDrafts(drafts),
		editor.WithRenderer(renderer),
		editor.WithLocation(a.location),
		editor.WithLogger(a.logger),
	)
}

// close releases backends opened during the command.
func (a *App) close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return first
}
