// Package app wires the viewer components from configuration. Both the
// HTTP server and the CLI start from here.
package app

import (
	"context"
	"log/slog"

	"github.com/dgallion1/docview/internal/catalog"
	"github.com/dgallion1/docview/internal/config"
	"github.com/dgallion1/docview/internal/doccache"
	"github.com/dgallion1/docview/internal/fetch"
	"github.com/dgallion1/docview/internal/render"
	"github.com/dgallion1/docview/internal/router"
	"github.com/dgallion1/docview/internal/search"
	"github.com/dgallion1/docview/internal/view"
)

// App holds the process-wide components shared by every viewer.
type App struct {
	Catalog  *catalog.Catalog
	Index    *search.Index
	Renderer *render.Renderer
	Stats    *fetch.Stats

	client *fetch.Client
	log    *slog.Logger
}

// New builds the document source, loads the catalog (falling back to
// the built-in tree) and indexes it.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) *App {
	a := &App{log: log, Stats: fetch.NewStats(cfg.StatsWindow)}

	var src fetch.Source
	if cfg.RemoteSource() {
		a.client = fetch.NewClient(cfg.DocsSource,
			fetch.WithTimeout(cfg.FetchTimeout),
			fetch.WithMaxRetries(cfg.FetchMaxRetries),
			fetch.WithRateLimit(cfg.FetchRPS),
		)
		src = a.client
	} else {
		src = fetch.NewDir(cfg.DocsSource)
	}
	src = fetch.NewInstrumented(src, a.Stats)

	a.Catalog = catalog.Load(ctx, src, cfg.ManifestPath, cfg.DocsRoot, log)
	a.Index = search.Build(a.Catalog)
	a.Renderer = render.New(doccache.New(), src, render.NewMarkdownConverter(), render.NewSanitizer(), log)

	log.Info("catalog ready",
		"source", cfg.DocsSource,
		"sections", len(a.Catalog.Sections()),
		"documents", a.Catalog.Len(),
	)
	return a
}

// NewRouter builds a router for one viewer.
func (a *App) NewRouter(fragment string, opts ...view.Option) *router.Router {
	return router.New(a.Catalog, a.Index, a.Renderer, a.log, fragment, opts...)
}

// Close releases the HTTP client, if any.
func (a *App) Close() {
	if a.client != nil {
		a.client.Close()
	}
}
