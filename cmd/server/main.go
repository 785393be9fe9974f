package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docview/internal/api"
	"github.com/dgallion1/docview/internal/app"
	"github.com/dgallion1/docview/internal/clipboard"
	"github.com/dgallion1/docview/internal/config"
	"github.com/dgallion1/docview/internal/router"
	"github.com/dgallion1/docview/internal/session"
	"github.com/dgallion1/docview/internal/view"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	configPath := flag.String("config", "docview.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("loading configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize shared components.
	a := app.New(ctx, cfg, log)

	// Initialize sessions. Each session copies into its own in-process
	// clipboard; the host clipboard belongs to no viewer.
	sessions := session.NewManager(session.NewStore(cfg.SessionTTL), func(fragment string) *router.Router {
		return a.NewRouter(fragment, view.WithClipboard(&clipboard.Memory{}))
	}, log)
	sessions.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(api.Deps{
		Catalog:  a.Catalog,
		Index:    a.Index,
		Renderer: a.Renderer,
		Sessions: sessions,
		Stats:    a.Stats,
	}, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		sessions.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		a.Close()
	}()

	log.Info("starting docview", "port", cfg.Port, "source", cfg.DocsSource)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
