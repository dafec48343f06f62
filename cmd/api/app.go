package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"medi-skimap/internal/config"
	"medi-skimap/internal/metrics"
	"medi-skimap/internal/pipeline"
	"medi-skimap/internal/resort"
	"medi-skimap/internal/store"
	"medi-skimap/internal/timezone"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
)

// App encapsulates application dependencies
type App struct {
	mux       *http.ServeMux
	api       huma.API
	logger    *slog.Logger
	extractor resort.Runner
	loader    *resort.Loader
	resorts   ResortReader
	store     *store.Store
}

// NewApp creates a new application with injected dependencies
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Create standard library HTTP mux
	mux := http.NewServeMux()

	// Create Huma API with standard library adapter
	hc := huma.DefaultConfig("Medi-Skimap API", "1.0.0")
	hc.Info.Description = "Ski-area map extraction: lifts, pistes, water and terrain contours"
	hc.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://localhost%s", cfg.GetServerAddr()), Description: "Development server"},
	}

	api := humago.New(mux, hc)

	tz, err := timezone.NewService()
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.Storage.DBPath, logger)
	if err != nil {
		return nil, err
	}

	extractor := pipeline.NewExtractor(cfg, logger)
	app := &App{
		mux:       mux,
		api:       api,
		logger:    logger,
		extractor: extractor,
		loader: resort.NewLoader(extractor, db, tz, resort.Options{
			MapsDir:       cfg.Storage.MapsDir,
			MapsURLPrefix: cfg.Storage.MapsURLPrefix,
			Concurrency:   cfg.Batch.Concurrency,
		}, logger),
		resorts: db,
		store:   db,
	}

	mux.Handle("GET /metrics", metrics.Handler())
	if prefix := strings.TrimSuffix(cfg.Storage.MapsURLPrefix, "/"); strings.HasPrefix(prefix, "/") {
		mux.Handle("GET "+prefix+"/", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(cfg.Storage.MapsDir))))
	}

	logger.Info("application initialized")

	// Register routes
	app.registerRoutes()

	return app, nil
}

// Run starts the HTTP server
func (app *App) Run(addr string) error {
	return http.ListenAndServe(addr, app.mux)
}

// Close releases the record store.
func (app *App) Close() error {
	if app.store == nil {
		return nil
	}
	return app.store.Close()
}
