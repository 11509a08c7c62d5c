// The serving binary. It prerenders the go-app routes, serves the wasm
// bundle, and exposes the backend under /api, either by proxying the real
// one or by running the embedded mock.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"go.uber.org/zap"

	"github.com/helpdeskmini/webclient/internal/config"
	"github.com/helpdeskmini/webclient/internal/mockapi"
	"github.com/helpdeskmini/webclient/internal/observability"
	"github.com/helpdeskmini/webclient/internal/ui"
)

func main() {
	cfg := config.Load()

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Same route table as the wasm binary, for prerendering.
	ui.RegisterRoutes()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	api, err := apiHandler(cfg, logger)
	if err != nil {
		logger.Fatal("building api handler", zap.Error(err))
	}
	r.Mount("/api", api)

	r.Handle("/*", &app.Handler{
		Name:        "HelpDesk Mini",
		ShortName:   "HelpDesk",
		Description: "A lightweight helpdesk ticketing client",
		Styles:      []string{"/web/app.css"},
	})

	logger.Info("helpdesk client listening",
		zap.String("addr", cfg.Addr),
		zap.String("env", cfg.Env),
		zap.Bool("mock_api", cfg.MockAPI))
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// apiHandler picks the /api implementation. Development runs against the
// embedded sqlite mock; everything else proxies the configured backend.
func apiHandler(cfg config.Config, logger *zap.Logger) (http.Handler, error) {
	if cfg.MockAPI {
		db, err := mockapi.Open(cfg.MockDBPath)
		if err != nil {
			return nil, err
		}
		return mockapi.New(db, logger).Handler(), nil
	}
	return newAPIProxy(cfg.APIBaseURL, logger)
}
