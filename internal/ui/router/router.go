// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/leapcheck/internal/display"
	"github.com/leapstack-labs/leapcheck/internal/metrics"
	apiFeature "github.com/leapstack-labs/leapcheck/internal/ui/features/api"
	checksFeature "github.com/leapstack-labs/leapcheck/internal/ui/features/checks"
	"github.com/leapstack-labs/leapcheck/internal/ui/notifier"
	"github.com/leapstack-labs/leapcheck/internal/ui/resources"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// Deps holds everything the routes need.
type Deps struct {
	Source       display.Source
	Store        core.Store
	Notifier     *notifier.Notifier
	HistoryLimit int
	Logger       *slog.Logger
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) {
	router.Handle("/static/*", resources.Handler())

	registry := metrics.NewRegistry(metrics.NewCollector(deps.Source.Records))
	router.Handle("/metrics", metrics.Handler(registry))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	apiFeature.SetupRoutes(router, apiFeature.NewHandlers(deps.Source, deps.Store, deps.HistoryLimit))
	checksFeature.SetupRoutes(router, checksFeature.NewHandlers(
		deps.Source, deps.Store, deps.Notifier, deps.HistoryLimit, deps.Logger,
	))
}
