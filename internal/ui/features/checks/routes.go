// Package checks provides the check list and check detail pages.
package checks

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures routes for the check pages.
func SetupRoutes(router chi.Router, handlers *Handlers) {
	router.Get("/", handlers.ListPage)
	router.Get("/_/updates", handlers.ListUpdates)
	router.Get("/_/updates/{name}", handlers.CheckUpdates)
	router.Get("/{name}", handlers.CheckPage)
	router.Get("/{name}/", handlers.CheckPage)
}
