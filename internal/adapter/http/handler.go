package httpadapter

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rallygoods/internal/core/port"
)

// pinger reports liveness of a backing store.
type pinger interface {
	Ping(ctx context.Context) error
}

// Handler is the inbound HTTP adapter. It holds the catalog usecases and a
// logger for structured logging. Routes are registered on a chi.Router.
type Handler struct {
	resolver  port.CatalogResolver
	admin     port.BundleAdmin
	validator port.IntegrityValidator
	cleanup   port.CleanupEngine
	recalc    port.Recalculator
	sync      port.SyncRunner

	primary   pinger
	authoring pinger

	logger *slog.Logger
	router chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(
	resolver port.CatalogResolver,
	admin port.BundleAdmin,
	validator port.IntegrityValidator,
	cleanup port.CleanupEngine,
	recalc port.Recalculator,
	sync port.SyncRunner,
	primary pinger,
	authoring pinger,
	logger *slog.Logger,
) *Handler {
	h := &Handler{
		resolver:  resolver,
		admin:     admin,
		validator: validator,
		cleanup:   cleanup,
		recalc:    recalc,
		sync:      sync,
		primary:   primary,
		authoring: authoring,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/campaign-bundles", func(r chi.Router) {
		r.Get("/", h.handleListBundles)
		r.Post("/", h.handleCreateBundle)
		r.Post("/recalculate-totals", h.handleRecalculateTotals)
		r.Get("/{id}", h.handleGetBundle)
		r.Delete("/{id}", h.handleDeleteBundle)
	})

	r.Route("/admin/bundle-reference", func(r chi.Router) {
		r.Post("/validate/{bundleID}", h.handleValidateBundle)
		r.Post("/cleanup/{bundleID}", h.handleCleanupBundle)
	})

	r.Route("/sync", func(r chi.Router) {
		r.Post("/trigger", h.handleSyncTrigger)
		r.Get("/status", h.handleSyncStatus)
		r.Get("/runs", h.handleSyncRuns)
	})

	r.Get("/healthz", h.handleHealth)

	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
