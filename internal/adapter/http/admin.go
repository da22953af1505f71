package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

type validateRequest struct {
	// Products, when present, is a candidate reference list checked before
	// persistence instead of the bundle's stored references.
	Products []port.NewBundleProduct `json:"products"`
}

// handleValidateBundle runs the referential integrity validator for one
// bundle. The request body is optional; when it carries a product list the
// validation is a pre-save check against those candidates.
func (h *Handler) handleValidateBundle(w http.ResponseWriter, r *http.Request) {
	bundleID := chi.URLParam(r, "bundleID")

	var refs []domain.BundleProduct
	var req validateRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	switch {
	case errors.Is(err, io.EOF):
		// no body: validate stored references
	case err != nil:
		h.respond(w, http.StatusBadRequest, envelope{Error: "invalid JSON"})
		return
	case req.Products != nil:
		refs = make([]domain.BundleProduct, 0, len(req.Products))
		for _, p := range req.Products {
			refs = append(refs, domain.BundleProduct{
				BundleID:     bundleID,
				ProductID:    p.ProductID,
				Quantity:     p.Quantity,
				CustomPrice:  p.CustomPrice,
				IsRequired:   p.IsRequired,
				DisplayOrder: p.DisplayOrder,
			})
		}
	}

	report, err := h.validator.Validate(r.Context(), bundleID, refs)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, envelope{Success: true, Data: report})
}

type cleanupRequest struct {
	OrphanedProductIDs []string `json:"orphanedProductIds"`
	DryRun             bool     `json:"dryRun"`
}

// handleCleanupBundle runs the orphan cleanup engine. Without explicit ids
// it auto-fixes missing references; applied removals always come back with
// freshly recalculated totals.
func (h *Handler) handleCleanupBundle(w http.ResponseWriter, r *http.Request) {
	bundleID := chi.URLParam(r, "bundleID")

	var req cleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respond(w, http.StatusBadRequest, envelope{Error: "invalid JSON"})
		return
	}

	result, err := h.cleanup.Cleanup(r.Context(), bundleID, port.CleanupOptions{
		AutoFix:     true,
		DryRun:      req.DryRun,
		ExplicitIDs: req.OrphanedProductIDs,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, envelope{Success: true, Data: result})
}
