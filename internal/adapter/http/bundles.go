package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

type bundleProductJSON struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	CustomPrice  *int64 `json:"custom_price,omitempty"`
	IsRequired   bool   `json:"is_required"`
	DisplayOrder int    `json:"display_order"`
}

type bundleJSON struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	TargetAudience  string              `json:"target_audience"`
	BudgetRange     string              `json:"budget_range"`
	EstimatedTotal  int64               `json:"estimated_total"`
	OriginalTotal   int64               `json:"original_total"`
	Savings         int64               `json:"savings"`
	PopularityScore int                 `json:"popularity_score"`
	IsActive        bool                `json:"is_active"`
	IsFeatured      bool                `json:"is_featured"`
	Tags            []string            `json:"tags"`
	Products        []bundleProductJSON `json:"products"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toBundleJSON(b domain.CampaignBundle) bundleJSON {
	out := bundleJSON{
		ID:              b.ID,
		Name:            b.Name,
		Description:     b.Description,
		TargetAudience:  b.TargetAudience,
		BudgetRange:     b.BudgetRange,
		EstimatedTotal:  b.EstimatedTotal,
		OriginalTotal:   b.OriginalTotal,
		Savings:         b.Savings,
		PopularityScore: b.PopularityScore,
		IsActive:        b.IsActive,
		IsFeatured:      b.IsFeatured,
		Tags:            b.Tags,
		Products:        []bundleProductJSON{},
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	for _, p := range b.Products {
		out.Products = append(out.Products, bundleProductJSON{
			ProductID:    p.ProductID,
			Quantity:     p.Quantity,
			CustomPrice:  p.CustomPrice,
			IsRequired:   p.IsRequired,
			DisplayOrder: p.DisplayOrder,
		})
	}
	return out
}

func toBundleListJSON(bundles []domain.CampaignBundle) []bundleJSON {
	out := make([]bundleJSON, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, toBundleJSON(b))
	}
	return out
}

// handleListBundles serves the storefront read. Reads degrade gracefully:
// the resolver always produces a result, down to the static tier, and the
// Cache-Control lifetime shrinks with the tier's trustworthiness.
func (h *Handler) handleListBundles(w http.ResponseWriter, r *http.Request) {
	q := domain.BundleQuery{
		Audience:     r.URL.Query().Get("audience"),
		FeaturedOnly: isTruthy(r.URL.Query().Get("featured")),
	}
	resolved := h.resolver.Resolve(r.Context(), q)
	setCachePolicy(w, resolved.Source)
	h.respond(w, http.StatusOK, envelope{
		Success: true,
		Data:    toBundleListJSON(resolved.Bundles),
		Source:  resolved.Source,
		Warning: resolved.Warning,
	})
}

// handleGetBundle serves a single bundle through the same cascade; 404 only
// when no tier has the id.
func (h *Handler) handleGetBundle(w http.ResponseWriter, r *http.Request) {
	bundle, tier, err := h.resolver.ResolveBundle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	setCachePolicy(w, tier)
	env := envelope{Success: true, Data: toBundleJSON(*bundle), Source: tier}
	if domain.CachePolicyFor(tier).Degraded {
		env.Warning = degradedBundleWarning
	}
	h.respond(w, http.StatusOK, env)
}

const degradedBundleWarning = "catalog served from fallback data; availability may be limited"

// handleCreateBundle validates and persists a new bundle, 201 on success.
func (h *Handler) handleCreateBundle(w http.ResponseWriter, r *http.Request) {
	var in port.NewBundle
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respond(w, http.StatusBadRequest, envelope{Error: "invalid JSON"})
		return
	}
	bundle, err := h.admin.CreateBundle(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, envelope{Success: true, Data: toBundleJSON(*bundle)})
}

// handleDeleteBundle removes a bundle and, via the schema cascade, its
// product references.
func (h *Handler) handleDeleteBundle(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteBundle(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, envelope{Success: true})
}

// idList accepts either a single JSON string or an array of strings, since
// the authoring system's webhooks send both shapes.
type idList []string

func (l *idList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = idList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = idList(many)
	return nil
}

type recalcWebhookRequest struct {
	BundleProductID   string `json:"bundle_product_id"`
	CampaignBundleIDs idList `json:"campaign_bundle_ids"`
	Trigger           string `json:"trigger"`
}

// handleRecalculateTotals is the product-change webhook. Delivery is
// at-least-once and recalculation is idempotent, so duplicates are harmless.
// The response is always 200 with a per-bundle breakdown; a single bundle's
// failure never becomes a top-level error.
func (h *Handler) handleRecalculateTotals(w http.ResponseWriter, r *http.Request) {
	var req recalcWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, envelope{Error: "invalid JSON"})
		return
	}
	results := h.recalc.RecalculateMany(r.Context(), req.CampaignBundleIDs)
	h.respond(w, http.StatusOK, envelope{Success: true, Data: results})
}

func isTruthy(v string) bool {
	return v == "true" || v == "1"
}
