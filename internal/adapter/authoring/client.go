package authoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

// Client reads catalog data from the authoring API. It is the second tier of
// the resolver cascade and the pull source for sync imports. Every request is
// bounded by the configured timeout so a hung authoring call cannot stall the
// cascade or a health check.
type Client struct {
	base string
	http *http.Client
}

// NewClient builds a client for the authoring API rooted at baseURL.
func NewClient(baseURL url.URL, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL.String(), "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Tier identifies this client as the authoring read tier.
func (c *Client) Tier() domain.SourceTier {
	return domain.TierAuthoring
}

// Wire shapes of the authoring API. Prices are integer minor units on the
// wire as well.
type bundleProductPayload struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	CustomPrice  *int64 `json:"custom_price,omitempty"`
	IsRequired   bool   `json:"is_required"`
	DisplayOrder int    `json:"display_order"`
}

type bundlePayload struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	TargetAudience  string                 `json:"target_audience"`
	BudgetRange     string                 `json:"budget_range"`
	EstimatedTotal  int64                  `json:"estimated_total"`
	OriginalTotal   int64                  `json:"original_total"`
	Savings         int64                  `json:"savings"`
	PopularityScore int                    `json:"popularity_score"`
	IsActive        bool                   `json:"is_active"`
	IsFeatured      bool                   `json:"is_featured"`
	Tags            []string               `json:"tags"`
	Products        []bundleProductPayload `json:"products"`
}

type productPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BasePrice int64  `json:"base_price"`
	IsActive  bool   `json:"is_active"`
}

type categoryPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

func (p bundlePayload) toDomain() domain.CampaignBundle {
	b := domain.CampaignBundle{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		TargetAudience:  p.TargetAudience,
		BudgetRange:     p.BudgetRange,
		EstimatedTotal:  p.EstimatedTotal,
		OriginalTotal:   p.OriginalTotal,
		Savings:         p.Savings,
		PopularityScore: p.PopularityScore,
		IsActive:        p.IsActive,
		IsFeatured:      p.IsFeatured,
		Tags:            p.Tags,
	}
	for _, ref := range p.Products {
		b.Products = append(b.Products, domain.BundleProduct{
			BundleID:     p.ID,
			ProductID:    ref.ProductID,
			Quantity:     ref.Quantity,
			CustomPrice:  ref.CustomPrice,
			IsRequired:   ref.IsRequired,
			DisplayOrder: ref.DisplayOrder,
		})
	}
	return b
}

// getJSON performs one GET against the authoring API and decodes the body
// into out. A 404 maps to port.ErrNotFound; any other failure is wrapped as
// port.ErrSourceUnavailable so callers can treat it as a tier outage.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: authoring %s: %v", port.ErrSourceUnavailable, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return port.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: authoring %s: status %d", port.ErrSourceUnavailable, path, resp.StatusCode)
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: authoring %s: malformed body: %v", port.ErrSourceUnavailable, path, err)
	}
	return nil
}

// ListBundles returns every active bundle known to the authoring system.
func (c *Client) ListBundles(ctx context.Context) ([]domain.CampaignBundle, error) {
	var payload []bundlePayload
	if err := c.getJSON(ctx, "/campaign-bundles", &payload); err != nil {
		return nil, err
	}
	bundles := make([]domain.CampaignBundle, 0, len(payload))
	for _, p := range payload {
		if !p.IsActive {
			continue
		}
		bundles = append(bundles, p.toDomain())
	}
	return bundles, nil
}

// GetBundle returns one bundle by id, or port.ErrNotFound.
func (c *Client) GetBundle(ctx context.Context, id string) (*domain.CampaignBundle, error) {
	var payload bundlePayload
	if err := c.getJSON(ctx, "/campaign-bundles/"+url.PathEscape(id), &payload); err != nil {
		return nil, err
	}
	b := payload.toDomain()
	return &b, nil
}

// ListProducts returns the authoritative product set.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var payload []productPayload
	if err := c.getJSON(ctx, "/products", &payload); err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(payload))
	for _, p := range payload {
		products = append(products, domain.Product{
			ID:        p.ID,
			Name:      p.Name,
			BasePrice: p.BasePrice,
			IsActive:  p.IsActive,
		})
	}
	return products, nil
}

// ListCategories returns the authoritative category set.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var payload []categoryPayload
	if err := c.getJSON(ctx, "/categories", &payload); err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(payload))
	for _, p := range payload {
		categories = append(categories, domain.Category{
			ID:           p.ID,
			Name:         p.Name,
			DisplayOrder: p.DisplayOrder,
		})
	}
	return categories, nil
}

// Ping reports whether the authoring API answers its health route.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	return c.getJSON(ctx, "/health", &out)
}
