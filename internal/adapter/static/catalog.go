package static

import (
	"context"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

// Catalog is the last-resort read tier: a hardcoded minimal bundle set
// compiled into the binary. It cannot fail, which is what lets the resolver
// promise that list reads always return something.
type Catalog struct {
	bundles []domain.CampaignBundle
}

// NewCatalog returns the built-in fallback catalog.
func NewCatalog() *Catalog {
	return &Catalog{bundles: fallbackBundles()}
}

// Tier identifies this catalog as the static tier.
func (c *Catalog) Tier() domain.SourceTier {
	return domain.TierStatic
}

// ListBundles returns a copy of the static set so callers cannot mutate the
// shared constant.
func (c *Catalog) ListBundles(_ context.Context) ([]domain.CampaignBundle, error) {
	out := make([]domain.CampaignBundle, len(c.bundles))
	copy(out, c.bundles)
	return out, nil
}

// GetBundle returns one static bundle by id, or port.ErrNotFound.
func (c *Catalog) GetBundle(_ context.Context, id string) (*domain.CampaignBundle, error) {
	for _, b := range c.bundles {
		if b.ID == id {
			bundle := b
			return &bundle, nil
		}
	}
	return nil, port.ErrNotFound
}

func price(v int64) *int64 { return &v }

// fallbackBundles is the minimal catalog served when both real stores are
// down. Totals are precomputed; quantities and prices are deliberately
// conservative so a degraded storefront never over-promises.
func fallbackBundles() []domain.CampaignBundle {
	return []domain.CampaignBundle{
		{
			ID:              "starter-kit",
			Name:            "Campaign Starter Kit",
			Description:     "Yard signs, buttons and door hangers to launch a local race.",
			TargetAudience:  "local",
			BudgetRange:     "low",
			EstimatedTotal:  14900,
			OriginalTotal:   17900,
			Savings:         3000,
			PopularityScore: 80,
			IsActive:        true,
			IsFeatured:      true,
			Tags:            []string{"starter", "local"},
			Products: []domain.BundleProduct{
				{BundleID: "starter-kit", ProductID: "yard-sign-classic", Quantity: 25, CustomPrice: price(400), IsRequired: true, DisplayOrder: 1},
				{BundleID: "starter-kit", ProductID: "button-2in", Quantity: 100, CustomPrice: price(35), DisplayOrder: 2},
				{BundleID: "starter-kit", ProductID: "door-hanger", Quantity: 50, CustomPrice: price(28), DisplayOrder: 3},
			},
		},
		{
			ID:              "rally-day-pack",
			Name:            "Rally Day Pack",
			Description:     "Shirts, banners and hand flags for a single large event.",
			TargetAudience:  "events",
			BudgetRange:     "medium",
			EstimatedTotal:  52500,
			OriginalTotal:   61000,
			Savings:         8500,
			PopularityScore: 65,
			IsActive:        true,
			IsFeatured:      false,
			Tags:            []string{"rally", "event"},
			Products: []domain.BundleProduct{
				{BundleID: "rally-day-pack", ProductID: "tee-unisex", Quantity: 30, CustomPrice: price(1200), IsRequired: true, DisplayOrder: 1},
				{BundleID: "rally-day-pack", ProductID: "vinyl-banner-3x8", Quantity: 2, CustomPrice: price(4500), DisplayOrder: 2},
				{BundleID: "rally-day-pack", ProductID: "hand-flag", Quantity: 150, CustomPrice: price(50), DisplayOrder: 3},
			},
		},
	}
}
