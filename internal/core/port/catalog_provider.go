package port

import (
	"context"

	"rallygoods/internal/core/domain"
)

// CatalogProvider is one read tier of the bundle catalog. The resolver holds
// an ordered list of providers and serves the first tier that answers, so
// adding or removing a tier is a wiring change, not a code edit.
//
// Providers return the full active bundle set; storefront filters are applied
// by the resolver so filter semantics do not vary across tiers.
type CatalogProvider interface {
	// Tier names this provider's rank for cache policy and trust signaling.
	Tier() domain.SourceTier
	// ListBundles returns every active bundle with its product references.
	ListBundles(ctx context.Context) ([]domain.CampaignBundle, error)
	// GetBundle returns one bundle by id, or ErrNotFound when this tier
	// does not hold it.
	GetBundle(ctx context.Context, id string) (*domain.CampaignBundle, error)
}
