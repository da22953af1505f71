package port

import (
	"context"

	"rallygoods/internal/core/domain"
)

// AuthoringClient talks to the secondary, authoritative-but-slower data
// provider. It serves two roles: the authoring read tier of the resolver
// cascade, and the pull source for sync imports. It is read-only.
type AuthoringClient interface {
	CatalogProvider

	// ListProducts returns the authoritative product set.
	ListProducts(ctx context.Context) ([]domain.Product, error)
	// ListCategories returns the authoritative category set.
	ListCategories(ctx context.Context) ([]domain.Category, error)
	// Ping reports whether the authoring API is reachable. Sync runs abort
	// without retry when it is not.
	Ping(ctx context.Context) error
}
