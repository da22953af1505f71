package port

import (
	"context"

	"rallygoods/internal/core/domain"
)

// BundleRepository is the primary (read/write) bundle store. It doubles as
// the primary CatalogProvider tier. Implementations must be concurrency-safe.
type BundleRepository interface {
	CatalogProvider

	// CreateBundle persists a bundle and its product references.
	CreateBundle(ctx context.Context, b *domain.CampaignBundle) error
	// DeleteBundle removes the bundle and cascades to its references.
	// Returns ErrNotFound when the bundle does not exist.
	DeleteBundle(ctx context.Context, id string) error
	// UpsertBundle inserts or updates a bundle during sync. It reports
	// whether a new row was created.
	UpsertBundle(ctx context.Context, b *domain.CampaignBundle) (created bool, err error)

	// ListReferences returns the bundle's product references in display
	// order, orphaned or not.
	ListReferences(ctx context.Context, bundleID string) ([]domain.BundleProduct, error)
	// ListPricedReferences returns only references that still resolve in
	// the product store, each with its effective unit price.
	ListPricedReferences(ctx context.Context, bundleID string) ([]domain.PricedReference, error)
	// DeleteReferences removes the given product references from the
	// bundle and reports how many rows went away.
	DeleteReferences(ctx context.Context, bundleID string, productIDs []string) (int, error)

	// UpdateTotals overwrites the bundle's derived totals and stamps
	// updated_at.
	UpdateTotals(ctx context.Context, bundleID string, totals domain.BundleTotals) error

	// Ping reports store liveness for health checks.
	Ping(ctx context.Context) error
}

// ProductRepository reads live product state. Products are mutated outside
// this subsystem.
type ProductRepository interface {
	// GetProduct returns a product by id, or ErrNotFound.
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	// GetProducts resolves a batch of ids in one round trip; ids that do
	// not resolve are simply absent from the result map.
	GetProducts(ctx context.Context, ids []string) (map[string]domain.Product, error)
	// UpsertProduct inserts or updates a product during sync, reporting
	// whether a new row was created.
	UpsertProduct(ctx context.Context, p domain.Product) (created bool, err error)
	// UpsertCategory inserts or updates a category during sync.
	UpsertCategory(ctx context.Context, c domain.Category) (created bool, err error)
}

// SyncRunRepository persists sync run records. Terminal runs are append-only
// history.
type SyncRunRepository interface {
	Create(ctx context.Context, run *domain.SyncRun) error
	// Finalize writes the run's terminal state. A run is finalized at most
	// once.
	Finalize(ctx context.Context, run *domain.SyncRun) error
	Latest(ctx context.Context) (*domain.SyncRun, error)
	List(ctx context.Context, limit int) ([]domain.SyncRun, error)
}
