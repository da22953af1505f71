package port

import (
	"context"

	"rallygoods/internal/core/domain"
)

// CatalogResolver serves storefront reads under the tiered fallback policy.
// It never raises past the static tier: list reads always produce a result
// plus a tier tag.
type CatalogResolver interface {
	// Resolve lists bundles from the first healthy tier, with storefront
	// filters applied after tier selection.
	Resolve(ctx context.Context, q domain.BundleQuery) domain.ResolvedCatalog
	// ResolveBundle looks up one bundle through the same cascade. It
	// returns ErrNotFound when even the static tier has no matching id.
	ResolveBundle(ctx context.Context, id string) (*domain.CampaignBundle, domain.SourceTier, error)
}

// IntegrityValidator classifies a bundle's product references against the
// live product store. Validation is read-only and safe to call concurrently.
type IntegrityValidator interface {
	// Validate checks the given references. When refs is nil, the bundle's
	// stored references are loaded and checked instead (the pre-save
	// variant passes candidate references explicitly).
	Validate(ctx context.Context, bundleID string, refs []domain.BundleProduct) (*domain.ValidationReport, error)
	// ValidateProductReference is the single-product pre-attach check.
	ValidateProductReference(ctx context.Context, productID string) (domain.ProductReferenceStatus, error)
}

// CleanupOptions controls one orphan cleanup pass.
type CleanupOptions struct {
	// AutoFix removes every missing-classified reference. Inactive
	// references are reported but left in place.
	AutoFix bool
	// DryRun computes the removal set without mutating storage.
	DryRun bool
	// ExplicitIDs, when non-empty, removes exactly these references and
	// skips classification (the admin already decided).
	ExplicitIDs []string
}

// CleanupResult reports what a cleanup pass removed (or would remove) and the
// totals after recalculation. Totals is nil for dry runs and no-op passes.
type CleanupResult struct {
	BundleID string               `json:"bundle_id"`
	Removed  []string             `json:"removed"`
	DryRun   bool                 `json:"dry_run"`
	Totals   *domain.BundleTotals `json:"totals,omitempty"`
}

// CleanupEngine removes invalid references from a bundle and keeps its
// derived totals consistent: every applied removal triggers recalculation
// before the call returns.
type CleanupEngine interface {
	Cleanup(ctx context.Context, bundleID string, opts CleanupOptions) (*CleanupResult, error)
}

// RecalcResult is the per-bundle outcome of a batch recalculation. Failures
// are isolated per bundle; Err is the failure reason, empty on success.
type RecalcResult struct {
	BundleID string               `json:"bundle_id"`
	Totals   *domain.BundleTotals `json:"totals,omitempty"`
	Err      string               `json:"error,omitempty"`
}

// Recalculator recomputes a bundle's derived monetary totals from its current
// valid references. Recalculation is idempotent and serialized per bundle id.
type Recalculator interface {
	Recalculate(ctx context.Context, bundleID string) (domain.BundleTotals, error)
	// RecalculateMany recalculates each listed bundle, isolating per-bundle
	// failures so one bad bundle never aborts its siblings.
	RecalculateMany(ctx context.Context, bundleIDs []string) []RecalcResult
}

// SyncRunner pulls authoritative data into the primary store. At most one
// run executes at a time.
type SyncRunner interface {
	// Run executes a full sync. It returns ErrSyncActive when another run
	// holds the lock, and ErrAuthoringUnreachable when the run aborted at
	// the health check. The returned SyncRun is the durable record.
	Run(ctx context.Context, trigger domain.SyncTrigger) (*domain.SyncRun, error)
	// Status returns the most recent run, or ErrNotFound when none exist.
	Status(ctx context.Context) (*domain.SyncRun, error)
	// History lists recent runs, newest first.
	History(ctx context.Context, limit int) ([]domain.SyncRun, error)
}

// NewBundleProduct is one product line of a bundle create request.
type NewBundleProduct struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	CustomPrice  *int64 `json:"custom_price,omitempty"`
	IsRequired   bool   `json:"is_required"`
	DisplayOrder int    `json:"display_order"`
}

// NewBundle is the validated payload for creating a campaign bundle.
type NewBundle struct {
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	TargetAudience string             `json:"target_audience"`
	BudgetRange    string             `json:"budget_range"`
	IsFeatured     bool               `json:"is_featured"`
	Tags           []string           `json:"tags"`
	Products       []NewBundleProduct `json:"products"`
}

// BundleAdmin covers the write surface of the bundle catalog.
type BundleAdmin interface {
	// CreateBundle validates references, persists the bundle and computes
	// its initial totals. Invalid input yields a *ValidationError.
	CreateBundle(ctx context.Context, in NewBundle) (*domain.CampaignBundle, error)
	// DeleteBundle cascades to the bundle's references. ErrNotFound when
	// absent.
	DeleteBundle(ctx context.Context, id string) error
}
