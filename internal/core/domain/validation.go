package domain

// ReferenceState classifies a bundle product reference against the live
// product store.
type ReferenceState string

const (
	// RefValid means the product resolves and is active.
	RefValid ReferenceState = "valid"
	// RefInactive means the product resolves but has been deactivated.
	// Inactive references are reported, never auto-removed.
	RefInactive ReferenceState = "inactive"
	// RefMissing means the product id no longer resolves at all. Missing
	// references are orphans and eligible for automatic cleanup.
	RefMissing ReferenceState = "missing"
)

// ReferenceCheck is the per-reference outcome of a validation pass.
type ReferenceCheck struct {
	ProductID string         `json:"product_id"`
	Quantity  int            `json:"quantity"`
	State     ReferenceState `json:"state"`
	Reason    string         `json:"reason,omitempty"`
}

// ValidationReport aggregates the integrity check for one bundle.
// BundleHealthy is true iff there are zero problem references.
type ValidationReport struct {
	BundleID      string           `json:"bundle_id"`
	Valid         []ReferenceCheck `json:"valid"`
	Problems      []ReferenceCheck `json:"problems"`
	BundleHealthy bool             `json:"bundle_healthy"`
}

// ProductReferenceStatus answers the single-product pre-attach check used by
// admin tooling before a product may be added to a bundle.
type ProductReferenceStatus struct {
	Exists bool `json:"exists"`
	Active bool `json:"active"`
}
