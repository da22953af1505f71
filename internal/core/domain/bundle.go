package domain

import "time"

// CampaignBundle is a named, priced collection of products sold as a package.
// EstimatedTotal, OriginalTotal and Savings are derived from the bundle's
// product references and overwritten on every recalculation, never
// accumulated into.
type CampaignBundle struct {
	ID              string
	Name            string
	Description     string
	TargetAudience  string
	BudgetRange     string
	EstimatedTotal  int64
	OriginalTotal   int64
	Savings         int64
	PopularityScore int
	IsActive        bool
	IsFeatured      bool
	Tags            []string
	Products        []BundleProduct
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BundleProduct links one bundle to one product. The reference is valid only
// while ProductID resolves to a live product; it becomes orphaned when the
// product is deleted or renamed elsewhere. CustomPrice, when set, overrides
// the product's live base price for this bundle.
type BundleProduct struct {
	ID           int64
	BundleID     string
	ProductID    string
	Quantity     int
	CustomPrice  *int64
	IsRequired   bool
	DisplayOrder int
}

// PricedReference is a bundle product joined with its effective unit price
// (custom override or the product's live base price). Only references that
// still resolve in the product store are priced.
type PricedReference struct {
	ProductID string
	Quantity  int
	UnitPrice int64
}

// Subtotal is the reference's contribution to the bundle's estimated total.
func (r PricedReference) Subtotal() int64 {
	return r.UnitPrice * int64(r.Quantity)
}

// BundleTotals holds a bundle's derived monetary fields. Savings is always
// max(0, OriginalTotal-EstimatedTotal).
type BundleTotals struct {
	EstimatedTotal int64 `json:"estimated_total"`
	OriginalTotal  int64 `json:"original_total"`
	Savings        int64 `json:"savings"`
}
