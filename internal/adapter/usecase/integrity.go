package usecase

import (
	"context"
	"errors"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

// Validator classifies a bundle's product references against the live
// product store. It holds no state and performs no writes, so concurrent
// validation of the same bundle is safe.
type Validator struct {
	bundles  port.BundleRepository
	products port.ProductRepository
}

// NewValidator builds the referential integrity validator.
func NewValidator(bundles port.BundleRepository, products port.ProductRepository) *Validator {
	return &Validator{bundles: bundles, products: products}
}

// Validate classifies each reference as valid, inactive or missing. When
// refs is nil the bundle's stored references are loaded; admin pre-save
// checks pass candidate references explicitly instead.
func (v *Validator) Validate(ctx context.Context, bundleID string, refs []domain.BundleProduct) (*domain.ValidationReport, error) {
	if refs == nil {
		var err error
		refs, err = v.bundles.ListReferences(ctx, bundleID)
		if err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ProductID)
	}
	products, err := v.products.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	report := &domain.ValidationReport{BundleID: bundleID}
	for _, ref := range refs {
		check := domain.ReferenceCheck{ProductID: ref.ProductID, Quantity: ref.Quantity}
		p, ok := products[ref.ProductID]
		switch {
		case !ok:
			check.State = domain.RefMissing
			check.Reason = "product no longer exists"
			report.Problems = append(report.Problems, check)
		case !p.IsActive:
			check.State = domain.RefInactive
			check.Reason = "product has been deactivated"
			report.Problems = append(report.Problems, check)
		default:
			check.State = domain.RefValid
			report.Valid = append(report.Valid, check)
		}
	}
	report.BundleHealthy = len(report.Problems) == 0
	return report, nil
}

// ValidateProductReference is the single-product pre-attach check used by
// admin tooling before a product may be added to a bundle.
func (v *Validator) ValidateProductReference(ctx context.Context, productID string) (domain.ProductReferenceStatus, error) {
	p, err := v.products.GetProduct(ctx, productID)
	if errors.Is(err, port.ErrNotFound) {
		return domain.ProductReferenceStatus{}, nil
	}
	if err != nil {
		return domain.ProductReferenceStatus{}, err
	}
	return domain.ProductReferenceStatus{Exists: true, Active: p.IsActive}, nil
}
