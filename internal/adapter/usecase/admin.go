package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

// Admin covers the write surface of the bundle catalog.
type Admin struct {
	bundles   port.BundleRepository
	validator port.IntegrityValidator
	recalc    port.Recalculator
}

// NewAdmin builds the bundle write usecase.
func NewAdmin(bundles port.BundleRepository, validator port.IntegrityValidator, recalc port.Recalculator) *Admin {
	return &Admin{bundles: bundles, validator: validator, recalc: recalc}
}

// CreateBundle validates the payload and its product references, persists
// the bundle and computes its initial totals. Every referenced product must
// exist and be active at creation time.
func (a *Admin) CreateBundle(ctx context.Context, in port.NewBundle) (*domain.CampaignBundle, error) {
	if err := validateNewBundle(in); err != nil {
		return nil, err
	}

	refs := make([]domain.BundleProduct, 0, len(in.Products))
	for i, p := range in.Products {
		refs = append(refs, domain.BundleProduct{
			ProductID:    p.ProductID,
			Quantity:     p.Quantity,
			CustomPrice:  p.CustomPrice,
			IsRequired:   p.IsRequired,
			DisplayOrder: orderOrIndex(p.DisplayOrder, i),
		})
	}

	report, err := a.validator.Validate(ctx, "", refs)
	if err != nil {
		return nil, err
	}
	if !report.BundleHealthy {
		fields := make(map[string]string, len(report.Problems))
		for _, problem := range report.Problems {
			fields["products."+problem.ProductID] = problem.Reason
		}
		return nil, &port.ValidationError{Fields: fields}
	}

	now := time.Now().UTC()
	bundle := &domain.CampaignBundle{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Description:    in.Description,
		TargetAudience: in.TargetAudience,
		BudgetRange:    in.BudgetRange,
		IsActive:       true,
		IsFeatured:     in.IsFeatured,
		Tags:           in.Tags,
		Products:       refs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for i := range bundle.Products {
		bundle.Products[i].BundleID = bundle.ID
	}
	if err = a.bundles.CreateBundle(ctx, bundle); err != nil {
		return nil, err
	}

	totals, err := a.recalc.Recalculate(ctx, bundle.ID)
	if err != nil {
		return nil, fmt.Errorf("bundle %s created but totals not computed: %w", bundle.ID, err)
	}
	bundle.EstimatedTotal = totals.EstimatedTotal
	bundle.OriginalTotal = totals.OriginalTotal
	bundle.Savings = totals.Savings
	return bundle, nil
}

// DeleteBundle cascades to the bundle's references.
func (a *Admin) DeleteBundle(ctx context.Context, id string) error {
	return a.bundles.DeleteBundle(ctx, id)
}

func validateNewBundle(in port.NewBundle) error {
	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "required"
	}
	if len(in.Products) == 0 {
		fields["products"] = "at least one product is required"
	}
	seen := map[string]bool{}
	for i, p := range in.Products {
		key := fmt.Sprintf("products[%d]", i)
		if p.ProductID == "" {
			fields[key+".product_id"] = "required"
		}
		if p.Quantity <= 0 {
			fields[key+".quantity"] = "must be greater than zero"
		}
		if p.CustomPrice != nil && *p.CustomPrice < 0 {
			fields[key+".custom_price"] = "must not be negative"
		}
		if seen[p.ProductID] {
			fields[key+".product_id"] = "duplicate product"
		}
		seen[p.ProductID] = true
	}
	if len(fields) > 0 {
		return &port.ValidationError{Fields: fields}
	}
	return nil
}

func orderOrIndex(order, index int) int {
	if order > 0 {
		return order
	}
	return index + 1
}
