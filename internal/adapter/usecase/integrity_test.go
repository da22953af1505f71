package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"rallygoods/internal/core/domain"
)

func TestValidateClassifiesReferences(t *testing.T) {
	store := newMemStore()
	store.addProduct(domain.Product{ID: "p1", BasePrice: 100, IsActive: true})
	store.addProduct(domain.Product{ID: "p3", BasePrice: 300, IsActive: false})
	store.addBundle(domain.CampaignBundle{ID: "b1", IsActive: true},
		domain.BundleProduct{BundleID: "b1", ProductID: "p1", Quantity: 2},
		domain.BundleProduct{BundleID: "b1", ProductID: "p2", Quantity: 1}, // deleted elsewhere
		domain.BundleProduct{BundleID: "b1", ProductID: "p3", Quantity: 4},
	)

	v := NewValidator(store, store)
	report, err := v.Validate(context.Background(), "b1", nil)
	require.NoError(t, err)

	require.False(t, report.BundleHealthy)
	require.Len(t, report.Valid, 1)
	require.Equal(t, "p1", report.Valid[0].ProductID)

	require.Len(t, report.Problems, 2)
	states := map[string]domain.ReferenceState{}
	for _, p := range report.Problems {
		states[p.ProductID] = p.State
	}
	require.Equal(t, domain.RefMissing, states["p2"])
	require.Equal(t, domain.RefInactive, states["p3"])
}

func TestValidateHealthyBundle(t *testing.T) {
	store := newMemStore()
	store.addProduct(domain.Product{ID: "p1", IsActive: true})
	store.addBundle(domain.CampaignBundle{ID: "b1", IsActive: true},
		domain.BundleProduct{BundleID: "b1", ProductID: "p1", Quantity: 1})

	report, err := NewValidator(store, store).Validate(context.Background(), "b1", nil)
	require.NoError(t, err)
	require.True(t, report.BundleHealthy)
	require.Empty(t, report.Problems)
}

func TestValidateCandidateReferences(t *testing.T) {
	store := newMemStore()
	store.addProduct(domain.Product{ID: "p1", IsActive: true})
	// Bundle has no stored references: the candidate list is what gets
	// checked, before anything is persisted.
	store.addBundle(domain.CampaignBundle{ID: "b1", IsActive: true})

	candidates := []domain.BundleProduct{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "ghost", Quantity: 1},
	}
	report, err := NewValidator(store, store).Validate(context.Background(), "b1", candidates)
	require.NoError(t, err)
	require.Len(t, report.Valid, 1)
	require.Len(t, report.Problems, 1)
	require.Equal(t, "ghost", report.Problems[0].ProductID)
}

func TestValidateProductReference(t *testing.T) {
	store := newMemStore()
	store.addProduct(domain.Product{ID: "active", IsActive: true})
	store.addProduct(domain.Product{ID: "retired", IsActive: false})
	v := NewValidator(store, store)

	status, err := v.ValidateProductReference(context.Background(), "active")
	require.NoError(t, err)
	require.True(t, status.Exists)
	require.True(t, status.Active)

	status, err = v.ValidateProductReference(context.Background(), "retired")
	require.NoError(t, err)
	require.True(t, status.Exists)
	require.False(t, status.Active)

	status, err = v.ValidateProductReference(context.Background(), "ghost")
	require.NoError(t, err)
	require.False(t, status.Exists)
	require.False(t, status.Active)
}
