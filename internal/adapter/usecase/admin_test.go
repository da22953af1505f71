package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

func newAdmin(store *memStore) *Admin {
	validator := NewValidator(store, store)
	recalc := NewRecalculator(store, testLogger())
	return NewAdmin(store, validator, recalc)
}

func TestCreateBundlePersistsAndComputesTotals(t *testing.T) {
	store := newMemStore()
	store.addProduct(domain.Product{ID: "tee", BasePrice: 1400, IsActive: true})
	store.addProduct(domain.Product{ID: "flag", BasePrice: 60, IsActive: true})

	bundle, err := newAdmin(store).CreateBundle(context.Background(), port.NewBundle{
		Name:           "Parade Pack",
		TargetAudience: "events",
		Products: []port.NewBundleProduct{
			{ProductID: "tee", Quantity: 10, CustomPrice: priceOf(1200)},
			{ProductID: "flag", Quantity: 50},
		},
	})
	require.NoError(t, err)

	require.NotEmpty(t, bundle.ID)
	require.True(t, bundle.IsActive)
	// 1200x10 + 60x50
	require.EqualValues(t, 15000, bundle.EstimatedTotal)
	require.Equal(t, bundle.Savings, bundle.OriginalTotal-bundle.EstimatedTotal)

	stored, err := store.GetBundle(context.Background(), bundle.ID)
	require.NoError(t, err)
	require.Len(t, stored.Products, 2)
	require.EqualValues(t, 15000, stored.EstimatedTotal)
}

func TestCreateBundleRejectsUnresolvableProducts(t *testing.T) {
	store := newMemStore()
	store.addProduct(domain.Product{ID: "retired", IsActive: false})

	_, err := newAdmin(store).CreateBundle(context.Background(), port.NewBundle{
		Name: "Bad Bundle",
		Products: []port.NewBundleProduct{
			{ProductID: "ghost", Quantity: 1},
			{ProductID: "retired", Quantity: 1},
		},
	})

	var verr *port.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "products.ghost")
	require.Contains(t, verr.Fields, "products.retired")
}

func TestCreateBundleRejectsBadInput(t *testing.T) {
	_, err := newAdmin(newMemStore()).CreateBundle(context.Background(), port.NewBundle{
		Products: []port.NewBundleProduct{{ProductID: "p", Quantity: 0}},
	})

	var verr *port.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "name")
	require.Contains(t, verr.Fields, "products[0].quantity")
}

func TestDeleteBundle(t *testing.T) {
	store := newMemStore()
	store.addBundle(domain.CampaignBundle{ID: "b1", IsActive: true})
	admin := newAdmin(store)

	require.NoError(t, admin.DeleteBundle(context.Background(), "b1"))
	require.ErrorIs(t, admin.DeleteBundle(context.Background(), "b1"), port.ErrNotFound)
}
