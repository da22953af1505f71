package usecase

import (
	"context"
	"sync"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

// memStore is an in-memory stand-in for the primary store, implementing both
// port.BundleRepository and port.ProductRepository so bundle references and
// product rows stay consistent across a test.
type memStore struct {
	mu       sync.Mutex
	bundles  map[string]*domain.CampaignBundle
	refs     map[string][]domain.BundleProduct
	products map[string]domain.Product

	listErr   error
	pricedErr error
	pingErr   error

	updateTotalsCalls int
	deleteRefsCalls   int
}

func newMemStore() *memStore {
	return &memStore{
		bundles:  map[string]*domain.CampaignBundle{},
		refs:     map[string][]domain.BundleProduct{},
		products: map[string]domain.Product{},
	}
}

func (s *memStore) addBundle(b domain.CampaignBundle, refs ...domain.BundleProduct) {
	bundle := b
	s.bundles[b.ID] = &bundle
	s.refs[b.ID] = refs
}

func (s *memStore) addProduct(p domain.Product) {
	s.products[p.ID] = p
}

func (s *memStore) Tier() domain.SourceTier { return domain.TierPrimary }

func (s *memStore) ListBundles(_ context.Context) ([]domain.CampaignBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.CampaignBundle, 0, len(s.bundles))
	for _, b := range s.bundles {
		bundle := *b
		bundle.Products = s.refs[b.ID]
		out = append(out, bundle)
	}
	return out, nil
}

func (s *memStore) GetBundle(_ context.Context, id string) (*domain.CampaignBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	b, ok := s.bundles[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	bundle := *b
	bundle.Products = s.refs[id]
	return &bundle, nil
}

func (s *memStore) CreateBundle(_ context.Context, b *domain.CampaignBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bundle := *b
	s.bundles[b.ID] = &bundle
	s.refs[b.ID] = b.Products
	return nil
}

func (s *memStore) DeleteBundle(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bundles[id]; !ok {
		return port.ErrNotFound
	}
	delete(s.bundles, id)
	delete(s.refs, id)
	return nil
}

func (s *memStore) UpsertBundle(_ context.Context, b *domain.CampaignBundle) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.bundles[b.ID]
	bundle := *b
	s.bundles[b.ID] = &bundle
	s.refs[b.ID] = b.Products
	return !exists, nil
}

func (s *memStore) ListReferences(_ context.Context, bundleID string) ([]domain.BundleProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.BundleProduct(nil), s.refs[bundleID]...), nil
}

func (s *memStore) ListPricedReferences(_ context.Context, bundleID string) ([]domain.PricedReference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pricedErr != nil {
		return nil, s.pricedErr
	}
	var out []domain.PricedReference
	for _, ref := range s.refs[bundleID] {
		p, ok := s.products[ref.ProductID]
		if !ok {
			continue
		}
		price := p.BasePrice
		if ref.CustomPrice != nil {
			price = *ref.CustomPrice
		}
		out = append(out, domain.PricedReference{ProductID: ref.ProductID, Quantity: ref.Quantity, UnitPrice: price})
	}
	return out, nil
}

func (s *memStore) DeleteReferences(_ context.Context, bundleID string, productIDs []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteRefsCalls++
	drop := map[string]bool{}
	for _, id := range productIDs {
		drop[id] = true
	}
	var kept []domain.BundleProduct
	removed := 0
	for _, ref := range s.refs[bundleID] {
		if drop[ref.ProductID] {
			removed++
			continue
		}
		kept = append(kept, ref)
	}
	s.refs[bundleID] = kept
	return removed, nil
}

func (s *memStore) UpdateTotals(_ context.Context, bundleID string, totals domain.BundleTotals) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bundles[bundleID]
	if !ok {
		return port.ErrNotFound
	}
	s.updateTotalsCalls++
	b.EstimatedTotal = totals.EstimatedTotal
	b.OriginalTotal = totals.OriginalTotal
	b.Savings = totals.Savings
	return nil
}

func (s *memStore) Ping(_ context.Context) error { return s.pingErr }

func (s *memStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) GetProducts(_ context.Context, ids []string) (map[string]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]domain.Product{}
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *memStore) UpsertProduct(_ context.Context, p domain.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.products[p.ID]
	s.products[p.ID] = p
	return !exists, nil
}

func (s *memStore) UpsertCategory(_ context.Context, c domain.Category) (bool, error) {
	return true, nil
}

// fakeProvider is a scriptable catalog tier for resolver tests.
type fakeProvider struct {
	tier    domain.SourceTier
	bundles []domain.CampaignBundle
	err     error
	// block makes calls hang until the context is cancelled, to exercise
	// the per-tier timeout.
	block bool
	calls int
}

func (p *fakeProvider) Tier() domain.SourceTier { return p.tier }

func (p *fakeProvider) ListBundles(ctx context.Context) ([]domain.CampaignBundle, error) {
	p.calls++
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.bundles, nil
}

func (p *fakeProvider) GetBundle(ctx context.Context, id string) (*domain.CampaignBundle, error) {
	p.calls++
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	for _, b := range p.bundles {
		if b.ID == id {
			bundle := b
			return &bundle, nil
		}
	}
	return nil, port.ErrNotFound
}

// fakeAuthoring is a scriptable authoring store for sync tests.
type fakeAuthoring struct {
	fakeProvider

	products   []domain.Product
	categories []domain.Category

	pingErr        error
	listProductErr error

	// pingStarted/pingRelease let a test hold a run inside its health
	// check to exercise global run serialization.
	pingStarted chan struct{}
	pingRelease chan struct{}

	productCalls int
}

func newFakeAuthoring() *fakeAuthoring {
	return &fakeAuthoring{fakeProvider: fakeProvider{tier: domain.TierAuthoring}}
}

func (a *fakeAuthoring) ListProducts(_ context.Context) ([]domain.Product, error) {
	a.productCalls++
	if a.listProductErr != nil {
		return nil, a.listProductErr
	}
	return a.products, nil
}

func (a *fakeAuthoring) ListCategories(_ context.Context) ([]domain.Category, error) {
	return a.categories, nil
}

func (a *fakeAuthoring) Ping(_ context.Context) error {
	if a.pingStarted != nil {
		a.pingStarted <- struct{}{}
	}
	if a.pingRelease != nil {
		<-a.pingRelease
	}
	return a.pingErr
}

// fakeSyncRuns records sync run lifecycle calls in memory.
type fakeSyncRuns struct {
	mu   sync.Mutex
	runs []domain.SyncRun
}

func (f *fakeSyncRuns) Create(_ context.Context, run *domain.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeSyncRuns) Finalize(_ context.Context, run *domain.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.runs {
		if f.runs[i].ID == run.ID {
			f.runs[i] = *run
			return nil
		}
	}
	return port.ErrNotFound
}

func (f *fakeSyncRuns) Latest(_ context.Context) (*domain.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.runs) == 0 {
		return nil, port.ErrNotFound
	}
	run := f.runs[len(f.runs)-1]
	return &run, nil
}

func (f *fakeSyncRuns) List(_ context.Context, limit int) ([]domain.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.SyncRun, 0, len(f.runs))
	for i := len(f.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.runs[i])
	}
	return out, nil
}
