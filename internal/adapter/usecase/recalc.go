package usecase

import (
	"context"
	"log/slog"
	"sync"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

// assumedDiscountPercent backs the original-total fallback: when a bundle has
// no stored full-price baseline, the original total is derived by assuming
// the estimated total already reflects this discount. A placeholder business
// rule; an explicit list-price column should replace it.
const assumedDiscountPercent = 15

// Recalculator recomputes a bundle's derived monetary totals from its
// current valid references. Concurrent recalculation of the same bundle is
// serialized through a per-bundle mutex so two requests cannot interleave
// their read-modify-write of the stored totals.
type Recalculator struct {
	bundles port.BundleRepository
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRecalculator builds the totals recalculator.
func NewRecalculator(bundles port.BundleRepository, logger *slog.Logger) *Recalculator {
	return &Recalculator{
		bundles: bundles,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (r *Recalculator) lockFor(bundleID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[bundleID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[bundleID] = l
	}
	return l
}

// Recalculate recomputes and overwrites the bundle's totals. It is
// idempotent: with no intervening writes, consecutive calls store and return
// identical totals. An empty bundle zeroes all totals.
func (r *Recalculator) Recalculate(ctx context.Context, bundleID string) (domain.BundleTotals, error) {
	l := r.lockFor(bundleID)
	l.Lock()
	defer l.Unlock()

	refs, err := r.bundles.ListPricedReferences(ctx, bundleID)
	if err != nil {
		return domain.BundleTotals{}, err
	}

	var totals domain.BundleTotals
	if len(refs) > 0 {
		for _, ref := range refs {
			totals.EstimatedTotal += ref.Subtotal()
		}
		stored, err := r.bundles.GetBundle(ctx, bundleID)
		if err != nil {
			return domain.BundleTotals{}, err
		}
		totals.OriginalTotal = stored.OriginalTotal
		if totals.OriginalTotal <= 0 {
			totals.OriginalTotal = fallbackOriginalTotal(totals.EstimatedTotal)
		}
		totals.Savings = max(0, totals.OriginalTotal-totals.EstimatedTotal)
	}

	if err := r.bundles.UpdateTotals(ctx, bundleID, totals); err != nil {
		return domain.BundleTotals{}, err
	}
	return totals, nil
}

// RecalculateMany recalculates each listed bundle, isolating per-bundle
// failures: one bundle's store error never aborts its siblings, and the
// caller receives the full success/failure breakdown.
func (r *Recalculator) RecalculateMany(ctx context.Context, bundleIDs []string) []port.RecalcResult {
	results := make([]port.RecalcResult, 0, len(bundleIDs))
	for _, id := range bundleIDs {
		res := port.RecalcResult{BundleID: id}
		totals, err := r.Recalculate(ctx, id)
		if err != nil {
			res.Err = err.Error()
			r.logger.Error("bundle recalculation failed",
				slog.String("bundle_id", id), slog.Any("error", err))
		} else {
			res.Totals = &totals
		}
		results = append(results, res)
	}
	return results
}

// fallbackOriginalTotal derives a full-price baseline from the discounted
// estimate, assuming assumedDiscountPercent was applied.
func fallbackOriginalTotal(estimated int64) int64 {
	return estimated * 100 / (100 - assumedDiscountPercent)
}
