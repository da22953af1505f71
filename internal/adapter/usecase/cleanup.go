package usecase

import (
	"context"
	"log/slog"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

// Cleanup removes invalid references from a bundle. Only missing-classified
// references are eligible for automatic removal; inactive references are a
// business decision and stay in place until an admin lists them explicitly.
type Cleanup struct {
	bundles   port.BundleRepository
	validator port.IntegrityValidator
	recalc    port.Recalculator
	logger    *slog.Logger
}

// NewCleanup builds the orphan cleanup engine.
func NewCleanup(bundles port.BundleRepository, validator port.IntegrityValidator, recalc port.Recalculator, logger *slog.Logger) *Cleanup {
	return &Cleanup{bundles: bundles, validator: validator, recalc: recalc, logger: logger}
}

// Cleanup computes the removal set and, unless previewing, applies it.
// Every applied removal recalculates the bundle's totals before returning;
// the totals are never left stale relative to the reference set. Removing
// the last reference is allowed and zeroes the totals; the bundle's active
// flag is not touched.
func (c *Cleanup) Cleanup(ctx context.Context, bundleID string, opts port.CleanupOptions) (*port.CleanupResult, error) {
	var toRemove []string
	if len(opts.ExplicitIDs) > 0 {
		// The admin already decided; no classification pass.
		toRemove = opts.ExplicitIDs
	} else {
		report, err := c.validator.Validate(ctx, bundleID, nil)
		if err != nil {
			return nil, err
		}
		for _, problem := range report.Problems {
			if problem.State == domain.RefMissing {
				toRemove = append(toRemove, problem.ProductID)
			}
		}
	}

	result := &port.CleanupResult{BundleID: bundleID, Removed: toRemove}
	if result.Removed == nil {
		result.Removed = []string{}
	}

	apply := !opts.DryRun && (opts.AutoFix || len(opts.ExplicitIDs) > 0)
	if !apply {
		result.DryRun = true
		return result, nil
	}
	if len(toRemove) == 0 {
		return result, nil
	}

	removed, err := c.bundles.DeleteReferences(ctx, bundleID, toRemove)
	if err != nil {
		return nil, err
	}
	c.logger.Info("removed orphaned bundle references",
		slog.String("bundle_id", bundleID), slog.Int("count", removed))

	// Recalculation must observe the post-removal reference set.
	totals, err := c.recalc.Recalculate(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	result.Totals = &totals
	return result, nil
}
