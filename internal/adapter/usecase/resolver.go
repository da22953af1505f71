package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

// degradedWarning is surfaced to clients whenever a read was served from the
// static fallback tier.
const degradedWarning = "catalog served from fallback data; availability may be limited"

// Resolver serves catalog reads across an ordered list of providers. The
// first tier to answer wins in full; there is no merging across tiers. Each
// tier call is bounded by tierTimeout so a hung store cannot keep the cascade
// from reaching the static tier.
type Resolver struct {
	providers   []port.CatalogProvider
	tierTimeout time.Duration
	logger      *slog.Logger
}

// NewResolver builds a resolver over the given providers, tried in order.
// The last provider is expected to be the static catalog, which cannot fail.
func NewResolver(logger *slog.Logger, tierTimeout time.Duration, providers ...port.CatalogProvider) *Resolver {
	if tierTimeout <= 0 {
		tierTimeout = 250 * time.Millisecond
	}
	return &Resolver{providers: providers, tierTimeout: tierTimeout, logger: logger}
}

// Resolve lists bundles from the first healthy tier. Filters are applied
// after tier selection so their semantics do not depend on which tier
// answered. The result always carries a tier tag; degraded tiers add a
// warning.
func (r *Resolver) Resolve(ctx context.Context, q domain.BundleQuery) domain.ResolvedCatalog {
	for _, p := range r.providers {
		bundles, err := r.listTier(ctx, p)
		if err != nil {
			r.logger.Warn("catalog tier unavailable, falling through",
				slog.String("tier", string(p.Tier())), slog.Any("error", err))
			continue
		}
		return r.tagged(p.Tier(), applyQuery(bundles, q))
	}
	// Unreachable when the static tier is wired last, since it cannot fail.
	return r.tagged(domain.TierStatic, nil)
}

// ResolveBundle looks one bundle up through the same cascade. A tier
// answering "not found" does not stop the cascade: a freshly authored bundle
// may not have synced into the primary store yet. Only when every tier has
// been consulted does the lookup fail with ErrNotFound.
func (r *Resolver) ResolveBundle(ctx context.Context, id string) (*domain.CampaignBundle, domain.SourceTier, error) {
	for _, p := range r.providers {
		b, err := r.getTier(ctx, p, id)
		switch {
		case err == nil:
			return b, p.Tier(), nil
		case errors.Is(err, port.ErrNotFound):
			continue
		default:
			r.logger.Warn("catalog tier unavailable, falling through",
				slog.String("tier", string(p.Tier())), slog.Any("error", err))
		}
	}
	return nil, domain.TierStatic, port.ErrNotFound
}

func (r *Resolver) listTier(ctx context.Context, p port.CatalogProvider) ([]domain.CampaignBundle, error) {
	ctx, cancel := context.WithTimeout(ctx, r.tierTimeout)
	defer cancel()
	return p.ListBundles(ctx)
}

func (r *Resolver) getTier(ctx context.Context, p port.CatalogProvider, id string) (*domain.CampaignBundle, error) {
	ctx, cancel := context.WithTimeout(ctx, r.tierTimeout)
	defer cancel()
	return p.GetBundle(ctx, id)
}

func (r *Resolver) tagged(tier domain.SourceTier, bundles []domain.CampaignBundle) domain.ResolvedCatalog {
	out := domain.ResolvedCatalog{Bundles: bundles, Source: tier}
	if domain.CachePolicyFor(tier).Degraded {
		out.Warning = degradedWarning
	}
	return out
}

// applyQuery applies storefront filters identically for every tier.
func applyQuery(bundles []domain.CampaignBundle, q domain.BundleQuery) []domain.CampaignBundle {
	out := make([]domain.CampaignBundle, 0, len(bundles))
	for _, b := range bundles {
		if !b.IsActive {
			continue
		}
		if q.Audience != "" && b.TargetAudience != q.Audience {
			continue
		}
		if q.FeaturedOnly && !b.IsFeatured {
			continue
		}
		out = append(out, b)
	}
	return out
}
