package domain

import "time"

// SourceTier identifies which backing store served a catalog read. Tiers are
// ranked by freshness and tried in strict order: primary, then authoring,
// then the in-process static set.
type SourceTier string

const (
	TierPrimary   SourceTier = "primary"
	TierAuthoring SourceTier = "authoring"
	TierStatic    SourceTier = "static"
)

// CachePolicy maps a source tier to the client cache lifetime and whether the
// response must carry a degraded-mode warning. It is a pure function of the
// tier.
type CachePolicy struct {
	MaxAge   time.Duration
	Degraded bool
}

// CachePolicyFor returns the cache policy for a tier. Fresh primary data may
// be cached for minutes; the static fallback only for seconds, and it is
// always flagged degraded so clients can show a limited-availability notice.
func CachePolicyFor(tier SourceTier) CachePolicy {
	switch tier {
	case TierPrimary:
		return CachePolicy{MaxAge: 5 * time.Minute}
	case TierAuthoring:
		return CachePolicy{MaxAge: time.Minute}
	default:
		return CachePolicy{MaxAge: 15 * time.Second, Degraded: true}
	}
}

// BundleQuery carries the storefront read filters. Filters are applied by the
// resolver after the serving tier is chosen, so semantics do not depend on
// which tier answered.
type BundleQuery struct {
	Audience     string
	FeaturedOnly bool
}

// ResolvedCatalog is the read-time wrapper around bundle data. Source names
// the tier that served it; Warning is non-empty only in degraded mode.
type ResolvedCatalog struct {
	Bundles []CampaignBundle
	Source  SourceTier
	Warning string
}
