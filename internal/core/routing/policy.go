// Package routing provides the pure routing-policy resolution for domains.
// Policies are derived from tiered defaults and recomputed on every call;
// nothing in this package is cached.
package routing

import (
	"time"

	"github.com/edgeforge/edgeforge/internal/core/domain"
)

// =============================================================================
// Tier Defaults
// =============================================================================

// Universal defaults applied to every policy regardless of tier.
const (
	DefaultTimeout = 30 * time.Second
	DefaultRetries = 3
)

// tierDefaults holds the per-tier routing parameters.
type tierDefaults struct {
	rateLimit  int
	cacheTTL   time.Duration
	strategies []string
}

var routingDefaults = map[domain.Tier]tierDefaults{
	domain.TierProduction: {
		rateLimit:  10000,
		cacheTTL:   86400 * time.Second,
		strategies: []string{"load-balance", "geo-route"},
	},
	domain.TierStaging: {
		rateLimit:  5000,
		cacheTTL:   3600 * time.Second,
		strategies: []string{"round-robin"},
	},
	domain.TierDevelopment: {
		rateLimit:  100,
		cacheTTL:   300 * time.Second,
		strategies: []string{"direct"},
	},
}

// =============================================================================
// Policy Resolution
// =============================================================================

// EnvironmentRouting resolves the routing policy for a domain within an
// environment tier. An unrecognized or empty tier falls back to the
// development-tier values; NormalizeTier lets callers detect and log that
// fallback before resolving.
//
// The returned policy is freshly built on every call: the strategy slice and
// header map are never shared between results.
func EnvironmentRouting(domainID string, tier domain.Tier) domain.RoutingPolicy {
	normalized := NormalizeTier(tier)
	defaults := routingDefaults[normalized]

	strategies := make([]string, len(defaults.strategies))
	copy(strategies, defaults.strategies)

	return domain.RoutingPolicy{
		Domain:           domainID,
		Tier:             normalized,
		RateLimit:        defaults.rateLimit,
		CacheTTL:         defaults.cacheTTL,
		Strategies:       strategies,
		Timeout:          DefaultTimeout,
		Retries:          DefaultRetries,
		AllowCrossOrigin: false,
		Headers:          map[string]string{},
	}
}

// NormalizeTier maps unrecognized tiers to the development tier, which
// carries the most restrictive defaults. Callers that want to surface a
// probable misconfiguration can compare the result with their input.
func NormalizeTier(tier domain.Tier) domain.Tier {
	if tier.Known() {
		return tier
	}
	return domain.TierDevelopment
}
