package domain

import "time"

// =============================================================================
// Routing Policy
// =============================================================================

// RoutingPolicy holds the routing parameters for a domain within one
// environment tier. Policies are derived values: they are recomputed on
// every request and must not be mutated by callers.
type RoutingPolicy struct {
	Domain           string            `json:"domain"`
	Tier             Tier              `json:"tier"`
	RateLimit        int               `json:"rate_limit"`
	CacheTTL         time.Duration     `json:"cache_ttl"`
	Strategies       []string          `json:"strategies"`
	Timeout          time.Duration     `json:"timeout"`
	Retries          int               `json:"retries"`
	AllowCrossOrigin bool              `json:"allow_cross_origin"`
	Headers          map[string]string `json:"headers"`
}

// =============================================================================
// Failover Strategy
// =============================================================================

// FailoverStrategy is the per-domain policy governing automatic switch to
// secondary endpoints after repeated health-check failures.
//
// Strategies are memoized per registry instance: resolving the same domain
// twice on one registry returns the identical pointer, so callers must treat
// the value as an immutable cached singleton. There is no invalidation path;
// construct a new registry to pick up configuration changes.
type FailoverStrategy struct {
	Domain              string        `json:"domain"`
	AutoFailover        bool          `json:"auto_failover"`
	HealthCheckInterval time.Duration `json:"health_check_interval"`
	HealthCheckPath     string        `json:"health_check_path"`
	FailureThreshold    int           `json:"failure_threshold"`
	MaxRetries          int           `json:"max_retries"`
	RollbackOnFailure   bool          `json:"rollback_on_failure"`
	PrimaryEndpoint     string        `json:"primary_endpoint,omitempty"`
	SecondaryEndpoints  []string      `json:"secondary_endpoints,omitempty"`
}
