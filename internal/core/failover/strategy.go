// Package failover computes per-domain failover strategies by merging
// defaults with override blocks from the deploy configuration. All functions
// are pure; memoization is the registry's responsibility.
package failover

import (
	"time"

	"github.com/edgeforge/edgeforge/internal/core/domain"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	DefaultHealthCheckInterval = 30 * time.Second
	DefaultHealthCheckPath     = "/health"
	DefaultFailureThreshold    = 3
	DefaultMaxRetries          = 5
)

// DefaultStrategy returns the failover defaults applied to every domain
// before per-domain overrides.
func DefaultStrategy(domainID string) domain.FailoverStrategy {
	return domain.FailoverStrategy{
		Domain:              domainID,
		AutoFailover:        true,
		HealthCheckInterval: DefaultHealthCheckInterval,
		HealthCheckPath:     DefaultHealthCheckPath,
		FailureThreshold:    DefaultFailureThreshold,
		MaxRetries:          DefaultMaxRetries,
		RollbackOnFailure:   true,
	}
}

// =============================================================================
// Strategy Construction
// =============================================================================

// BuildStrategy merges the defaults with a per-domain override block from
// the deploy configuration. The override block may be nil. Interval values
// are accepted in milliseconds, matching the configuration format.
func BuildStrategy(domainID string, override map[string]any) domain.FailoverStrategy {
	strategy := DefaultStrategy(domainID)
	if override == nil {
		return strategy
	}

	if v, ok := asBool(override["autoFailover"]); ok {
		strategy.AutoFailover = v
	}
	if v, ok := asMillis(override["healthCheckInterval"]); ok {
		strategy.HealthCheckInterval = v
	}
	if v, ok := asString(override["healthCheckPath"]); ok {
		strategy.HealthCheckPath = v
	}
	if v, ok := asInt(override["failureThreshold"]); ok {
		strategy.FailureThreshold = v
	}
	if v, ok := asInt(override["maxRetries"]); ok {
		strategy.MaxRetries = v
	}
	if v, ok := asBool(override["rollbackOnFailure"]); ok {
		strategy.RollbackOnFailure = v
	}
	if v, ok := asString(override["primaryEndpoint"]); ok {
		strategy.PrimaryEndpoint = v
	}
	if v, ok := asStringSlice(override["secondaryEndpoints"]); ok {
		strategy.SecondaryEndpoints = v
	}

	return strategy
}

// =============================================================================
// Coercion Helpers
// =============================================================================

// Decoded JSON carries numbers as float64 and decoded YAML as int, so both
// shapes are accepted here.

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func asMillis(v any) (time.Duration, bool) {
	n, ok := asInt(v)
	if !ok {
		return 0, false
	}
	return time.Duration(n) * time.Millisecond, true
}

func asStringSlice(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
