package registry

import (
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/edgeforge/edgeforge/internal/core/domain"
	"github.com/edgeforge/edgeforge/internal/core/failover"
	"github.com/edgeforge/edgeforge/internal/core/rollout"
)

// =============================================================================
// Constants
// =============================================================================

// DomainsEnvVar is the environment variable holding a comma-separated list
// of domain identifiers. Its contents are always merged into detection,
// regardless of what the deploy configuration declares.
const DomainsEnvVar = "EDGEFORGE_DOMAINS"

// =============================================================================
// Registry
// =============================================================================

// Registry owns the detected domain set and the memoized failover
// strategies for one deploy configuration. Detection state and the strategy
// cache live and die with the instance: reloading configuration means
// constructing a new Registry.
type Registry struct {
	cfg    *domain.Config
	logger *slog.Logger

	domains []string

	// Guards the strategy cache so the identical-pointer guarantee holds
	// under concurrent readers.
	mu         sync.Mutex
	strategies map[string]*domain.FailoverStrategy
}

// New creates a registry over a deploy configuration and runs detection.
// cfg may be nil: the environment override is still honored, and every
// domain then gets default failover behavior.
func New(cfg *domain.Config, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		cfg:        cfg,
		logger:     logger.With("component", "registry"),
		strategies: map[string]*domain.FailoverStrategy{},
	}
	r.DetectDomains()
	return r
}

// =============================================================================
// Domain Detection
// =============================================================================

// DetectDomains rebuilds the detected domain set from the configuration and
// the environment override, replacing any previous detection result.
//
// Candidates come from three sources merged into one deduplicating set: the
// flat domains list, every tier of the tier-mapped domains form, and the
// comma-separated DomainsEnvVar value. Domains declared under any tier are
// included — detection is tier-inclusive, and tier-specific policy is
// applied later by routing and selection, not here.
//
// The result is lexicographically sorted, so processing order downstream is
// deterministic.
func (r *Registry) DetectDomains() []string {
	seen := map[string]struct{}{}

	if r.cfg != nil {
		for _, entry := range domain.FlattenDomainEntries(r.cfg.Domains) {
			if id, ok := entry.Value.(string); ok && id != "" {
				seen[id] = struct{}{}
			}
		}
	}

	if raw := os.Getenv(DomainsEnvVar); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				seen[id] = struct{}{}
			}
		}
	}

	detected := make([]string, 0, len(seen))
	for id := range seen {
		detected = append(detected, id)
	}
	sort.Strings(detected)

	r.domains = detected
	r.logger.Debug("detected domains", "count", len(detected))

	return r.Domains()
}

// Domains returns a copy of the currently detected domain set.
func (r *Registry) Domains() []string {
	out := make([]string, len(r.domains))
	copy(out, r.domains)
	return out
}

// Contains reports whether a domain identifier is in the detected set.
func (r *Registry) Contains(id string) bool {
	for _, d := range r.domains {
		if d == id {
			return true
		}
	}
	return false
}

// =============================================================================
// Domain Selection
// =============================================================================

// SelectDomain resolves the domain to operate on. A non-empty specific
// domain must be a member of the detected set; an empty one selects the
// first detected domain.
func (r *Registry) SelectDomain(specific string) (string, error) {
	if specific != "" {
		if !r.Contains(specific) {
			return "", &UnknownDomainsError{Domains: []string{specific}}
		}
		return specific, nil
	}
	if len(r.domains) == 0 {
		return "", ErrNoDomains
	}
	return r.domains[0], nil
}

// Target returns the full target record for a domain identifier, including
// any endpoint and account attributes from its override block.
func (r *Registry) Target(id string) (domain.Target, error) {
	if !r.Contains(id) {
		return domain.Target{}, &UnknownDomainsError{Domains: []string{id}}
	}

	target := domain.Target{ID: id}
	if r.cfg == nil {
		return target, nil
	}
	block, ok := r.cfg.Overrides[id]
	if !ok {
		return target, nil
	}

	if v, ok := block["accountId"].(string); ok {
		target.AccountID = v
	}
	if v, ok := block["primaryEndpoint"].(string); ok {
		target.PrimaryEndpoint = v
	}
	switch list := block["secondaryEndpoints"].(type) {
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				target.SecondaryEndpoints = append(target.SecondaryEndpoints, s)
			}
		}
	case []string:
		target.SecondaryEndpoints = append(target.SecondaryEndpoints, list...)
	}
	return target, nil
}

// =============================================================================
// Failover Strategies
// =============================================================================

// FailoverStrategy resolves the failover strategy for a domain.
//
// The strategy is computed on first request by merging defaults with the
// domain's override block, then memoized for the life of the registry:
// repeated calls for the same domain return the identical pointer, and
// callers may rely on that reference equality. There is no invalidation —
// construct a new registry after a configuration change.
func (r *Registry) FailoverStrategy(id string) *domain.FailoverStrategy {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.strategies[id]; ok {
		return cached
	}

	var override map[string]any
	if r.cfg != nil {
		override = r.cfg.Overrides[id]
	}
	strategy := failover.BuildStrategy(id, override)
	r.strategies[id] = &strategy

	return &strategy
}

// =============================================================================
// Planning
// =============================================================================

// Plan builds a batched deployment plan over the given domains, validated
// against the detected set. A nil or empty list plans across every detected
// domain. If any identifier is unknown the whole call fails with an
// UnknownDomainsError naming every offender; no partial plan is produced.
func (r *Registry) Plan(domainIDs []string, parallelism int) (domain.Plan, error) {
	if len(domainIDs) == 0 {
		domainIDs = r.Domains()
	}

	var unknown []string
	for _, id := range domainIDs {
		if !r.Contains(id) {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return domain.Plan{}, &UnknownDomainsError{Domains: unknown}
	}

	return rollout.BuildPlan(domainIDs, parallelism), nil
}
