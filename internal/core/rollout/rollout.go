// Package rollout provides the pure batching and planning functions for
// multi-domain deployments. Batch composition is a deterministic function of
// the domain list and the parallelism setting; no I/O happens here.
package rollout

import (
	"time"

	"github.com/edgeforge/edgeforge/internal/core/domain"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// DefaultParallelism is the batch size used when the caller does not
	// specify one.
	DefaultParallelism = 3

	// PerDomainEstimate is the fixed coarse estimate for deploying one
	// domain. The plan estimate is totalDomains times this value; it is not
	// measured from history.
	PerDomainEstimate = 5 * time.Minute
)

// =============================================================================
// Batching
// =============================================================================

// SplitBatches partitions domains into consecutive batches of at most
// parallelism entries; only the final batch may be smaller. Order within and
// across batches follows the input order. A parallelism of zero or less
// falls back to DefaultParallelism.
//
// Example:
//
//	SplitBatches([]string{"a", "b", "c", "d", "e"}, 2)
//	// [][]string{{"a", "b"}, {"c", "d"}, {"e"}}
func SplitBatches(domains []string, parallelism int) [][]string {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}

	var batches [][]string
	for start := 0; start < len(domains); start += parallelism {
		end := start + parallelism
		if end > len(domains) {
			end = len(domains)
		}
		batch := make([]string, end-start)
		copy(batch, domains[start:end])
		batches = append(batches, batch)
	}
	return batches
}

// =============================================================================
// Planning
// =============================================================================

// BuildPlan produces the batched execution plan for the given domains.
// Membership validation against the registry happens before this call; the
// plan itself is pure arithmetic over the already-validated list.
func BuildPlan(domains []string, parallelism int) domain.Plan {
	return domain.Plan{
		TotalDomains:      len(domains),
		Batches:           SplitBatches(domains, parallelism),
		Phases:            domain.DefaultPhases(),
		EstimatedDuration: time.Duration(len(domains)) * PerDomainEstimate,
	}
}
