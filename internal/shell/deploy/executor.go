// Package deploy executes batched multi-domain deployments. The actual
// per-domain deploy mechanism is supplied by the caller; the executor only
// schedules it batch by batch and aggregates the outcomes.
package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/edgeforge/edgeforge/internal/core/domain"
	"github.com/edgeforge/edgeforge/internal/core/rollout"
)

// =============================================================================
// Deploy Operation
// =============================================================================

// Func is the externally supplied deploy operation for a single domain.
// It is opaque to the executor and carries its own timeout if one is needed:
// the executor applies none of its own.
type Func func(ctx context.Context, domainID string) (string, error)

// =============================================================================
// Options
// =============================================================================

// Options configures one deployment run.
type Options struct {
	// Parallelism bounds how many domains deploy concurrently within one
	// batch. Zero or less falls back to rollout.DefaultParallelism.
	Parallelism int

	// RollbackOnError escalates any per-domain failure: when set, a run with
	// a non-empty failed list returns a *RollbackError alongside the result
	// instead of resolving silently. The compensating actions themselves are
	// the caller's responsibility.
	RollbackOnError bool
}

// =============================================================================
// Errors
// =============================================================================

// RollbackError signals that at least one domain failed in a run with
// rollback escalation enabled.
type RollbackError struct {
	Failed []string
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("deployment failed for %d domain(s), rollback required: %s",
		len(e.Failed), strings.Join(e.Failed, ", "))
}

// =============================================================================
// Executor
// =============================================================================

// Executor runs batched deployments: batches are processed strictly one
// after another, and within a batch every domain deploys concurrently. The
// batch boundary is a synchronization point — the executor waits for every
// member of the current batch to settle before looking at results or
// dispatching the next batch.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates a deployment executor.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{logger: logger.With("component", "executor")}
}

// Execute deploys every domain in order using the supplied deploy operation.
//
// Failures accumulate rather than abort: a failing domain never cancels its
// batch siblings, and later batches still run. The result orders successes
// and failures by batch position, not by completion time. When
// opts.RollbackOnError is set and anything failed, the result is returned
// together with a *RollbackError.
//
// Cancellation is honored only at batch boundaries: a dispatched batch
// always runs to completion, and a context error stops further batches and
// is returned alongside the partial result.
func (e *Executor) Execute(ctx context.Context, domains []string, deployFn Func, opts Options) (*domain.Result, error) {
	start := time.Now()
	result := &domain.Result{}

	batches := rollout.SplitBatches(domains, opts.Parallelism)
	e.logger.Info("starting deployment run",
		"domains", len(domains),
		"batches", len(batches),
	)

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, fmt.Errorf("deployment run interrupted before batch %d: %w", i+1, err)
		}

		e.runBatch(ctx, batch, deployFn, result)
		e.logger.Debug("batch settled",
			"batch", i+1,
			"succeeded", len(result.Successful),
			"failed", len(result.Failed),
		)
	}

	result.Duration = time.Since(start)

	if opts.RollbackOnError && len(result.Failed) > 0 {
		failed := make([]string, 0, len(result.Failed))
		for _, f := range result.Failed {
			failed = append(failed, f.Domain)
		}
		return result, &RollbackError{Failed: failed}
	}

	e.logger.Info("deployment run finished",
		"succeeded", len(result.Successful),
		"failed", len(result.Failed),
		"duration", result.Duration,
	)
	return result, nil
}

// batchOutcome holds one domain's settled outcome inside a batch.
type batchOutcome struct {
	domain string
	output string
	err    error
}

// runBatch deploys every member of one batch concurrently and appends the
// settled outcomes to the result in batch order. Each goroutine writes only
// its own slot, so no lock is needed for collection.
func (e *Executor) runBatch(ctx context.Context, batch []string, deployFn Func, result *domain.Result) {
	outcomes := make([]batchOutcome, len(batch))
	var wg sync.WaitGroup

	for i, id := range batch {
		wg.Add(1)
		go func(slot int, domainID string) {
			defer wg.Done()
			output, err := deployFn(ctx, domainID)
			outcomes[slot] = batchOutcome{domain: domainID, output: output, err: err}
		}(i, id)
	}
	wg.Wait()

	for _, outcome := range outcomes {
		if outcome.err != nil {
			e.logger.Warn("domain deployment failed",
				"domain", outcome.domain,
				"error", outcome.err,
			)
			result.Failed = append(result.Failed, domain.TargetFailure{
				Domain: outcome.domain,
				Err:    outcome.err,
			})
			continue
		}
		result.Successful = append(result.Successful, domain.TargetSuccess{
			Domain: outcome.domain,
			Output: outcome.output,
		})
	}
}
