package store

import (
	"context"

	"github.com/edgeforge/edgeforge/internal/core/domain"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for deployment run history.
// The orchestrator core carries no persistent state itself; recording runs
// is an opt-in concern of the caller.
type Store interface {
	// Run operations
	CreateRun(ctx context.Context, run *domain.Run) error
	FinishRun(ctx context.Context, run *domain.Run) error
	GetRun(ctx context.Context, id string) (*domain.Run, error)
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)

	// Per-domain outcome operations
	AddRunTargets(ctx context.Context, runID string, targets []domain.RunTarget) error
	ListRunTargets(ctx context.Context, runID string) ([]domain.RunTarget, error)

	// Close releases the underlying connection.
	Close() error
}
