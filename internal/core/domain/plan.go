package domain

import "time"

// =============================================================================
// Deployment Plans
// =============================================================================

// Phase labels one stage of the deployment pipeline. The phase list attached
// to a plan is descriptive: every run walks the same three phases.
type Phase string

const (
	PhaseValidation  Phase = "validation"
	PhasePreparation Phase = "preparation"
	PhaseDeployment  Phase = "deployment"
)

// DefaultPhases returns the fixed pipeline phases in execution order.
func DefaultPhases() []Phase {
	return []Phase{PhaseValidation, PhasePreparation, PhaseDeployment}
}

// Plan is a batched execution plan over a set of domains. Batches are
// dispatched one after another; the domains inside a batch deploy
// concurrently. A plan is immutable once produced.
type Plan struct {
	TotalDomains      int           `json:"total_domains"`
	Batches           [][]string    `json:"batches"`
	Phases            []Phase       `json:"phases"`
	EstimatedDuration time.Duration `json:"estimated_duration"`
}
