package domain

import (
	"encoding/json"
	"time"
)

// =============================================================================
// Deployment Run Results
// =============================================================================

// TargetSuccess records one domain that deployed successfully, together with
// whatever output the deploy operation returned.
type TargetSuccess struct {
	Domain string `json:"domain"`
	Output string `json:"output,omitempty"`
}

// TargetFailure records one domain whose deploy operation failed.
type TargetFailure struct {
	Domain string `json:"domain"`
	Err    error  `json:"-"`
}

// MarshalJSON renders the failure with the error flattened to its message.
func (f TargetFailure) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		Domain string `json:"domain"`
		Error  string `json:"error"`
	}{Domain: f.Domain, Error: msg})
}

// Result aggregates the outcome of one multi-domain deployment run.
// Successes and failures are ordered by batch, then by position within the
// batch, regardless of the order in which concurrent deploys settled.
type Result struct {
	Successful []TargetSuccess `json:"successful"`
	Failed     []TargetFailure `json:"failed"`
	Duration   time.Duration   `json:"duration"`
}

// =============================================================================
// Run History Records
// =============================================================================

// RunStatus is the recorded outcome for one domain within a stored run.
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the persisted record of one deployment run.
type Run struct {
	ID                string        `json:"id"`
	StartedAt         time.Time     `json:"started_at"`
	FinishedAt        *time.Time    `json:"finished_at,omitempty"`
	Duration          time.Duration `json:"duration"`
	TotalDomains      int           `json:"total_domains"`
	Succeeded         int           `json:"succeeded"`
	Failed            int           `json:"failed"`
	RollbackTriggered bool          `json:"rollback_triggered"`
}

// RunTarget is the persisted per-domain outcome of a stored run.
type RunTarget struct {
	RunID  string    `json:"run_id"`
	Domain string    `json:"domain"`
	Status RunStatus `json:"status"`
	Output string    `json:"output,omitempty"`
	Error  string    `json:"error,omitempty"`
}
