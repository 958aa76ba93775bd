package rollout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edgeforge/edgeforge/internal/core/domain"
)

// =============================================================================
// SplitBatches Tests
// =============================================================================

func TestSplitBatches_EvenAndRemainder(t *testing.T) {
	batches := SplitBatches([]string{"a", "b", "c", "d", "e"}, 2)

	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, batches)
}

func TestSplitBatches_ExactMultiple(t *testing.T) {
	batches := SplitBatches([]string{"a", "b", "c", "d"}, 2)

	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, batches)
}

func TestSplitBatches_SingleBatch(t *testing.T) {
	batches := SplitBatches([]string{"a", "b"}, 5)

	assert.Equal(t, [][]string{{"a", "b"}}, batches)
}

func TestSplitBatches_Empty(t *testing.T) {
	assert.Empty(t, SplitBatches(nil, 3))
}

func TestSplitBatches_DefaultParallelism(t *testing.T) {
	batches := SplitBatches([]string{"a", "b", "c", "d"}, 0)

	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d"}}, batches)
}

func TestSplitBatches_CopiesInput(t *testing.T) {
	domains := []string{"a", "b", "c"}
	batches := SplitBatches(domains, 2)

	domains[0] = "mutated"

	assert.Equal(t, "a", batches[0][0])
}

// =============================================================================
// BuildPlan Tests
// =============================================================================

func TestBuildPlan(t *testing.T) {
	plan := BuildPlan([]string{"a", "b", "c", "d", "e"}, 2)

	assert.Equal(t, 5, plan.TotalDomains)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, plan.Batches)
	assert.Equal(t, []domain.Phase{
		domain.PhaseValidation,
		domain.PhasePreparation,
		domain.PhaseDeployment,
	}, plan.Phases)
	assert.Equal(t, 25*time.Minute, plan.EstimatedDuration)
}

func TestBuildPlan_EmptyDomains(t *testing.T) {
	plan := BuildPlan(nil, 3)

	assert.Equal(t, 0, plan.TotalDomains)
	assert.Empty(t, plan.Batches)
	assert.Equal(t, time.Duration(0), plan.EstimatedDuration)
	assert.Len(t, plan.Phases, 3)
}
