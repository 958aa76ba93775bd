package deploy

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

func okDeploy(ctx context.Context, domainID string) (string, error) {
	return "deployed " + domainID, nil
}

func failFor(failing ...string) Func {
	return func(ctx context.Context, domainID string) (string, error) {
		for _, f := range failing {
			if f == domainID {
				return "", errors.New("deploy rejected: " + domainID)
			}
		}
		return "deployed " + domainID, nil
	}
}

// =============================================================================
// Execute Tests
// =============================================================================

func TestExecute_AllSucceed(t *testing.T) {
	executor := NewExecutor(nil)

	result, err := executor.Execute(context.Background(),
		[]string{"a.com", "b.com", "c.com"}, okDeploy, Options{Parallelism: 2})

	require.NoError(t, err)
	require.Len(t, result.Successful, 3)
	assert.Empty(t, result.Failed)
	assert.Equal(t, "a.com", result.Successful[0].Domain)
	assert.Equal(t, "deployed a.com", result.Successful[0].Output)
	assert.GreaterOrEqual(t, result.Duration, time.Duration(0))
}

func TestExecute_PartialFailureResolves(t *testing.T) {
	executor := NewExecutor(nil)

	result, err := executor.Execute(context.Background(),
		[]string{"x.com", "y.com", "z.com"}, failFor("y.com"), Options{Parallelism: 3})

	// A partial failure does not abort the run.
	require.NoError(t, err)
	assert.Len(t, result.Successful, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "y.com", result.Failed[0].Domain)
	assert.ErrorContains(t, result.Failed[0].Err, "y.com")
}

func TestExecute_ResultsOrderedByBatchPosition(t *testing.T) {
	executor := NewExecutor(nil)

	// Later domains finish first, but results stay in dispatch order.
	deployFn := func(ctx context.Context, domainID string) (string, error) {
		if domainID == "a.com" {
			time.Sleep(20 * time.Millisecond)
		}
		return "ok", nil
	}

	result, err := executor.Execute(context.Background(),
		[]string{"a.com", "b.com", "c.com"}, deployFn, Options{Parallelism: 3})

	require.NoError(t, err)
	domains := make([]string, 0, len(result.Successful))
	for _, s := range result.Successful {
		domains = append(domains, s.Domain)
	}
	assert.Equal(t, []string{"a.com", "b.com", "c.com"}, domains)
}

func TestExecute_FailingSiblingDoesNotAbortBatch(t *testing.T) {
	executor := NewExecutor(nil)
	var completed atomic.Int32

	deployFn := func(ctx context.Context, domainID string) (string, error) {
		if domainID == "a.com" {
			return "", errors.New("boom")
		}
		time.Sleep(10 * time.Millisecond)
		completed.Add(1)
		return "ok", nil
	}

	result, err := executor.Execute(context.Background(),
		[]string{"a.com", "b.com", "c.com"}, deployFn, Options{Parallelism: 3})

	require.NoError(t, err)
	assert.Equal(t, int32(2), completed.Load())
	assert.Len(t, result.Successful, 2)
	assert.Len(t, result.Failed, 1)
}

func TestExecute_ConcurrencyBoundedByParallelism(t *testing.T) {
	executor := NewExecutor(nil)

	var mu sync.Mutex
	active, peak := 0, 0

	deployFn := func(ctx context.Context, domainID string) (string, error) {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		return "ok", nil
	}

	_, err := executor.Execute(context.Background(),
		[]string{"a", "b", "c", "d", "e", "f", "g"}, deployFn, Options{Parallelism: 2})

	require.NoError(t, err)
	assert.LessOrEqual(t, peak, 2)
}

func TestExecute_BatchesAreSequential(t *testing.T) {
	executor := NewExecutor(nil)

	var mu sync.Mutex
	var order []string

	deployFn := func(ctx context.Context, domainID string) (string, error) {
		mu.Lock()
		order = append(order, domainID)
		mu.Unlock()
		return "ok", nil
	}

	_, err := executor.Execute(context.Background(),
		[]string{"a", "b", "c", "d"}, deployFn, Options{Parallelism: 2})
	require.NoError(t, err)

	// The second batch must not start before the first settles, so both
	// first-batch domains appear before any second-batch domain.
	require.Len(t, order, 4)
	firstBatch := map[string]bool{order[0]: true, order[1]: true}
	assert.True(t, firstBatch["a"])
	assert.True(t, firstBatch["b"])
}

func TestExecute_RollbackOnErrorEscalates(t *testing.T) {
	executor := NewExecutor(nil)

	result, err := executor.Execute(context.Background(),
		[]string{"x.com", "y.com", "z.com"}, failFor("y.com"),
		Options{Parallelism: 2, RollbackOnError: true})

	// The run must signal failure rather than silently returning a result
	// with a non-empty failed list. The result still comes back for
	// inspection.
	require.Error(t, err)
	var rollbackErr *RollbackError
	require.ErrorAs(t, err, &rollbackErr)
	assert.Equal(t, []string{"y.com"}, rollbackErr.Failed)
	require.NotNil(t, result)
	assert.Len(t, result.Successful, 2)
}

func TestExecute_RollbackOnErrorNoFailures(t *testing.T) {
	executor := NewExecutor(nil)

	result, err := executor.Execute(context.Background(),
		[]string{"x.com", "y.com"}, okDeploy,
		Options{Parallelism: 2, RollbackOnError: true})

	require.NoError(t, err)
	assert.Len(t, result.Successful, 2)
}

func TestExecute_EmptyDomainList(t *testing.T) {
	executor := NewExecutor(nil)

	result, err := executor.Execute(context.Background(), nil, okDeploy, Options{})

	require.NoError(t, err)
	assert.Empty(t, result.Successful)
	assert.Empty(t, result.Failed)
}

func TestExecute_ContextCancelledBetweenBatches(t *testing.T) {
	executor := NewExecutor(nil)
	ctx, cancel := context.WithCancel(context.Background())

	deployFn := func(ctx context.Context, domainID string) (string, error) {
		cancel() // cancel during the first batch
		return "ok", nil
	}

	result, err := executor.Execute(ctx,
		[]string{"a", "b", "c", "d"}, deployFn, Options{Parallelism: 2})

	// The dispatched batch runs to completion; later batches do not start.
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Len(t, result.Successful, 2)
}
