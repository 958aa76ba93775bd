package failover

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// DefaultStrategy Tests
// =============================================================================

func TestDefaultStrategy(t *testing.T) {
	strategy := DefaultStrategy("a.example.com")

	assert.Equal(t, "a.example.com", strategy.Domain)
	assert.True(t, strategy.AutoFailover)
	assert.Equal(t, 30*time.Second, strategy.HealthCheckInterval)
	assert.Equal(t, "/health", strategy.HealthCheckPath)
	assert.Equal(t, 3, strategy.FailureThreshold)
	assert.Equal(t, 5, strategy.MaxRetries)
	assert.True(t, strategy.RollbackOnFailure)
	assert.Empty(t, strategy.PrimaryEndpoint)
	assert.Empty(t, strategy.SecondaryEndpoints)
}

// =============================================================================
// BuildStrategy Tests
// =============================================================================

func TestBuildStrategy_NilOverride(t *testing.T) {
	strategy := BuildStrategy("a.example.com", nil)

	assert.Equal(t, DefaultStrategy("a.example.com"), strategy)
}

func TestBuildStrategy_FullOverride(t *testing.T) {
	strategy := BuildStrategy("a.example.com", map[string]any{
		"autoFailover":        false,
		"healthCheckInterval": float64(60000),
		"healthCheckPath":     "/status",
		"failureThreshold":    float64(5),
		"maxRetries":          float64(10),
		"rollbackOnFailure":   false,
		"primaryEndpoint":     "https://primary.example.com",
		"secondaryEndpoints":  []any{"https://a.backup.example.com", "https://b.backup.example.com"},
	})

	assert.False(t, strategy.AutoFailover)
	assert.Equal(t, 60*time.Second, strategy.HealthCheckInterval)
	assert.Equal(t, "/status", strategy.HealthCheckPath)
	assert.Equal(t, 5, strategy.FailureThreshold)
	assert.Equal(t, 10, strategy.MaxRetries)
	assert.False(t, strategy.RollbackOnFailure)
	assert.Equal(t, "https://primary.example.com", strategy.PrimaryEndpoint)
	assert.Equal(t, []string{"https://a.backup.example.com", "https://b.backup.example.com"}, strategy.SecondaryEndpoints)
}

func TestBuildStrategy_PartialOverrideKeepsDefaults(t *testing.T) {
	strategy := BuildStrategy("a.example.com", map[string]any{
		"maxRetries": float64(8),
	})

	assert.Equal(t, 8, strategy.MaxRetries)
	assert.True(t, strategy.AutoFailover)
	assert.Equal(t, "/health", strategy.HealthCheckPath)
	assert.Equal(t, 3, strategy.FailureThreshold)
}

func TestBuildStrategy_YAMLIntegerShape(t *testing.T) {
	// Decoded YAML carries numbers as int rather than float64.
	strategy := BuildStrategy("a.example.com", map[string]any{
		"healthCheckInterval": 15000,
		"failureThreshold":    2,
	})

	assert.Equal(t, 15*time.Second, strategy.HealthCheckInterval)
	assert.Equal(t, 2, strategy.FailureThreshold)
}

func TestBuildStrategy_WrongTypesIgnored(t *testing.T) {
	strategy := BuildStrategy("a.example.com", map[string]any{
		"autoFailover":       "nope",
		"maxRetries":         "many",
		"secondaryEndpoints": []any{"ok", 42},
	})

	// Unusable values fall back to defaults rather than corrupting the strategy.
	assert.Equal(t, DefaultStrategy("a.example.com"), strategy)
}

func TestBuildStrategy_StringSliceShape(t *testing.T) {
	strategy := BuildStrategy("a.example.com", map[string]any{
		"secondaryEndpoints": []string{"https://x.example.com"},
	})

	assert.Equal(t, []string{"https://x.example.com"}, strategy.SecondaryEndpoints)
}
