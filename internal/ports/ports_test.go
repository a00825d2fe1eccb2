package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockChecker implements HealthChecker for testing.
type mockChecker struct {
	name string
	err  error
}

func (m *mockChecker) Name() string {
	return m.name
}

func (m *mockChecker) Check(ctx context.Context) error {
	return m.err
}

func TestNewHealthRegistry(t *testing.T) {
	registry := NewHealthRegistry()

	require.NotNil(t, registry)
	assert.Empty(t, registry.checkers)
	assert.Equal(t, defaultCheckTimeout, registry.timeout)
}

func TestRegister_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&mockChecker{name: "quote-service"}))

	err := registry.Register(&mockChecker{name: "quote-service"})

	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "quote-service")
	assert.Len(t, registry.checkers, 1)
}

func TestCheckAll_NoCheckers(t *testing.T) {
	result := NewHealthRegistry().CheckAll(context.Background())

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.Empty(t, result.Checks)
	assert.False(t, result.Timestamp.IsZero())
}

func TestCheckAll_OneUnhealthy(t *testing.T) {
	registry := NewHealthRegistry()
	require.NoError(t, registry.Register(&mockChecker{name: "quote-service"}))
	require.NoError(t, registry.Register(&mockChecker{name: "discord-gateway", err: errors.New("not connected")}))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Len(t, result.Checks, 2)
	assert.Equal(t, HealthStatusHealthy, result.Checks["quote-service"].Status)
	assert.Empty(t, result.Checks["quote-service"].Message)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["discord-gateway"].Status)
	assert.Equal(t, "not connected", result.Checks["discord-gateway"].Message)
}

// slowChecker blocks until its context is done or the delay passes.
type slowChecker struct {
	name  string
	delay time.Duration
}

func (c *slowChecker) Name() string {
	return c.name
}

func (c *slowChecker) Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.delay):
		return nil
	}
}

func TestCheckAll_ContextCancelled(t *testing.T) {
	registry := NewHealthRegistry()
	require.NoError(t, registry.Register(&slowChecker{name: "quote-service", delay: 100 * time.Millisecond}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["quote-service"].Message, "context canceled")
}

func TestCheckAll_PerCheckTimeout(t *testing.T) {
	registry := NewHealthRegistry()
	registry.timeout = 20 * time.Millisecond
	require.NoError(t, registry.Register(&slowChecker{name: "hung", delay: time.Second}))
	require.NoError(t, registry.Register(&mockChecker{name: "fine"}))

	start := time.Now()
	result := registry.CheckAll(context.Background())

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["hung"].Status)
	assert.Contains(t, result.Checks["hung"].Message, "deadline exceeded")
	assert.Equal(t, HealthStatusHealthy, result.Checks["fine"].Status)
}
