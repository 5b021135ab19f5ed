package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewController_Disabled(t *testing.T) {
	c := NewController(Config{})
	assert.Nil(t, c)

	// nil controllers admit everything
	require.NoError(t, c.Wait(context.Background()))
	assert.True(t, c.Allow())
	require.NoError(t, c.AcquireEntities(1<<40))
	assert.Zero(t, c.InFlight())
	c.ReleaseEntities(10)
	release, err := c.Admit(context.Background(), 100)
	require.NoError(t, err)
	release()
}

func TestController_Entities(t *testing.T) {
	c := NewController(Config{MaxInFlightEntities: 100})

	require.NoError(t, c.AcquireEntities(50))
	assert.Equal(t, int64(50), c.InFlight())

	require.NoError(t, c.AcquireEntities(40))
	assert.Equal(t, int64(90), c.InFlight())

	// limit exceeded
	assert.ErrorIs(t, c.AcquireEntities(20), ErrBudgetExceeded)
	assert.Equal(t, int64(90), c.InFlight())

	c.ReleaseEntities(50)
	assert.Equal(t, int64(40), c.InFlight())

	require.NoError(t, c.AcquireEntities(20))
	assert.Equal(t, int64(60), c.InFlight())

	// larger than the whole budget
	c.ReleaseEntities(60)
	assert.ErrorIs(t, c.AcquireEntities(101), ErrBudgetExceeded)
}

func TestController_Folds(t *testing.T) {
	c := NewController(Config{MaxConcurrentFolds: 2})

	require.NoError(t, c.AcquireFold(t.Context()))
	require.NoError(t, c.AcquireFold(t.Context()))
	assert.False(t, c.TryAcquireFold())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireFold(ctx), context.DeadlineExceeded)

	c.ReleaseFold()
	assert.True(t, c.TryAcquireFold())
}

func TestController_Admit(t *testing.T) {
	c := NewController(Config{MaxConcurrentFolds: 1, MaxInFlightEntities: 10})

	release, err := c.Admit(t.Context(), 8)
	require.NoError(t, err)
	assert.Equal(t, int64(8), c.InFlight())
	assert.False(t, c.TryAcquireFold())
	release()

	// budget failure gives the fold slot back
	_, err = c.Admit(t.Context(), 11)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	assert.True(t, c.TryAcquireFold())
	c.ReleaseFold()
	assert.Zero(t, c.InFlight())
}

func TestController_Rate(t *testing.T) {
	c := NewController(Config{RequestsPerSecond: 1, Burst: 2})

	assert.True(t, c.Allow())
	assert.True(t, c.Allow())
	assert.False(t, c.Allow())

	// the next token is about a second away
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.Wait(ctx))
}
