package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerSet_FiresAtDeadline(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ts := NewTimerSet("test", clock)
	ctx := context.Background()

	var fired atomic.Int32
	require.NoError(t, ts.Schedule(ctx, uuid.New(), 45*time.Second, func() { fired.Add(1) }))

	clock.Advance(44 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, fired.Load())
	assert.Equal(t, 1, ts.Pending())

	clock.Advance(time.Second)
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)
	assert.Eventually(t, func() bool { return ts.Pending() == 0 }, time.Second, time.Millisecond)
}

func TestTimerSet_Cancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ts := NewTimerSet("test", clock)
	ctx := context.Background()
	id := uuid.New()

	var fired atomic.Int32
	require.NoError(t, ts.Schedule(ctx, id, time.Second, func() { fired.Add(1) }))
	assert.True(t, ts.Cancel(id))
	assert.False(t, ts.Cancel(id))

	clock.Advance(time.Minute)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestTimerSet_RescheduleReplaces(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ts := NewTimerSet("test", clock)
	ctx := context.Background()
	id := uuid.New()

	var first, second atomic.Int32
	require.NoError(t, ts.Schedule(ctx, id, time.Second, func() { first.Add(1) }))
	require.NoError(t, ts.Schedule(ctx, id, 2*time.Second, func() { second.Add(1) }))

	clock.Advance(3 * time.Second)
	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, time.Millisecond)
	assert.Zero(t, first.Load())
}

func TestTimerSet_Shutdown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ts := NewTimerSet("test", clock)
	ctx := context.Background()

	var fired atomic.Int32
	require.NoError(t, ts.Schedule(ctx, uuid.New(), time.Second, func() { fired.Add(1) }))

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, ts.Shutdown(shutdownCtx))

	clock.Advance(time.Minute)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, fired.Load())
	assert.ErrorIs(t, ts.Schedule(ctx, uuid.New(), time.Second, func() {}), ErrTimersStopped)
}
