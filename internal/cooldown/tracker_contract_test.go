package cooldown_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PhotocardBot_Go/internal/cooldown"
)

var epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// runTrackerContract exercises behavior every backend must share. newTracker
// must return an empty tracker on each call.
func runTrackerContract(t *testing.T, newTracker func(t *testing.T) cooldown.Tracker) {
	ctx := context.Background()

	t.Run("second reserve inside window is blocked", func(t *testing.T) {
		tr := newTracker(t)
		window := 300 * time.Second

		require.NoError(t, tr.CheckAndReserve(ctx, "claim:u1", window, epoch))

		err := tr.CheckAndReserve(ctx, "claim:u1", window, epoch.Add(time.Second))
		var cd cooldown.ErrOnCooldown
		require.True(t, errors.As(err, &cd), "got %v", err)
		assert.Equal(t, 299*time.Second, cd.Remaining)

		// Blocked attempt must not move the timestamp
		last, err := tr.LastAt(ctx, "claim:u1")
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.True(t, last.Equal(epoch))
	})

	t.Run("eligible exactly at window end", func(t *testing.T) {
		tr := newTracker(t)
		window := 900 * time.Second

		require.NoError(t, tr.CheckAndReserve(ctx, "channel:c1", window, epoch))
		assert.Error(t, tr.CheckAndReserve(ctx, "channel:c1", window, epoch.Add(899*time.Second)))
		assert.NoError(t, tr.CheckAndReserve(ctx, "channel:c1", window, epoch.Add(900*time.Second)))
	})

	t.Run("keys are independent", func(t *testing.T) {
		tr := newTracker(t)
		window := time.Minute

		require.NoError(t, tr.CheckAndReserve(ctx, "claim:a", window, epoch))
		assert.NoError(t, tr.CheckAndReserve(ctx, "claim:b", window, epoch))
	})

	t.Run("enforce records only on success", func(t *testing.T) {
		tr := newTracker(t)
		window := time.Minute
		boom := errors.New("boom")

		err := tr.Enforce(ctx, "claim:u2", window, epoch, func() error { return boom })
		assert.ErrorIs(t, err, boom)

		last, err := tr.LastAt(ctx, "claim:u2")
		require.NoError(t, err)
		assert.Nil(t, last, "failed action must not consume the cooldown")

		ran := false
		require.NoError(t, tr.Enforce(ctx, "claim:u2", window, epoch, func() error {
			ran = true
			return nil
		}))
		assert.True(t, ran)

		err = tr.Enforce(ctx, "claim:u2", window, epoch.Add(time.Second), func() error {
			t.Fatal("fn must not run while on cooldown")
			return nil
		})
		assert.ErrorIs(t, err, cooldown.ErrOnCooldown{})
	})

	t.Run("failed enforce restores the previous entry", func(t *testing.T) {
		tr := newTracker(t)
		window := time.Minute

		require.NoError(t, tr.CheckAndReserve(ctx, "claim:u3", window, epoch))
		later := epoch.Add(2 * time.Minute)
		err := tr.Enforce(ctx, "claim:u3", window, later, func() error { return errors.New("nope") })
		require.Error(t, err)

		last, err := tr.LastAt(ctx, "claim:u3")
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.True(t, last.Equal(epoch))
	})

	t.Run("remaining is read only", func(t *testing.T) {
		tr := newTracker(t)
		window := 10 * time.Second

		left, err := tr.Remaining(ctx, "channel:c2", window, epoch)
		require.NoError(t, err)
		assert.Zero(t, left)

		require.NoError(t, tr.CheckAndReserve(ctx, "channel:c2", window, epoch))
		left, err = tr.Remaining(ctx, "channel:c2", window, epoch.Add(4*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 6*time.Second, left)

		// Peeking did not reserve anything
		left, err = tr.Remaining(ctx, "channel:c3", window, epoch)
		require.NoError(t, err)
		assert.Zero(t, left)
		assert.NoError(t, tr.CheckAndReserve(ctx, "channel:c3", window, epoch))
	})

	t.Run("record never moves backward", func(t *testing.T) {
		tr := newTracker(t)

		require.NoError(t, tr.Record(ctx, "channel:c4", epoch.Add(time.Minute)))
		require.NoError(t, tr.Record(ctx, "channel:c4", epoch))

		last, err := tr.LastAt(ctx, "channel:c4")
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.True(t, last.Equal(epoch.Add(time.Minute)))
	})

	t.Run("reset clears the entry", func(t *testing.T) {
		tr := newTracker(t)
		window := time.Hour

		require.NoError(t, tr.CheckAndReserve(ctx, "daily:u4", window, epoch))
		require.NoError(t, tr.Reset(ctx, "daily:u4"))
		assert.NoError(t, tr.CheckAndReserve(ctx, "daily:u4", window, epoch.Add(time.Second)))
	})

	t.Run("invalid window", func(t *testing.T) {
		tr := newTracker(t)
		assert.ErrorIs(t, tr.CheckAndReserve(ctx, "claim:x", 0, epoch), cooldown.ErrInvalidWindow)
	})

	t.Run("concurrent reserves admit exactly one", func(t *testing.T) {
		tr := newTracker(t)
		window := 5 * time.Minute

		const callers = 20
		var admitted, blocked, failed atomic.Int32
		var wg sync.WaitGroup
		start := make(chan struct{})

		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				err := tr.Enforce(ctx, "claim:racer", window, epoch, func() error {
					time.Sleep(5 * time.Millisecond)
					return nil
				})
				switch {
				case err == nil:
					admitted.Add(1)
				case errors.Is(err, cooldown.ErrOnCooldown{}):
					blocked.Add(1)
				default:
					failed.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), admitted.Load())
		assert.Equal(t, int32(callers-1), blocked.Load())
		assert.Zero(t, failed.Load())
	})
}
