package drop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PhotocardBot_Go/internal/cooldown"
	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/event"
)

func TestClaim_ConcurrentUsersExactlyOneWinner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	rec, err := h.mgr.Spawn(ctx, "chan-1")
	require.NoError(t, err)

	const users = 25
	var wg sync.WaitGroup
	start := make(chan struct{})
	results := make(chan error, users)

	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := h.mgr.Claim(ctx, domain.ClaimAttempt{
				ChannelID: "chan-1",
				UserID:    fmt.Sprintf("user-%d", i),
				Slot:      i % len(rec.Options),
			})
			results <- err
		}(i)
	}
	close(start)
	wg.Wait()
	close(results)

	wins, notClaimable := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrNotClaimable):
			notClaimable++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, users-1, notClaimable)
	assert.Len(t, h.ledger.Commits(), 1)
	assert.Len(t, h.transport.Rejects(), users-1)
	assert.Equal(t, users-1, h.bus.Count(event.DropClaimRejected))
	assert.Equal(t, domain.DropClaimed, rec.Status())
}

func TestClaim_InvalidSlotRejectedBeforeCooldown(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	rec, err := h.mgr.Spawn(ctx, "chan-1")
	require.NoError(t, err)

	_, err = h.mgr.Claim(ctx, domain.ClaimAttempt{ChannelID: "chan-1", UserID: "u1", Slot: 7})
	assert.ErrorIs(t, err, domain.ErrInvalidSlot)
	assert.Equal(t, domain.DropOpen, rec.Status())

	last, err := h.cooldowns.LastAt(ctx, domain.ClaimCooldownKey("u1"))
	require.NoError(t, err)
	assert.Nil(t, last, "an invalid slot must not consume the claim cooldown")

	_, err = h.mgr.Claim(ctx, domain.ClaimAttempt{ChannelID: "chan-1", UserID: "u1", Slot: 0})
	assert.NoError(t, err)
}

func TestClaim_NoActiveDrop(t *testing.T) {
	h := newHarness(t)

	_, err := h.mgr.Claim(context.Background(), domain.ClaimAttempt{ChannelID: "nowhere", UserID: "u1", Slot: 0})
	assert.ErrorIs(t, err, domain.ErrNotClaimable)
	assert.Len(t, h.transport.Rejects(), 1)
}

func TestClaim_UserCooldown(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.mgr.Spawn(ctx, "chan-1")
	require.NoError(t, err)
	_, err = h.mgr.Claim(ctx, domain.ClaimAttempt{ChannelID: "chan-1", UserID: "u1", Slot: 0})
	require.NoError(t, err)

	second, err := h.mgr.Spawn(ctx, "chan-1")
	require.NoError(t, err)

	h.clock.Advance(10 * time.Second)
	_, err = h.mgr.Claim(ctx, domain.ClaimAttempt{ChannelID: "chan-1", UserID: "u1", Slot: 0})
	var cd cooldown.ErrOnCooldown
	require.ErrorAs(t, err, &cd)
	assert.Equal(t, DefaultUserCooldown-10*time.Second, cd.Remaining)
	assert.Equal(t, domain.DropOpen, second.Status(), "a user on cooldown must not touch the race")
	assert.Equal(t, 1, h.bus.Count(event.CooldownBlocked))

	remaining, err := h.mgr.ClaimCooldownRemaining(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, DefaultUserCooldown-10*time.Second, remaining)

	// Someone else can still take it
	_, err = h.mgr.Claim(ctx, domain.ClaimAttempt{ChannelID: "chan-1", UserID: "u2", Slot: 0})
	assert.NoError(t, err)
}

func TestClaim_LosingDoesNotConsumeCooldown(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	rec, err := h.mgr.Spawn(ctx, "chan-1")
	require.NoError(t, err)

	// A winner has flipped the status but not yet torn the drop down
	require.True(t, rec.transition(domain.DropClaimed))

	_, err = h.mgr.Claim(ctx, domain.ClaimAttempt{ChannelID: "chan-1", UserID: "loser", Slot: 0})
	require.ErrorIs(t, err, domain.ErrNotClaimable)

	last, err := h.cooldowns.LastAt(ctx, domain.ClaimCooldownKey("loser"))
	require.NoError(t, err)
	assert.Nil(t, last, "losing the race must not consume the claim cooldown")
	assert.Empty(t, h.ledger.Commits())
}

func TestClaim_LedgerFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.ledger.err = errors.New("ledger offline")

	rec, err := h.mgr.Spawn(ctx, "chan-1")
	require.NoError(t, err)

	outcome, err := h.mgr.Claim(ctx, domain.ClaimAttempt{ChannelID: "chan-1", UserID: "u1", Slot: 0})
	var ledgerErr *LedgerError
	require.ErrorAs(t, err, &ledgerErr)
	require.NotNil(t, outcome)
	assert.Equal(t, domain.DropClaimed, rec.Status())

	rejects := h.transport.Rejects()
	require.Len(t, rejects, 1)
	assert.ErrorAs(t, rejects[0], &ledgerErr)

	last, err := h.cooldowns.LastAt(ctx, domain.ClaimCooldownKey("u1"))
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestClaim_WhileClaimsAreOpening(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// The first reaction lands while the transport is still seeding slots
	var outcome *ClaimOutcome
	var claimErr error
	h.transport.onOpen = func(handle MessageHandle) {
		outcome, claimErr = h.mgr.Claim(ctx, domain.ClaimAttempt{
			ChannelID: handle.ChannelID,
			MessageID: handle.MessageID,
			UserID:    "early",
			Slot:      0,
		})
	}

	rec, err := h.mgr.Spawn(ctx, "chan-1")
	require.NoError(t, err)

	require.NoError(t, claimErr)
	require.NotNil(t, outcome)
	assert.Equal(t, "early", outcome.UserID)
	assert.Equal(t, domain.DropClaimed, rec.Status())
	assert.Empty(t, h.transport.Rejects())
	assert.Len(t, h.ledger.Commits(), 1)
	assert.Equal(t, 0, h.mgr.ActiveCount())
}

func TestClaim_CooldownNotRecordedKeepsWin(t *testing.T) {
	h := newHarnessWithTracker(t, unrecordedTracker{cooldown.NewMemoryTracker(cooldown.Config{})})
	ctx := context.Background()

	rec, err := h.mgr.Spawn(ctx, "chan-1")
	require.NoError(t, err)

	outcome, err := h.mgr.Claim(ctx, domain.ClaimAttempt{ChannelID: "chan-1", UserID: "u1", Slot: 1})
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, rec.Options[1], outcome.Card)
	assert.Equal(t, domain.DropClaimed, rec.Status())
	assert.Len(t, h.ledger.Commits(), 1)
	assert.Empty(t, h.transport.Rejects(), "the winner must not be told the claim failed")
}

func TestRequestSpawn_CooldownNotRecordedKeepsDrop(t *testing.T) {
	h := newHarnessWithTracker(t, unrecordedTracker{cooldown.NewMemoryTracker(cooldown.Config{})})

	rec, err := h.mgr.RequestSpawn(context.Background(), "chan-1", TriggerAuto)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, h.mgr.ActiveCount())
}

func TestConsume(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.mgr.Spawn(ctx, "chan-1")
	require.NoError(t, err)

	attempts := make(chan domain.ClaimAttempt)
	done := make(chan struct{})
	go func() {
		h.mgr.Consume(ctx, attempts)
		close(done)
	}()

	for i := 0; i < 5; i++ {
		attempts <- domain.ClaimAttempt{ChannelID: "chan-1", UserID: fmt.Sprintf("u%d", i), Slot: 0}
	}
	close(attempts)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Consume did not return after the stream closed")
	}

	assert.Len(t, h.ledger.Commits(), 1)
	assert.Len(t, h.transport.Rejects(), 4)
}
