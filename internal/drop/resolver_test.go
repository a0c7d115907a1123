package drop

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

func testRecord() *Record {
	return newRecord("chan-1", []domain.Card{
		{ID: 1, Rarity: domain.RarityCommon},
		{ID: 2, Rarity: domain.RarityRare},
		{ID: 3, Rarity: domain.RarityLegendary},
	}, epoch, 45*time.Second)
}

func TestResolve_Winner(t *testing.T) {
	rec := testRecord()

	card, err := Resolve(rec, domain.ClaimAttempt{ChannelID: "chan-1", UserID: "u1", Slot: 2, At: epoch.Add(time.Second)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), card.ID)
	assert.Equal(t, domain.DropClaimed, rec.Status())

	_, err = Resolve(rec, domain.ClaimAttempt{UserID: "u2", Slot: 0, At: epoch.Add(2 * time.Second)})
	assert.ErrorIs(t, err, domain.ErrNotClaimable)
}

func TestResolve_InvalidSlotDoesNotRace(t *testing.T) {
	for _, slot := range []int{-1, 3, 99} {
		rec := testRecord()
		_, err := Resolve(rec, domain.ClaimAttempt{Slot: slot, At: epoch})
		assert.ErrorIs(t, err, domain.ErrInvalidSlot, "slot %d", slot)
		assert.Equal(t, domain.DropOpen, rec.Status(), "slot %d must not touch the status", slot)
	}
}

func TestResolve_AtDeadlineIsNotClaimable(t *testing.T) {
	rec := testRecord()

	_, err := Resolve(rec, domain.ClaimAttempt{Slot: 0, At: rec.ExpiresAt})
	assert.ErrorIs(t, err, domain.ErrNotClaimable)
	assert.Equal(t, domain.DropOpen, rec.Status())

	_, err = Resolve(rec, domain.ClaimAttempt{Slot: 0, At: rec.ExpiresAt.Add(-time.Nanosecond)})
	assert.NoError(t, err)
}

func TestResolve_AfterExpiry(t *testing.T) {
	rec := testRecord()
	require.True(t, rec.transition(domain.DropExpired))

	_, err := Resolve(rec, domain.ClaimAttempt{Slot: 0, At: epoch})
	assert.ErrorIs(t, err, domain.ErrNotClaimable)
	assert.Equal(t, domain.DropExpired, rec.Status())
}

func TestResolve_ConcurrentAttemptsAdmitOne(t *testing.T) {
	for run := 0; run < 20; run++ {
		rec := testRecord()

		const attempts = 32
		var wg sync.WaitGroup
		start := make(chan struct{})
		results := make(chan error, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				_, err := Resolve(rec, domain.ClaimAttempt{UserID: "u", Slot: i % 3, At: epoch})
				results <- err
			}(i)
		}
		close(start)
		wg.Wait()
		close(results)

		wins, losses := 0, 0
		for err := range results {
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domain.ErrNotClaimable):
				losses++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		require.Equal(t, 1, wins)
		require.Equal(t, attempts-1, losses)
	}
}

func TestRecord_TerminalTransitionsAreExclusive(t *testing.T) {
	rec := testRecord()
	assert.True(t, rec.transition(domain.DropExpired))
	assert.False(t, rec.transition(domain.DropClaimed))
	assert.False(t, rec.transition(domain.DropExpired))
	assert.Equal(t, domain.DropExpired, rec.Status())
}

func TestRecord_HighestRarity(t *testing.T) {
	assert.Equal(t, domain.RarityLegendary, testRecord().HighestRarity())
	assert.Equal(t, []string{"Common", "Rare", "Legendary"}, testRecord().Rarities())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	first := testRecord()
	second := testRecord()

	assert.True(t, reg.Register(first))
	assert.False(t, reg.Register(second), "one live drop per channel")
	assert.Equal(t, 1, reg.Len())

	got, ok := reg.Get("chan-1")
	require.True(t, ok)
	assert.Same(t, first, got)

	assert.False(t, reg.Remove(second), "removing a stale record must not evict the live one")
	assert.True(t, reg.Remove(first))
	assert.Zero(t, reg.Len())

	assert.True(t, reg.Register(second))
	assert.Len(t, reg.Snapshot(), 1)
}
