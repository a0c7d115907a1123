package autospawn

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PhotocardBot_Go/internal/cooldown"
	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/drop"
	"github.com/osse101/PhotocardBot_Go/internal/rarity"
)

type MockSpawner struct {
	mock.Mock
}

func (m *MockSpawner) Active(channelID string) (*drop.Record, bool) {
	args := m.Called(channelID)
	rec, _ := args.Get(0).(*drop.Record)
	return rec, args.Bool(1)
}

func (m *MockSpawner) ChannelCooldownRemaining(ctx context.Context, channelID string) (time.Duration, error) {
	args := m.Called(ctx, channelID)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *MockSpawner) RequestSpawn(ctx context.Context, channelID string, trigger drop.Trigger) (*drop.Record, error) {
	args := m.Called(ctx, channelID, trigger)
	rec, _ := args.Get(0).(*drop.Record)
	return rec, args.Error(1)
}

// fixedRoller returns the same value every time
type fixedRoller float64

func (r fixedRoller) Float64() float64 { return float64(r) }

func TestJob_SkipsAndSpawns(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("cooling", "busy", "unlucky", "lucky", "broken")
	spawner := new(MockSpawner)

	spawner.On("ChannelCooldownRemaining", mock.Anything, "cooling").Return(5*time.Minute, nil)
	for _, ch := range []string{"busy", "unlucky", "lucky", "broken"} {
		spawner.On("ChannelCooldownRemaining", mock.Anything, ch).Return(time.Duration(0), nil)
	}
	spawner.On("Active", "busy").Return(&drop.Record{}, true)
	spawner.On("Active", mock.Anything).Return(nil, false)
	spawner.On("RequestSpawn", mock.Anything, "lucky", drop.TriggerAuto).Return(&drop.Record{}, nil)
	spawner.On("RequestSpawn", mock.Anything, "broken", drop.TriggerAuto).Return(nil, domain.ErrInsufficientCatalog)

	roller := &sequenceRoller{values: map[int]float64{}}
	job, err := NewJob(store, spawner, roller, 0.6)
	require.NoError(t, err)

	// Sorted order: broken, busy, cooling, lucky, unlucky. Rolls happen for
	// broken (1st), lucky (2nd), unlucky (3rd).
	roller.values[1] = 0.1
	roller.values[2] = 0.59
	roller.values[3] = 0.6

	sum, err := job.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, Summary{
		Checked:         5,
		SkippedCooldown: 1,
		SkippedActive:   1,
		SkippedRoll:     1,
		Spawned:         1,
		Failed:          1,
	}, sum)
	spawner.AssertNotCalled(t, "RequestSpawn", mock.Anything, "unlucky", mock.Anything)
	spawner.AssertNotCalled(t, "RequestSpawn", mock.Anything, "cooling", mock.Anything)
	spawner.AssertNotCalled(t, "RequestSpawn", mock.Anything, "busy", mock.Anything)
}

type sequenceRoller struct {
	n      int
	values map[int]float64
}

func (r *sequenceRoller) Float64() float64 {
	r.n++
	return r.values[r.n]
}

func TestJob_ChannelStoreFailure(t *testing.T) {
	job, err := NewJob(failingStore{}, new(MockSpawner), fixedRoller(0), 0.5)
	require.NoError(t, err)
	assert.Error(t, job.Process(context.Background()))
}

type failingStore struct{ ChannelStore }

func (failingStore) Channels(context.Context) ([]string, error) {
	return nil, errors.New("db down")
}

func TestNewJob_Probability(t *testing.T) {
	_, err := NewJob(NewMemoryStore(), new(MockSpawner), fixedRoller(0), 1.5)
	assert.ErrorIs(t, err, ErrInvalidProbability)
	_, err = NewJob(NewMemoryStore(), new(MockSpawner), fixedRoller(0), -0.1)
	assert.ErrorIs(t, err, ErrInvalidProbability)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("b")

	added, err := s.Enable(ctx, "a")
	require.NoError(t, err)
	assert.True(t, added)
	added, _ = s.Enable(ctx, "a")
	assert.False(t, added)

	ids, err := s.Channels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	removed, _ := s.Disable(ctx, "b")
	assert.True(t, removed)
	removed, _ = s.Disable(ctx, "b")
	assert.False(t, removed)
}

// Drives the job against a real drop manager on a fake clock: spawn at t=0,
// skip at t=899 because of the channel cooldown, spawn again at t=901.
func TestJob_ChannelCooldownScenario(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	mgr, err := drop.NewManager(drop.DefaultConfig(), drop.Deps{
		Catalog:   staticCatalog{},
		Ledger:    nopLedger{},
		Transport: nopTransport{},
		Selector:  rarity.NewDefaultSelector(rand.NewSource(1)),
		Cooldowns: cooldown.NewMemoryTracker(cooldown.Config{}),
		Clock:     clock,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Shutdown(context.Background()) })

	job, err := NewJob(NewMemoryStore("chan-1"), mgr, fixedRoller(0), DefaultProbability)
	require.NoError(t, err)

	sum, err := job.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, sum.Spawned)

	// Resolve the drop so only the cooldown can block the next tick
	_, err = mgr.OnClaim(ctx, domain.ClaimAttempt{ChannelID: "chan-1", UserID: "u1", Slot: 0})
	require.NoError(t, err)

	clock.Advance(899 * time.Second)
	sum, err = job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.SkippedCooldown)
	assert.Zero(t, sum.Spawned)

	clock.Advance(2 * time.Second)
	sum, err = job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Spawned)
}

type staticCatalog struct{}

func (staticCatalog) RandomCardOfTier(_ context.Context, tier domain.Rarity) (*domain.Card, error) {
	return &domain.Card{ID: int64(tier) + 1, Rarity: tier}, nil
}

func (staticCatalog) CardByID(_ context.Context, id int64) (*domain.Card, error) {
	return &domain.Card{ID: id}, nil
}

type nopLedger struct{}

func (nopLedger) CommitClaim(_ context.Context, userID string, card domain.Card) (*domain.Ownership, error) {
	return &domain.Ownership{UserID: userID, CardID: card.ID}, nil
}

type nopTransport struct{}

func (nopTransport) Post(context.Context, string, drop.Content) (drop.MessageHandle, error) {
	return drop.MessageHandle{MessageID: "m"}, nil
}

func (nopTransport) OpenClaims(context.Context, drop.MessageHandle, int) error { return nil }

func (nopTransport) Update(context.Context, drop.MessageHandle, drop.Content) error { return nil }

func (nopTransport) Reject(context.Context, domain.ClaimAttempt, error) error { return nil }
