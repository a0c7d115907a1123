package economy

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

// MockRepository implements repository.Economy for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CommitClaim(ctx context.Context, userID string, card domain.Card) (*domain.Ownership, error) {
	args := m.Called(ctx, userID, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ownership), args.Error(1)
}

func (m *MockRepository) PurchasePack(ctx context.Context, userID string, price int64, cards []domain.Card) ([]domain.Ownership, int64, error) {
	args := m.Called(ctx, userID, price, cards)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Ownership), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) SellCard(ctx context.Context, userID string, cardID int64, price int64) (int64, error) {
	args := m.Called(ctx, userID, cardID, price)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Leaderboard(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

func (m *MockRepository) Collection(ctx context.Context, userID string) ([]domain.CollectionEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CollectionEntry), args.Error(1)
}

func (m *MockRepository) TransferCard(ctx context.Context, fromUserID, toUserID string, cardID int64) (*domain.Ownership, error) {
	args := m.Called(ctx, fromUserID, toUserID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ownership), args.Error(1)
}

func (m *MockRepository) OwnedCount(ctx context.Context, userID string, cardID int64) (int, error) {
	args := m.Called(ctx, userID, cardID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Inventory(ctx context.Context, userID string) (*domain.Inventory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

// tierCards serves one card per stocked tier
type tierCards map[domain.Rarity]domain.Card

func (c tierCards) RandomCardOfTier(_ context.Context, tier domain.Rarity) (*domain.Card, error) {
	card, ok := c[tier]
	if !ok {
		return nil, domain.ErrCardNotFound
	}
	return &card, nil
}

func (c tierCards) CardByID(_ context.Context, id int64) (*domain.Card, error) {
	for _, card := range c {
		if card.ID == id {
			return &card, nil
		}
	}
	return nil, domain.ErrCardNotFound
}

// fixedRandom returns the same draws every time
type fixedRandom struct {
	f float64
	i int
}

func (r fixedRandom) Float64() float64 { return r.f }

func (r fixedRandom) Intn(n int) int {
	if r.i >= n {
		return n - 1
	}
	return r.i
}
