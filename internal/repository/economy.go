package repository

import (
	"context"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

// Economy defines the interface for balances and owned cards. Every method is
// atomic on its own; multi-row changes run in one transaction.
type Economy interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
	Credit(ctx context.Context, userID string, amount int64) (int64, error)
	CommitClaim(ctx context.Context, userID string, card domain.Card) (*domain.Ownership, error)
	// PurchasePack debits price and grants cards. It fails with
	// domain.ErrInsufficientFunds without changing anything.
	PurchasePack(ctx context.Context, userID string, price int64, cards []domain.Card) ([]domain.Ownership, int64, error)
	// SellCard removes one copy of the card and credits price. It fails with
	// domain.ErrCardNotOwned when the user has none.
	SellCard(ctx context.Context, userID string, cardID int64, price int64) (int64, error)
	Leaderboard(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error)
	Collection(ctx context.Context, userID string) ([]domain.CollectionEntry, error)
	// TransferCard moves one copy from one user to another in a single
	// transaction. It fails with domain.ErrCardNotOwned when the sender has none.
	TransferCard(ctx context.Context, fromUserID, toUserID string, cardID int64) (*domain.Ownership, error)
	OwnedCount(ctx context.Context, userID string, cardID int64) (int, error)
	Inventory(ctx context.Context, userID string) (*domain.Inventory, error)
}
