package repository

import (
	"context"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

// Catalog defines the interface for card catalog persistence
type Catalog interface {
	CardsOfTier(ctx context.Context, tier domain.Rarity) ([]domain.Card, error)
	CardByID(ctx context.Context, id int64) (*domain.Card, error)
	ListCards(ctx context.Context) ([]domain.Card, error)
	CountByTier(ctx context.Context) (map[domain.Rarity]int, error)
	UpsertCards(ctx context.Context, cards []domain.Card) (int, error)
}
