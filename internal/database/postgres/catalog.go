package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

// CatalogRepository implements repository.Catalog for PostgreSQL
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// CardsOfTier returns every card of a rarity tier
func (r *CatalogRepository) CardsOfTier(ctx context.Context, tier domain.Rarity) ([]domain.Card, error) {
	return queryCards(ctx, r.db, SQLSelectCardsOfTier, tier.String())
}

// CardByID returns a card or an error wrapping domain.ErrCardNotFound
func (r *CatalogRepository) CardByID(ctx context.Context, id int64) (*domain.Card, error) {
	card, err := scanCard(r.db.QueryRow(ctx, SQLSelectCardByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", domain.ErrCardNotFound, id)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetCard, err)
	}
	return &card, nil
}

// ListCards returns the whole catalog ordered by id
func (r *CatalogRepository) ListCards(ctx context.Context) ([]domain.Card, error) {
	return queryCards(ctx, r.db, SQLSelectAllCards)
}

// CountByTier counts cards per rarity. Tiers without cards are present with zero.
func (r *CatalogRepository) CountByTier(ctx context.Context) (map[domain.Rarity]int, error) {
	rows, err := r.db.Query(ctx, SQLCountByTier)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCountTiers, err)
	}
	defer rows.Close()

	counts := make(map[domain.Rarity]int, domain.RarityCount)
	for _, tier := range domain.Rarities {
		counts[tier] = 0
	}
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCountTiers, err)
		}
		tier, err := domain.ParseRarity(name)
		if err != nil {
			return nil, err
		}
		counts[tier] = n
	}
	return counts, rows.Err()
}

// UpsertCards inserts cards or updates them by card number, in one transaction
func (r *CatalogRepository) UpsertCards(ctx context.Context, cards []domain.Card) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	batch := &pgx.Batch{}
	for _, c := range cards {
		batch.Queue(SQLUpsertCard, c.Number, c.Group, c.Member, c.Era, c.Rarity.String(), c.ImagePath, c.Series)
	}
	br := tx.SendBatch(ctx, batch)
	for range cards {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return 0, fmt.Errorf("%s: %w", ErrMsgFailedToUpsertCards, err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToUpsertCards, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	logger.FromContext(ctx).Info(LogMsgCardsUpserted, "count", len(cards))
	return len(cards), nil
}

func queryCards(ctx context.Context, q querier, sql string, args ...any) ([]domain.Card, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryCards, err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryCards, err)
	}
	return cards, nil
}

func scanCard(row pgx.Row) (domain.Card, error) {
	var c domain.Card
	var rarity string
	if err := row.Scan(&c.ID, &c.Number, &c.Group, &c.Member, &c.Era, &rarity, &c.ImagePath, &c.Series); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("%s: %w", ErrMsgFailedToScanCard, err)
	}
	tier, err := domain.ParseRarity(rarity)
	if err != nil {
		return c, err
	}
	c.Rarity = tier
	return c, nil
}
