package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// EconomyRepository implements repository.Economy and the drop ledger for PostgreSQL
type EconomyRepository struct {
	db    *pgxpool.Pool
	clock clockwork.Clock
}

// NewEconomyRepository creates a new EconomyRepository
func NewEconomyRepository(db *pgxpool.Pool, clock clockwork.Clock) *EconomyRepository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &EconomyRepository{db: db, clock: clock}
}

// GetBalance returns the user's coins; unknown users have zero
func (r *EconomyRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	var coins int64
	err := r.db.QueryRow(ctx, SQLSelectBalance, userID).Scan(&coins)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalance, err)
	}
	return coins, nil
}

// Credit adds coins, creating the user if needed, and returns the new balance
func (r *EconomyRepository) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: negative credit %d", domain.ErrInvalidInput, amount)
	}
	var coins int64
	if err := r.db.QueryRow(ctx, SQLCreditUser, userID, amount).Scan(&coins); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCredit, err)
	}
	return coins, nil
}

// CommitClaim records a won drop: one owned copy and a drops_count bump
func (r *EconomyRepository) CommitClaim(ctx context.Context, userID string, card domain.Card) (*domain.Ownership, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	if _, err := tx.Exec(ctx, SQLEnsureUser, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToEnsureUser, err)
	}
	own, err := r.grant(ctx, tx, userID, card)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, SQLIncrementDrops, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToIncrementDrops, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	logger.FromContext(ctx).Info(LogMsgClaimCommitted, "userID", userID, "cardID", card.ID, "serial", own.Serial)
	return &own, nil
}

// PurchasePack debits the price and grants every card in one transaction
func (r *EconomyRepository) PurchasePack(ctx context.Context, userID string, price int64, cards []domain.Card) ([]domain.Ownership, int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	if _, err := tx.Exec(ctx, SQLEnsureUser, userID); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", ErrMsgFailedToEnsureUser, err)
	}
	var coins int64
	if err := tx.QueryRow(ctx, SQLDebitUser, userID, price).Scan(&coins); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, fmt.Errorf("%w: pack costs %d", domain.ErrInsufficientFunds, price)
		}
		return nil, 0, fmt.Errorf("%s: %w", ErrMsgFailedToDebit, err)
	}

	owned := make([]domain.Ownership, 0, len(cards))
	for _, card := range cards {
		own, err := r.grant(ctx, tx, userID, card)
		if err != nil {
			return nil, 0, err
		}
		owned = append(owned, own)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	logger.FromContext(ctx).Info(LogMsgPackPurchased, "userID", userID, "price", price, "cards", len(owned))
	return owned, coins, nil
}

// SellCard removes the newest copy of a card and credits its price
func (r *EconomyRepository) SellCard(ctx context.Context, userID string, cardID int64, price int64) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	var removed int64
	if err := tx.QueryRow(ctx, SQLDeleteOneCopy, userID, cardID).Scan(&removed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: card %d", domain.ErrCardNotOwned, cardID)
		}
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToRemoveCopy, err)
	}
	var coins int64
	if err := tx.QueryRow(ctx, SQLCreditUser, userID, price).Scan(&coins); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCredit, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return coins, nil
}

// Leaderboard ranks users by coins, owned cards or won drops
func (r *EconomyRepository) Leaderboard(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	var q sq.SelectBuilder
	switch category {
	case domain.LeaderboardCoins:
		q = psql.Select("user_id", "coins").From("users").Where(sq.Gt{"coins": 0}).OrderBy("coins DESC", "user_id")
	case domain.LeaderboardDrops:
		q = psql.Select("user_id", "drops_count").From("users").Where(sq.Gt{"drops_count": 0}).OrderBy("drops_count DESC", "user_id")
	case domain.LeaderboardCards:
		q = psql.Select("user_id", "COUNT(*) AS total").From("user_cards").GroupBy("user_id").OrderBy("total DESC", "user_id")
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}

	sql, args, err := q.Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryLeaders, err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Value); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryLeaders, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Collection returns the user's distinct cards with copy counts, rarest first
func (r *EconomyRepository) Collection(ctx context.Context, userID string) ([]domain.CollectionEntry, error) {
	sql, args, err := psql.
		Select("c.card_id", "c.card_number", "c.group_name", "c.member_name", "c.era",
			"c.rarity", "c.image_path", "c.series", "COUNT(uc.id)").
		From("user_cards uc").
		Join("cards c ON c.card_id = uc.card_id").
		Where(sq.Eq{"uc.user_id": userID}).
		GroupBy("c.card_id").
		OrderBy("c.card_number").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryCollection, err)
	}
	defer rows.Close()

	var entries []domain.CollectionEntry
	for rows.Next() {
		var e domain.CollectionEntry
		var rarity string
		c := &e.Card
		if err := rows.Scan(&c.ID, &c.Number, &c.Group, &c.Member, &c.Era, &rarity, &c.ImagePath, &c.Series, &e.Quantity); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryCollection, err)
		}
		if c.Rarity, err = domain.ParseRarity(rarity); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryCollection, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Card.Rarity > entries[j].Card.Rarity
	})
	return entries, nil
}

// TransferCard moves one copy of a card from one user to another. The copy
// keeps its serial. It fails with domain.ErrCardNotOwned when the sender has
// no copy, including when a concurrent transfer took the last one.
func (r *EconomyRepository) TransferCard(ctx context.Context, fromUserID, toUserID string, cardID int64) (*domain.Ownership, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	if _, err := tx.Exec(ctx, SQLEnsureUser, toUserID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToEnsureUser, err)
	}

	now := r.clock.Now().UTC()
	own := domain.Ownership{UserID: toUserID, CardID: cardID, ObtainedAt: now}
	if err := tx.QueryRow(ctx, SQLTransferOneCopy, fromUserID, cardID, toUserID, now).Scan(&own.ID, &own.Serial); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: card %d", domain.ErrCardNotOwned, cardID)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToTransferCopy, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	logger.FromContext(ctx).Info(LogMsgCardTransferred, "from", fromUserID, "to", toUserID, "cardID", cardID, "serial", own.Serial)
	return &own, nil
}

// OwnedCount returns how many copies of a card the user holds
func (r *EconomyRepository) OwnedCount(ctx context.Context, userID string, cardID int64) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, SQLCountOwnedCopies, userID, cardID).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCountCopies, err)
	}
	return n, nil
}

// Inventory summarises a user's holdings. Unknown users get an empty inventory.
func (r *EconomyRepository) Inventory(ctx context.Context, userID string) (*domain.Inventory, error) {
	inv := &domain.Inventory{UserID: userID}
	err := r.db.QueryRow(ctx, SQLSelectInventoryTotals, userID).
		Scan(&inv.Coins, &inv.DropsClaimed, &inv.TotalCards, &inv.UniqueCards)
	if errors.Is(err, pgx.ErrNoRows) {
		return inv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryInventory, err)
	}

	sql, args, err := psql.
		Select("c.rarity", "COUNT(*)").
		From("user_cards uc").
		Join("cards c ON c.card_id = uc.card_id").
		Where(sq.Eq{"uc.user_id": userID}).
		GroupBy("c.rarity").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryInventory, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryInventory, err)
		}
		tier, err := domain.ParseRarity(name)
		if err != nil {
			return nil, err
		}
		inv.ByRarity[tier] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryInventory, err)
	}
	return inv, nil
}

func (r *EconomyRepository) grant(ctx context.Context, tx pgx.Tx, userID string, card domain.Card) (domain.Ownership, error) {
	now := r.clock.Now().UTC()
	own := domain.Ownership{
		UserID:     userID,
		CardID:     card.ID,
		Serial:     domain.FormatSerial(card.Number, now, userID),
		ObtainedAt: now,
	}
	if err := tx.QueryRow(ctx, SQLInsertOwnership, userID, card.ID, own.Serial, now).Scan(&own.ID); err != nil {
		if isPgError(err, PgErrorCodeForeignKeyViolation) {
			return own, fmt.Errorf("%w: %d", domain.ErrCardNotFound, card.ID)
		}
		return own, fmt.Errorf("%s: %w", ErrMsgFailedToInsertOwnership, err)
	}
	return own, nil
}
