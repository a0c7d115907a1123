package cooldown

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

// postgresBackend implements Tracker on the cooldowns table. Mutual exclusion
// per key comes from a transaction-scoped advisory lock, which works even
// before the key has a row.
type postgresBackend struct {
	db     *pgxpool.Pool
	config Config
}

// NewPostgresTracker creates a new cooldown tracker with Postgres backend
func NewPostgresTracker(db *pgxpool.Pool, config Config) Tracker {
	return &postgresBackend{
		db:     db,
		config: config,
	}
}

func (b *postgresBackend) CheckAndReserve(ctx context.Context, key string, window time.Duration, now time.Time) error {
	return b.Enforce(ctx, key, window, now, noop)
}

// Enforce uses check-then-lock: an unlocked read rejects most blocked callers
// without opening a transaction, then the check is repeated under the lock.
func (b *postgresBackend) Enforce(ctx context.Context, key string, window time.Duration, now time.Time, fn func() error) error {
	if err := validateWindow(window); err != nil {
		return err
	}
	log := logger.FromContext(ctx)

	if b.config.DevMode {
		log.Debug(LogMsgDevModeBypass, "key", key)
		if err := fn(); err != nil {
			return err
		}
		if err := b.Record(ctx, key, now); err != nil {
			return &RecordError{Subject: key, Err: err}
		}
		return nil
	}

	// PHASE 1: Cheap unlocked check
	left, err := b.Remaining(ctx, key, window, now)
	if err != nil {
		return err
	}
	if left > 0 {
		return ErrOnCooldown{Subject: key, Remaining: left}
	}

	// PHASE 2: Transaction with advisory lock
	tx, err := b.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, SQLAdvisoryLock, hashKey(key)); err != nil {
		return fmt.Errorf(ErrMsgAcquireLockFailed, err)
	}

	lastAt, err := getLastAt(ctx, tx, key)
	if err != nil {
		return fmt.Errorf(ErrMsgGetCooldownTxFailed, err)
	}
	if left := remaining(lastAt, window, now); left > 0 {
		log.Debug(LogMsgRaceConditionDetected, "key", key, "remaining", left)
		return ErrOnCooldown{Subject: key, Remaining: left}
	}

	if err := fn(); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, SQLUpsertCooldownMax, key, now); err != nil {
		return &RecordError{Subject: key, Err: fmt.Errorf(ErrMsgUpdateCooldownFailed, err)}
	}

	// Commit releases the advisory lock
	if err := tx.Commit(ctx); err != nil {
		return &RecordError{Subject: key, Err: fmt.Errorf(ErrMsgCommitTransactionFailed, err)}
	}

	log.Debug(LogMsgCooldownEnforced, "key", key)
	return nil
}

func (b *postgresBackend) Remaining(ctx context.Context, key string, window time.Duration, now time.Time) (time.Duration, error) {
	if err := validateWindow(window); err != nil {
		return 0, err
	}
	lastAt, err := getLastAt(ctx, b.db, key)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgCheckCooldownFailed, err)
	}
	return remaining(lastAt, window, now), nil
}

func (b *postgresBackend) Record(ctx context.Context, key string, at time.Time) error {
	if _, err := b.db.Exec(ctx, SQLUpsertCooldownMax, key, at); err != nil {
		return fmt.Errorf(ErrMsgUpdateCooldownFailed, err)
	}
	return nil
}

func (b *postgresBackend) Reset(ctx context.Context, key string) error {
	if _, err := b.db.Exec(ctx, SQLDeleteCooldown, key); err != nil {
		return fmt.Errorf(ErrMsgResetCooldownFailed, err)
	}
	return nil
}

func (b *postgresBackend) LastAt(ctx context.Context, key string) (*time.Time, error) {
	return getLastAt(ctx, b.db, key)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getLastAt(ctx context.Context, q querier, key string) (*time.Time, error) {
	var lastAt time.Time

	err := q.QueryRow(ctx, SQLSelectLastAt, key).Scan(&lastAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No cooldown record
		}
		return nil, fmt.Errorf(ErrMsgGetLastAtFailed, err)
	}
	return &lastAt, nil
}

// hashKey creates a consistent int64 hash of a subject key for advisory locking
func hashKey(key string) int64 {
	return int64(xxhash.Sum64String(key) & HashMaskPositiveInt64)
}
