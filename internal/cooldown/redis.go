package cooldown

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

// Timestamps are stored as unix milliseconds. The reserve script is the only
// writer that can move an entry past a blocked check, and it runs atomically
// on the server.
var (
	reserveScript = redis.NewScript(`
		local key = KEYS[1]
		local now_ms = tonumber(ARGV[1])
		local window_ms = tonumber(ARGV[2])
		local ttl_ms = tonumber(ARGV[3])

		local last = tonumber(redis.call('GET', key))
		if last ~= nil and now_ms - last < window_ms then
			return { 0, window_ms - (now_ms - last), last }
		end

		redis.call('SET', key, now_ms, 'PX', ttl_ms)
		if last == nil then last = -1 end
		return { 1, 0, last }
	`)

	releaseScript = redis.NewScript(`
		local key = KEYS[1]
		local reserved = ARGV[1]
		local prev = tonumber(ARGV[2])
		local ttl_ms = tonumber(ARGV[3])

		if redis.call('GET', key) ~= reserved then
			return 0
		end
		if prev < 0 then
			redis.call('DEL', key)
		else
			redis.call('SET', key, prev, 'PX', ttl_ms)
		end
		return 1
	`)

	advanceScript = redis.NewScript(`
		local key = KEYS[1]
		local at = tonumber(ARGV[1])
		local ttl_ms = tonumber(ARGV[2])

		local cur = tonumber(redis.call('GET', key))
		if cur == nil or at > cur then
			redis.call('SET', key, at, 'PX', ttl_ms)
			return 1
		end
		return 0
	`)
)

// redisBackend implements Tracker on Redis so that several bot processes
// share one set of cooldowns.
type redisBackend struct {
	rdb    redis.UniversalClient
	config Config
}

// NewRedisTracker creates a new cooldown tracker with Redis backend
func NewRedisTracker(rdb redis.UniversalClient, config Config) Tracker {
	return &redisBackend{rdb: rdb, config: config}
}

func (b *redisBackend) CheckAndReserve(ctx context.Context, key string, window time.Duration, now time.Time) error {
	return b.Enforce(ctx, key, window, now, noop)
}

// Enforce reserves the key before running fn so concurrent callers are
// blocked for the duration. If fn fails the reservation is rolled back,
// unless something else has written the key since.
func (b *redisBackend) Enforce(ctx context.Context, key string, window time.Duration, now time.Time, fn func() error) error {
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

	nowMs := now.UnixMilli()
	ttl := b.config.retention().Milliseconds()
	vals, err := reserveScript.Run(ctx, b.rdb, []string{b.key(key)}, nowMs, window.Milliseconds(), ttl).Int64Slice()
	if err != nil {
		return fmt.Errorf(ErrMsgReserveFailed, err)
	}
	if len(vals) != 3 {
		return fmt.Errorf(ErrMsgReserveFailed, fmt.Errorf("unexpected script reply %v", vals))
	}
	if vals[0] == 0 {
		return ErrOnCooldown{Subject: key, Remaining: time.Duration(vals[1]) * time.Millisecond}
	}
	prev := vals[2]

	if fnErr := fn(); fnErr != nil {
		if err := releaseScript.Run(ctx, b.rdb, []string{b.key(key)}, strconv.FormatInt(nowMs, 10), prev, ttl).Err(); err != nil {
			return errors.Join(fnErr, fmt.Errorf(ErrMsgReleaseFailed, err))
		}
		log.Debug(LogMsgReservationReleased, "key", key)
		return fnErr
	}

	log.Debug(LogMsgCooldownEnforced, "key", key)
	return nil
}

func (b *redisBackend) Remaining(ctx context.Context, key string, window time.Duration, now time.Time) (time.Duration, error) {
	if err := validateWindow(window); err != nil {
		return 0, err
	}
	lastAt, err := b.LastAt(ctx, key)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgCheckCooldownFailed, err)
	}
	return remaining(lastAt, window, now), nil
}

func (b *redisBackend) Record(ctx context.Context, key string, at time.Time) error {
	err := advanceScript.Run(ctx, b.rdb, []string{b.key(key)}, at.UnixMilli(), b.config.retention().Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf(ErrMsgUpdateCooldownFailed, err)
	}
	return nil
}

func (b *redisBackend) Reset(ctx context.Context, key string) error {
	if err := b.rdb.Del(ctx, b.key(key)).Err(); err != nil {
		return fmt.Errorf(ErrMsgResetCooldownFailed, err)
	}
	return nil
}

func (b *redisBackend) LastAt(ctx context.Context, key string) (*time.Time, error) {
	ms, err := b.rdb.Get(ctx, b.key(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf(ErrMsgGetLastAtFailed, err)
	}
	lastAt := time.UnixMilli(ms)
	return &lastAt, nil
}

func (b *redisBackend) key(key string) string {
	return b.config.redisPrefix() + key
}
