package cooldown

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/PhotocardBot_Go/internal/concurrency"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

// memoryBackend implements Tracker in process. Each key has its own mutex,
// so unrelated subjects never wait on each other.
type memoryBackend struct {
	config  Config
	locks   *concurrency.LockManager
	entries sync.Map // string -> time.Time
}

// NewMemoryTracker creates a new in-process cooldown tracker
func NewMemoryTracker(config Config) Tracker {
	return &memoryBackend{
		config: config,
		locks:  concurrency.NewLockManager(),
	}
}

func (b *memoryBackend) CheckAndReserve(ctx context.Context, key string, window time.Duration, now time.Time) error {
	return b.Enforce(ctx, key, window, now, noop)
}

func (b *memoryBackend) Enforce(ctx context.Context, key string, window time.Duration, now time.Time, fn func() error) error {
	if err := validateWindow(window); err != nil {
		return err
	}
	log := logger.FromContext(ctx)

	return b.locks.WithLock(key, func() error {
		if b.config.DevMode {
			log.Debug(LogMsgDevModeBypass, "key", key)
		} else if left := remaining(b.load(key), window, now); left > 0 {
			return ErrOnCooldown{Subject: key, Remaining: left}
		}

		if err := fn(); err != nil {
			return err
		}

		b.advance(key, now)
		log.Debug(LogMsgCooldownEnforced, "key", key)
		return nil
	})
}

func (b *memoryBackend) Remaining(_ context.Context, key string, window time.Duration, now time.Time) (time.Duration, error) {
	if err := validateWindow(window); err != nil {
		return 0, err
	}
	return remaining(b.load(key), window, now), nil
}

func (b *memoryBackend) Record(_ context.Context, key string, at time.Time) error {
	return b.locks.WithLock(key, func() error {
		b.advance(key, at)
		return nil
	})
}

func (b *memoryBackend) Reset(_ context.Context, key string) error {
	return b.locks.WithLock(key, func() error {
		b.entries.Delete(key)
		return nil
	})
}

func (b *memoryBackend) LastAt(_ context.Context, key string) (*time.Time, error) {
	return b.load(key), nil
}

func (b *memoryBackend) load(key string) *time.Time {
	v, ok := b.entries.Load(key)
	if !ok {
		return nil
	}
	last := v.(time.Time)
	return &last
}

// advance must be called with the key's lock held
func (b *memoryBackend) advance(key string, at time.Time) {
	if last := b.load(key); last != nil && last.After(at) {
		return
	}
	b.entries.Store(key, at)
}
