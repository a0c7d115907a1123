package concurrency

import (
	"sync"
)

// LockManager hands out one mutex per key so that work on unrelated keys
// never contends. Mutexes are created lazily and kept for the life of the
// manager.
type LockManager struct {
	locks sync.Map // string -> *sync.Mutex
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns the mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	if lock, ok := lm.locks.Load(key); ok {
		return lock.(*sync.Mutex)
	}
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// WithLock runs fn while holding the mutex for key
func (lm *LockManager) WithLock(key string, fn func() error) error {
	mu := lm.GetLock(key)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}
