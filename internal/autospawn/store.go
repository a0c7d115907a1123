package autospawn

import (
	"context"
	"sort"
	"sync"
)

// ChannelStore is the administrator-managed set of channels opted into
// automatic drops
type ChannelStore interface {
	Channels(ctx context.Context) ([]string, error)
	Enable(ctx context.Context, channelID string) (bool, error)
	Disable(ctx context.Context, channelID string) (bool, error)
}

// MemoryStore keeps the opt-in set in process
type MemoryStore struct {
	mu       sync.RWMutex
	channels map[string]struct{}
}

// NewMemoryStore creates a store seeded with the given channels
func NewMemoryStore(channels ...string) *MemoryStore {
	s := &MemoryStore{channels: make(map[string]struct{}, len(channels))}
	for _, id := range channels {
		s.channels[id] = struct{}{}
	}
	return s
}

// Channels returns the opted-in channels in a stable order
func (s *MemoryStore) Channels(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.channels))
	for id := range s.channels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Enable opts a channel in. It reports false if it already was.
func (s *MemoryStore) Enable(_ context.Context, channelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.channels[channelID]; ok {
		return false, nil
	}
	s.channels[channelID] = struct{}{}
	return true, nil
}

// Disable opts a channel out. It reports false if it was not opted in.
func (s *MemoryStore) Disable(_ context.Context, channelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.channels[channelID]; !ok {
		return false, nil
	}
	delete(s.channels, channelID)
	return true, nil
}
