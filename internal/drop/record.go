package drop

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

// Record is the live state of one drop. Options and timestamps never change
// after creation; the status moves out of Open exactly once.
type Record struct {
	ID        uuid.UUID
	ChannelID string
	Options   []domain.Card
	CreatedAt time.Time
	ExpiresAt time.Time
	Trigger   Trigger

	status atomic.Int32
	handle atomic.Pointer[MessageHandle]
}

func newRecord(channelID string, options []domain.Card, createdAt time.Time, window time.Duration) *Record {
	return &Record{
		ID:        uuid.New(),
		ChannelID: channelID,
		Options:   options,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(window),
	}
}

// Status returns the current claim status
func (r *Record) Status() domain.DropStatus {
	return domain.DropStatus(r.status.Load())
}

// transition moves the record from Open to a terminal status. Only one
// caller can ever succeed.
func (r *Record) transition(to domain.DropStatus) bool {
	return r.status.CompareAndSwap(int32(domain.DropOpen), int32(to))
}

// Handle returns the posted message, if the post has completed
func (r *Record) Handle() (MessageHandle, bool) {
	h := r.handle.Load()
	if h == nil {
		return MessageHandle{}, false
	}
	return *h, true
}

func (r *Record) setHandle(h MessageHandle) {
	r.handle.Store(&h)
}

// Expired reports whether at is at or past the deadline
func (r *Record) Expired(at time.Time) bool {
	return !at.Before(r.ExpiresAt)
}

// HighestRarity is the best tier among the options
func (r *Record) HighestRarity() domain.Rarity {
	best := domain.RarityCommon
	for _, card := range r.Options {
		if card.Rarity > best {
			best = card.Rarity
		}
	}
	return best
}

// Rarities lists the option tiers in slot order
func (r *Record) Rarities() []string {
	names := make([]string, len(r.Options))
	for i, card := range r.Options {
		names[i] = card.Rarity.String()
	}
	return names
}
