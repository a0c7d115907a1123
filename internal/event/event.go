package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type   `json:"type"`
	Payload any    `json:"payload"`
}

// Drop lifecycle event types
const (
	DropSpawned       Type = "drop.spawned"
	DropClaimed       Type = "drop.claimed"
	DropExpired       Type = "drop.expired"
	DropClaimRejected Type = "drop.claim_rejected"
	CooldownBlocked   Type = "cooldown.blocked"
)

// Economy event types
const (
	PackOpened   Type = "economy.pack_opened"
	DailyClaimed Type = "economy.daily_claimed"
	CardSold     Type = "economy.card_sold"
	CardGifted   Type = "economy.card_gifted"
)

// Typed event payloads

// DropSpawnedPayloadV1 is published once a drop is posted
type DropSpawnedPayloadV1 struct {
	DropID    string    `json:"drop_id"`
	ChannelID string    `json:"channel_id"`
	Rarities  []string  `json:"rarities"`
	ExpiresAt time.Time `json:"expires_at"`
	Trigger   string    `json:"trigger"` // command, admin or auto
}

// DropClaimedPayloadV1 is published when a claim wins the race
type DropClaimedPayloadV1 struct {
	DropID       string        `json:"drop_id"`
	ChannelID    string        `json:"channel_id"`
	UserID       string        `json:"user_id"`
	Slot         int           `json:"slot"`
	CardID       int64         `json:"card_id"`
	Rarity       string        `json:"rarity"`
	Serial       string        `json:"serial,omitempty"`
	ClaimedAfter time.Duration `json:"claimed_after"`
	LedgerFailed bool          `json:"ledger_failed,omitempty"`
}

// DropExpiredPayloadV1 is published when a drop times out unclaimed
type DropExpiredPayloadV1 struct {
	DropID    string `json:"drop_id"`
	ChannelID string `json:"channel_id"`
}

// ClaimRejectedPayloadV1 is published for every rejected claim attempt
type ClaimRejectedPayloadV1 struct {
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
	Reason    string `json:"reason"`
}

// CooldownBlockedPayloadV1 is published when a cooldown turns a request away
type CooldownBlockedPayloadV1 struct {
	Kind      string        `json:"kind"` // claim, channel or daily
	Subject   string        `json:"subject"`
	Remaining time.Duration `json:"remaining"`
}

// PackOpenedPayloadV1 is published after a successful pack purchase
type PackOpenedPayloadV1 struct {
	UserID string  `json:"user_id"`
	Pack   string  `json:"pack"`
	Price  int64   `json:"price"`
	Cards  []int64 `json:"cards"`
	Boost  float64 `json:"boost"`
}

// DailyClaimedPayloadV1 is published after a daily reward is paid
type DailyClaimedPayloadV1 struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
	Bonus  int64  `json:"bonus"`
}

// CardSoldPayloadV1 is published after a card is sold back
type CardSoldPayloadV1 struct {
	UserID string `json:"user_id"`
	CardID int64  `json:"card_id"`
	Rarity string `json:"rarity"`
	Price  int64  `json:"price"`
}

// CardGiftedPayloadV1 is published after a copy changes hands
type CardGiftedPayloadV1 struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	CardID     int64  `json:"card_id"`
	Rarity     string `json:"rarity"`
	Serial     string `json:"serial"`
}

// New wraps a payload in an event of the current schema version
func New(t Type, payload any) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: payload,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus. Handlers run
// synchronously on the publishing goroutine.
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errors.Join(errs...))
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
