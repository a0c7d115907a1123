package catalog

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
	"github.com/osse101/PhotocardBot_Go/internal/repository"
)

// Random picks indexes for RandomCardOfTier. rarity.Selector satisfies it.
type Random interface {
	Intn(n int) int
}

// CacheConfig sizes the catalog caches
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// Cached serves card lookups from memory. Card definitions are immutable once
// seeded, so lookups by id are kept until evicted; the per-tier lists expire
// so newly seeded cards become drawable without a restart.
type Cached struct {
	repo  repository.Catalog
	rnd   Random
	byID  *lru.Cache[int64, domain.Card]
	tiers *expirable.LRU[domain.Rarity, []domain.Card]
}

// NewCached wraps a catalog repository with caches
func NewCached(repo repository.Catalog, rnd Random, config CacheConfig) (*Cached, error) {
	if config.Size <= 0 {
		config.Size = DefaultCardCacheSize
	}
	if config.TTL <= 0 {
		config.TTL = DefaultTierCacheTTL
	}
	byID, err := lru.New[int64, domain.Card](config.Size)
	if err != nil {
		return nil, err
	}
	return &Cached{
		repo:  repo,
		rnd:   rnd,
		byID:  byID,
		tiers: expirable.NewLRU[domain.Rarity, []domain.Card](domain.RarityCount, nil, config.TTL),
	}, nil
}

// RandomCardOfTier returns a uniformly chosen card of the tier, or an error
// wrapping domain.ErrCardNotFound when the tier is empty.
func (c *Cached) RandomCardOfTier(ctx context.Context, tier domain.Rarity) (*domain.Card, error) {
	cards, err := c.cardsOfTier(ctx, tier)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: no %s cards", domain.ErrCardNotFound, tier)
	}
	card := cards[c.rnd.Intn(len(cards))]
	return &card, nil
}

// CardByID looks a card up by id
func (c *Cached) CardByID(ctx context.Context, id int64) (*domain.Card, error) {
	if card, ok := c.byID.Get(id); ok {
		return &card, nil
	}
	card, err := c.repo.CardByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadCardFailed, id, err)
	}
	c.byID.Add(id, *card)
	return card, nil
}

// CountByTier reports how many cards each tier holds
func (c *Cached) CountByTier(ctx context.Context) (map[domain.Rarity]int, error) {
	return c.repo.CountByTier(ctx)
}

// Invalidate drops every cached entry, e.g. after a reseed
func (c *Cached) Invalidate(ctx context.Context) {
	c.byID.Purge()
	c.tiers.Purge()
	logger.FromContext(ctx).Info(LogMsgCacheCleared)
}

func (c *Cached) cardsOfTier(ctx context.Context, tier domain.Rarity) ([]domain.Card, error) {
	if cards, ok := c.tiers.Get(tier); ok {
		return cards, nil
	}
	cards, err := c.repo.CardsOfTier(ctx, tier)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadTierFailed, tier, err)
	}
	c.tiers.Add(tier, cards)
	for _, card := range cards {
		c.byID.Add(card.ID, card)
	}
	logger.FromContext(ctx).Debug(LogMsgTierCached, "tier", tier, "cards", len(cards))
	return cards, nil
}
