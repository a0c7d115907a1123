package economy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/PhotocardBot_Go/internal/cooldown"
	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/event"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
	"github.com/osse101/PhotocardBot_Go/internal/rarity"
	"github.com/osse101/PhotocardBot_Go/internal/repository"
)

// Service defines the interface for economy operations
type Service interface {
	Balance(ctx context.Context, userID string) (int64, error)
	ClaimDaily(ctx context.Context, userID string) (*DailyResult, error)
	DailyRemaining(ctx context.Context, userID string) (time.Duration, error)
	OpenPack(ctx context.Context, userID, pack string) (*PackResult, error)
	SellCard(ctx context.Context, userID string, cardID int64) (*SellResult, error)
	Leaderboard(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error)
	Collection(ctx context.Context, userID string) ([]domain.CollectionEntry, error)
	Inventory(ctx context.Context, userID string) (*domain.Inventory, error)
	Gift(ctx context.Context, fromUserID, toUserID string, cardID int64) (*GiftResult, error)
	ViewCard(ctx context.Context, userID string, cardID int64) (*CardDetail, error)
	Packs() []Pack
}

// CardSource draws and looks up catalog cards
type CardSource interface {
	RandomCardOfTier(ctx context.Context, tier domain.Rarity) (*domain.Card, error)
	CardByID(ctx context.Context, id int64) (*domain.Card, error)
}

// Random is the source for daily rewards. rarity.Selector satisfies it.
type Random interface {
	Float64() float64
	Intn(n int) int
}

// DailyResult is a paid daily reward
type DailyResult struct {
	Amount  int64 `json:"amount"`
	Bonus   int64 `json:"bonus"`
	Balance int64 `json:"balance"`
}

// PackResult is an opened pack
type PackResult struct {
	Pack    Pack               `json:"pack"`
	Cards   []domain.Card      `json:"cards"`
	Owned   []domain.Ownership `json:"owned"`
	Balance int64              `json:"balance"`
}

// SellResult is a sold card
type SellResult struct {
	Card    domain.Card `json:"card"`
	Price   int64       `json:"price"`
	Balance int64       `json:"balance"`
}

// GiftResult is a card handed to another user
type GiftResult struct {
	Card      domain.Card       `json:"card"`
	Ownership *domain.Ownership `json:"ownership"`
}

// CardDetail is a catalog card and how many copies the viewer owns
type CardDetail struct {
	Card  domain.Card `json:"card"`
	Owned int         `json:"owned"`
}

// Deps are the collaborators of the economy service. Bus and Clock are optional.
type Deps struct {
	Repo      repository.Economy
	Cards     CardSource
	Selector  *rarity.Selector
	Random    Random
	Cooldowns cooldown.Tracker
	Bus       event.Bus
	Clock     clockwork.Clock
}

type service struct {
	deps  Deps
	packs map[string]Pack
}

// NewService creates a new economy service. A nil packs map means DefaultPacks.
func NewService(deps Deps, packs map[string]Pack) (Service, error) {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Random == nil && deps.Selector != nil {
		deps.Random = deps.Selector
	}
	for name, missing := range map[string]bool{
		"repository":       deps.Repo == nil,
		"card source":      deps.Cards == nil,
		"rarity selector":  deps.Selector == nil,
		"cooldown tracker": deps.Cooldowns == nil,
	} {
		if missing {
			return nil, fmt.Errorf(ErrMsgMissingCollabFmt, name)
		}
	}
	if packs == nil {
		packs = DefaultPacks()
	}
	return &service{deps: deps, packs: packs}, nil
}

func (s *service) Balance(ctx context.Context, userID string) (int64, error) {
	coins, err := s.deps.Repo.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgGetBalanceFailed, err)
	}
	return coins, nil
}

// ClaimDaily pays a random reward at most once per DailyCooldown. A failed
// payout leaves the cooldown untouched so the user can retry.
func (s *service) ClaimDaily(ctx context.Context, userID string) (*DailyResult, error) {
	log := logger.FromContext(ctx)
	now := s.deps.Clock.Now()

	var result DailyResult
	err := s.deps.Cooldowns.Enforce(ctx, domain.DailyCooldownKey(userID), DailyCooldown, now, func() error {
		result.Amount = int64(DailyMin + s.deps.Random.Intn(DailyMax-DailyMin+1))
		if s.deps.Random.Float64() < DailyBonusChance {
			result.Bonus = int64(s.deps.Random.Intn(DailyBonusMax + 1))
		}
		balance, err := s.deps.Repo.Credit(ctx, userID, result.Amount+result.Bonus)
		if err != nil {
			return fmt.Errorf(ErrMsgCreditFailed, err)
		}
		result.Balance = balance
		return nil
	})
	if err != nil {
		var cd cooldown.ErrOnCooldown
		if errors.As(err, &cd) {
			log.Debug(LogMsgDailyOnCooldown, "userID", userID, "remaining", cd.Remaining)
			s.publish(ctx, event.New(event.CooldownBlocked, event.CooldownBlockedPayloadV1{
				Kind:      CooldownKindDaily,
				Subject:   cd.Subject,
				Remaining: cd.Remaining,
			}))
		}
		return nil, err
	}

	log.Info(LogMsgDailyClaimed, "userID", userID, "amount", result.Amount, "bonus", result.Bonus)
	s.publish(ctx, event.New(event.DailyClaimed, event.DailyClaimedPayloadV1{
		UserID: userID,
		Amount: result.Amount,
		Bonus:  result.Bonus,
	}))
	return &result, nil
}

// DailyRemaining reports how long until the next daily reward
func (s *service) DailyRemaining(ctx context.Context, userID string) (time.Duration, error) {
	return s.deps.Cooldowns.Remaining(ctx, domain.DailyCooldownKey(userID), DailyCooldown, s.deps.Clock.Now())
}

// OpenPack buys a pack and grants its cards. Each slot draws a tier with the
// pack's boost; slots whose tier has no cards are skipped, and a pack that
// would come out empty is refused before any coins move.
func (s *service) OpenPack(ctx context.Context, userID, name string) (*PackResult, error) {
	log := logger.FromContext(ctx)

	pack, ok := s.packs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPack, name)
	}

	balance, err := s.deps.Repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetBalanceFailed, err)
	}
	if balance < pack.Price {
		return nil, fmt.Errorf(ErrMsgInsufficientCoinsFmt, pack.Name, pack.Price, balance, domain.ErrInsufficientFunds)
	}

	tiers, err := s.deps.Selector.SelectN(pack.Cards, pack.Boost)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgSelectRarityFailed, err)
	}
	cards := make([]domain.Card, 0, len(tiers))
	for _, tier := range tiers {
		card, err := s.deps.Cards.RandomCardOfTier(ctx, tier)
		if errors.Is(err, domain.ErrCardNotFound) {
			log.Debug(LogMsgPackSlotEmpty, "tier", tier)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf(ErrMsgCatalogLookupFailed, err)
		}
		cards = append(cards, *card)
	}
	if len(cards) == 0 {
		return nil, domain.ErrInsufficientCatalog
	}

	owned, balance, err := s.deps.Repo.PurchasePack(ctx, userID, pack.Price, cards)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgPurchaseFailed, err)
	}

	ids := make([]int64, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	log.Info(LogMsgPackOpened, "userID", userID, "pack", pack.Name, "cards", len(cards))
	s.publish(ctx, event.New(event.PackOpened, event.PackOpenedPayloadV1{
		UserID: userID,
		Pack:   pack.Name,
		Price:  pack.Price,
		Cards:  ids,
		Boost:  pack.Boost,
	}))

	return &PackResult{Pack: pack, Cards: cards, Owned: owned, Balance: balance}, nil
}

// SellCard sells one copy of a card back at its rarity price
func (s *service) SellCard(ctx context.Context, userID string, cardID int64) (*SellResult, error) {
	card, err := s.deps.Cards.CardByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	price := SellPrice(card.Rarity)

	balance, err := s.deps.Repo.SellCard(ctx, userID, cardID, price)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgSellFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgCardSold, "userID", userID, "cardID", cardID, "price", price)
	s.publish(ctx, event.New(event.CardSold, event.CardSoldPayloadV1{
		UserID: userID,
		CardID: cardID,
		Rarity: card.Rarity.String(),
		Price:  price,
	}))
	return &SellResult{Card: *card, Price: price, Balance: balance}, nil
}

// Leaderboard ranks users in one category. The limit is clamped to
// [1, MaxLeaderboardLimit] with DefaultLeaderboardLimit for zero.
func (s *service) Leaderboard(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error) {
	switch category {
	case domain.LeaderboardCoins, domain.LeaderboardCards, domain.LeaderboardDrops:
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	switch {
	case limit <= 0:
		limit = DefaultLeaderboardLimit
	case limit > MaxLeaderboardLimit:
		limit = MaxLeaderboardLimit
	}
	return s.deps.Repo.Leaderboard(ctx, category, limit)
}

func (s *service) Collection(ctx context.Context, userID string) ([]domain.CollectionEntry, error) {
	return s.deps.Repo.Collection(ctx, userID)
}

func (s *service) Inventory(ctx context.Context, userID string) (*domain.Inventory, error) {
	inv, err := s.deps.Repo.Inventory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgInventoryFailed, err)
	}
	return inv, nil
}

// Gift hands one copy of a card to another user. Gifting to yourself or to
// nobody is domain.ErrInvalidRecipient; the sender must own a copy.
func (s *service) Gift(ctx context.Context, fromUserID, toUserID string, cardID int64) (*GiftResult, error) {
	if toUserID == "" || toUserID == fromUserID {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRecipient, toUserID)
	}
	card, err := s.deps.Cards.CardByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	own, err := s.deps.Repo.TransferCard(ctx, fromUserID, toUserID, cardID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGiftFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgCardGifted, "from", fromUserID, "to", toUserID, "cardID", cardID)
	s.publish(ctx, event.New(event.CardGifted, event.CardGiftedPayloadV1{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		CardID:     cardID,
		Rarity:     card.Rarity.String(),
		Serial:     own.Serial,
	}))
	return &GiftResult{Card: *card, Ownership: own}, nil
}

// ViewCard returns a card with the caller's copy count
func (s *service) ViewCard(ctx context.Context, userID string, cardID int64) (*CardDetail, error) {
	card, err := s.deps.Cards.CardByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	owned, err := s.deps.Repo.OwnedCount(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	return &CardDetail{Card: *card, Owned: owned}, nil
}

// Packs lists the shop, cheapest first
func (s *service) Packs() []Pack {
	return sortedPacks(s.packs)
}

func (s *service) publish(ctx context.Context, e event.Event) {
	if s.deps.Bus == nil {
		return
	}
	if err := s.deps.Bus.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", e.Type, "error", err)
	}
}
