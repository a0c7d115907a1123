package economy

import "time"

// ==================== Daily Reward ====================

const (
	DailyCooldown    = 24 * time.Hour
	DailyMin         = 50
	DailyMax         = 150
	DailyBonusChance = 0.3
	DailyBonusMax    = 50
)

// ==================== Packs ====================

const (
	PackBasicPrice   = 100
	PackPremiumPrice = 500
	PackDeluxePrice  = 1000

	PackBasicCards   = 3
	PackPremiumCards = 5
	PackDeluxeCards  = 10

	PackBasicBoost   = 0.0
	PackPremiumBoost = 0.1
	PackDeluxeBoost  = 0.2
)

// ==================== Sell Prices ====================

const (
	SellPriceCommon    = 10
	SellPriceUncommon  = 25
	SellPriceRare      = 75
	SellPriceEpic      = 200
	SellPriceLegendary = 500
)

// ==================== Leaderboard ====================

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 25
)

// CooldownKindDaily labels daily reward cooldown events
const CooldownKindDaily = "daily"

// ==================== Error Messages ====================

const (
	ErrMsgMissingCollabFmt     = "economy service requires a %s"
	ErrMsgGetBalanceFailed     = "failed to get balance: %w"
	ErrMsgCreditFailed         = "failed to credit daily reward: %w"
	ErrMsgSelectRarityFailed   = "failed to select rarities: %w"
	ErrMsgCatalogLookupFailed  = "catalog lookup failed: %w"
	ErrMsgPurchaseFailed       = "failed to purchase pack: %w"
	ErrMsgSellFailed           = "failed to sell card: %w"
	ErrMsgGiftFailed           = "failed to gift card: %w"
	ErrMsgInventoryFailed      = "failed to load inventory: %w"
	ErrMsgInvalidPackBoostFmt  = "pack %s boost %v: %w"
	ErrMsgUnknownPackBoostFmt  = "boost configured for unknown pack %q: %w"
	ErrMsgInsufficientCoinsFmt = "%s pack costs %d, balance is %d: %w"
)

// ==================== Log Messages ====================

const (
	LogMsgDailyClaimed    = "Daily reward claimed"
	LogMsgPackOpened      = "Pack opened"
	LogMsgPackSlotEmpty   = "Pack slot skipped, no card of tier"
	LogMsgCardSold        = "Card sold"
	LogMsgCardGifted      = "Card gifted"
	LogMsgPublishFailed   = "Failed to publish economy event"
	LogMsgDailyOnCooldown = "Daily reward on cooldown"
)
