package domain

// Rarity display names, also the values stored in the catalog
const (
	RarityNameCommon    = "Common"
	RarityNameUncommon  = "Uncommon"
	RarityNameRare      = "Rare"
	RarityNameEpic      = "Epic"
	RarityNameLegendary = "Legendary"
)

// Pack tiers sold in the shop
const (
	PackBasic   = "basic"
	PackPremium = "premium"
	PackDeluxe  = "deluxe"
)

// Leaderboard categories
const (
	LeaderboardCoins = "coins"
	LeaderboardCards = "cards"
	LeaderboardDrops = "drops"
)

// Cooldown subject key prefixes
const (
	CooldownPrefixClaim   = "claim:"
	CooldownPrefixChannel = "channel:"
	CooldownPrefixDaily   = "daily:"
)

// ClaimCooldownKey is the cooldown subject for a user's claims
func ClaimCooldownKey(userID string) string {
	return CooldownPrefixClaim + userID
}

// ChannelCooldownKey is the cooldown subject for spawns in a channel
func ChannelCooldownKey(channelID string) string {
	return CooldownPrefixChannel + channelID
}

// DailyCooldownKey is the cooldown subject for a user's daily reward
func DailyCooldownKey(userID string) string {
	return CooldownPrefixDaily + userID
}
