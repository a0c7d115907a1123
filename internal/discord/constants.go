package discord

import "time"

// SlotEmojis are the reactions users pick a drop slot with, in slot order
var SlotEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣"}

// Rarity markers shown next to each option
var rarityMarkers = map[string]string{
	"Common":    "⚪",
	"Uncommon":  "🟢",
	"Rare":      "🔵",
	"Epic":      "🟣",
	"Legendary": "🟡",
}

// Embed colours
const (
	ColorInfo      = 0x3498db
	ColorSuccess   = 0x2ecc71
	ColorWarning   = 0xe67e22
	ColorExpired   = 0x2c2f33
	ColorSale      = 0xf39c12
	ColorCooldown  = 0xe67e22
	ColorInventory = 0x9b59b6
)

// Footer constants for standardized embed footers
const (
	FooterPhotocard      = "PhotocardBot"
	FooterPhotocardAdmin = "PhotocardBot Admin"
)

// Limits
const (
	MaxAutocompleteChoices = 25
	SearchResultLimit      = 10
	LeaderboardLimit       = 10
	CollectionPageSize     = 20
	ClaimQueueSize         = 256
	CommandTimeout         = 10 * time.Second
	attachmentNameFmt      = "slot%d.png"
	attachmentURLFmt       = "attachment://" + attachmentNameFmt
	imageContentType       = "image/png"
)

// Command and option names
const (
	CmdPing              = "ping"
	CmdDrop              = "drop"
	CmdDropChannel       = "dropchannel"
	CmdRemoveDropChannel = "removedropchannel"
	CmdCooldown          = "cooldown"
	CmdDaily             = "daily"
	CmdBalance           = "balance"
	CmdBuy               = "buy"
	CmdSell              = "sell"
	CmdCollection        = "collection"
	CmdLeaderboard       = "leaderboard"
	CmdCard              = "card"
	CmdInventory         = "inventory"
	CmdView              = "view"
	CmdGift              = "gift"

	OptPack     = "pack"
	OptCardID   = "card_id"
	OptUser     = "user"
	OptCategory = "category"
	OptQuery    = "query"
)

// Log messages
const (
	LogMsgBotRunning          = "Discord bot is now running"
	LogMsgBotReady            = "Bot is ready"
	LogMsgDeferFailed         = "Failed to send deferred response"
	LogMsgEditFailed          = "Failed to edit interaction response"
	LogMsgRespondFailed       = "Failed to send response"
	LogMsgActionFailed        = "Action failed"
	LogMsgReactionAddFailed   = "Failed to add slot reaction"
	LogMsgReactionClearFailed = "Failed to clear drop reactions"
	LogMsgAnnounceFailed      = "Failed to announce claim"
	LogMsgClaimQueueClosed    = "Claim queue closed, reaction ignored"
	LogMsgAutocompleteFailed  = "Autocomplete lookup failed"
	LogMsgUnhandledComplete   = "Unhandled autocomplete command"
	LogMsgCheckingCommands    = "Checking Discord commands..."
	LogMsgCommandsUnchanged   = "Commands unchanged, skipping registration"
	LogMsgCommandsUpdated     = "Commands updated successfully"
)

// Error messages
const (
	ErrMsgCreateSession   = "error creating Discord session"
	ErrMsgOpenConnection  = "error opening connection"
	ErrMsgFetchCommands   = "failed to fetch existing commands"
	ErrMsgUpdateCommands  = "failed to update commands"
	ErrMsgGatewayNotReady = "discord gateway not ready"
	ErrMsgUnknownContent  = "unknown drop content %T"
	ErrMsgTooManySlots    = "drop has %d options, at most %d supported"
	ErrMsgNotInGuild      = "this command only works in a server channel"
)
