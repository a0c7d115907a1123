package discord

// Friendly message constants for Discord responses
const (
	// Drops
	MsgAlreadyActive       = "🎴 **A drop is already running here!**\nClaim it before asking for another."
	MsgInsufficientCatalog = "📭 **Not enough cards**\nThe catalog can't fill a drop right now."
	MsgNotClaimable        = "⌛ That drop is no longer claimable."
	MsgInvalidSlot         = "❓ That isn't one of the drop's slots."
	MsgLedgerFailed        = "⚠️ You won the card but saving it failed. An admin has been alerted."

	// Economy
	MsgInsufficientFunds = "⚠️ **Not Enough Coins!**\nYou don't have enough coins for this."
	MsgUnknownPack       = "❓ **Unknown Pack**\nPick basic, premium or deluxe."
	MsgCardNotOwned      = "🎴 **Card Not Owned**\nYou don't have a copy of that card."
	MsgCardNotFound      = "❓ **Card Not Found**\nMaybe check the id?"
	MsgUnknownCategory   = "❓ **Unknown Leaderboard**"
	MsgInvalidRecipient  = "🎁 **Can't Gift That Way**\nPick another member; not yourself and not a bot."
	MsgNotOwned          = "You don't own this card"

	// User
	MsgUserNotFound = "👤 **User Not Found**\nThey haven't collected anything yet."

	// Cooldowns
	MsgCooldownActive = "⏳ **Whoa there!**\nYou need to wait a bit before doing that again."
	MsgReady          = "✅ Ready!"

	// Permissions
	MsgAdminOnly = "🔒 Only server administrators can do that."

	MsgGenericError = "❌ Something went wrong."
)
