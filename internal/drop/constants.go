package drop

import "time"

// ============================================================================
// Defaults
// ============================================================================

const (
	DefaultSlotsPerDrop    = 3
	DefaultExpiryWindow    = 45 * time.Second
	DefaultUserCooldown    = 300 * time.Second
	DefaultChannelCooldown = 900 * time.Second
	DefaultRenderTimeout   = 10 * time.Second
)

// TimerSetName labels the expiry timers in logs
const TimerSetName = "drop-expiry"

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgPostFailed       = "failed to post drop"
	ErrMsgCatalogLookup    = "catalog lookup failed"
	ErrMsgSelectRarity     = "failed to select rarity"
	ErrMsgLedgerCommit     = "ledger commit failed for drop %s user %s: %v"
	ErrMsgInvalidConfig    = "invalid drop configuration"
	ErrMsgMissingCollabFmt = "drop manager requires a %s"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgDropSpawned          = "Drop spawned"
	LogMsgDropExpired          = "Drop expired"
	LogMsgDropClaimed          = "Drop claimed"
	LogMsgSlotSkipped          = "No card available for tier, slot skipped"
	LogMsgRenderFailed         = "Card render failed, posting without image"
	LogMsgPostFailed           = "Drop post failed, tearing down"
	LogMsgUpdateFailed         = "Drop message update failed"
	LogMsgOpenClaimsFailed     = "Failed to open drop for claims"
	LogMsgRejectFailed         = "Claim rejection notice failed"
	LogMsgLedgerAlert          = "LEDGER ALERT: claim won but commit failed, drop stays claimed"
	LogMsgCooldownAlert        = "COOLDOWN ALERT: action succeeded but cooldown was not recorded"
	LogMsgExpiryEarly          = "Expiry timer fired before deadline, rescheduling"
	LogMsgScheduleExpiryFailed = "Failed to schedule drop expiry"
	LogMsgPublishFailed        = "Failed to publish drop event"
	LogMsgCooldownRecordFailed = "Failed to record channel cooldown after privileged spawn"
	LogMsgClaimRejected        = "Claim rejected"
)

// ============================================================================
// Rejection Reasons
// ============================================================================

// Reason values carried on claim_rejected events and used as metric labels
const (
	ReasonInvalidSlot  = "invalid_slot"
	ReasonNotClaimable = "not_claimable"
	ReasonCooldown     = "cooldown"
	ReasonLedger       = "ledger"
	ReasonInternal     = "internal"
)

// Cooldown kinds carried on cooldown.blocked events
const (
	CooldownKindClaim   = "claim"
	CooldownKindChannel = "channel"
)
