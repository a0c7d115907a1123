package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Drop errors
	ErrMsgAlreadyActive       = "a drop is already active in this channel"
	ErrMsgInsufficientCatalog = "not enough cards in the catalog to fill a drop"
	ErrMsgInvalidSlot         = "invalid slot"
	ErrMsgNotClaimable        = "drop is not claimable"

	// Catalog errors
	ErrMsgCardNotFound   = "card not found"
	ErrMsgUnknownRarity  = "unknown rarity"
	ErrMsgInvalidCatalog = "invalid catalog entry"

	// Economy errors
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgUnknownPack       = "unknown pack"
	ErrMsgCardNotOwned      = "card not owned"
	ErrMsgUnknownCategory   = "unknown leaderboard category"
	ErrMsgInvalidRecipient  = "invalid gift recipient"

	// User errors
	ErrMsgUserNotFound = "user not found"

	// Cooldown errors
	ErrMsgOnCooldown = "on cooldown"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrAlreadyActive       = errors.New(ErrMsgAlreadyActive)
	ErrInsufficientCatalog = errors.New(ErrMsgInsufficientCatalog)
	ErrInvalidSlot         = errors.New(ErrMsgInvalidSlot)
	ErrNotClaimable        = errors.New(ErrMsgNotClaimable)

	ErrCardNotFound   = errors.New(ErrMsgCardNotFound)
	ErrUnknownRarity  = errors.New(ErrMsgUnknownRarity)
	ErrInvalidCatalog = errors.New(ErrMsgInvalidCatalog)

	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrUnknownPack       = errors.New(ErrMsgUnknownPack)
	ErrCardNotOwned      = errors.New(ErrMsgCardNotOwned)
	ErrUnknownCategory   = errors.New(ErrMsgUnknownCategory)
	ErrInvalidRecipient  = errors.New(ErrMsgInvalidRecipient)

	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	ErrOnCooldown = errors.New(ErrMsgOnCooldown)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
