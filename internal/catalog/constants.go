package catalog

import "time"

// Cache defaults
const (
	DefaultCardCacheSize = 4096
	DefaultTierCacheTTL  = 5 * time.Minute
	DefaultSearchLimit   = 10
)

// Error messages
const (
	ErrMsgLoadTierFailed   = "failed to load cards of tier %s: %w"
	ErrMsgLoadCardFailed   = "failed to load card %d: %w"
	ErrMsgDecodeSeedFailed = "failed to decode catalog file: %w"
	ErrMsgEmptySeed        = "catalog file has no cards"
	ErrMsgDuplicateNumber  = "duplicate card number %q"
	ErrMsgInvalidEntryFmt  = "card %d (%s): %w"
)

// Log messages
const (
	LogMsgTierCached     = "Catalog tier cached"
	LogMsgCacheCleared   = "Catalog cache cleared"
	LogMsgSearchExecuted = "Catalog search executed"
)
