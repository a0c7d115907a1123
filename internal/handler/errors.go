package handler

import "time"

// Generic HTTP error messages for client responses. They never carry
// internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidQueryParam     = "Invalid %s query parameter"

	ErrMsgListChannelsFailed  = "Failed to list drop channels"
	ErrMsgUpdateChannelFailed = "Failed to update drop channel"
	ErrMsgSpawnFailed         = "Failed to spawn drop"
	ErrMsgSearchFailed        = "Failed to search cards"
	ErrMsgLeaderboardFailed   = "Failed to retrieve leaderboard"
	ErrMsgCollectionFailed    = "Failed to retrieve collection"
	ErrMsgBalanceFailed       = "Failed to retrieve balance"
	ErrMsgInventoryFailed     = "Failed to retrieve inventory"
)

// Health statuses
const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
)

// Log messages
const (
	LogMsgReadinessFailed = "Readiness check failed"
	LogMsgEncodeFailed    = "Failed to encode JSON response"
	LogMsgWriteFailed     = "Failed to write response buffer"
	LogMsgChannelEnabled  = "Drop channel enabled"
	LogMsgChannelDisabled = "Drop channel disabled"
	LogMsgAdminSpawn      = "Admin drop spawned"
)

// Query defaults
const (
	DefaultSearchLimit      = 10
	MaxSearchLimit          = 25
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// ReadinessTimeout bounds each readiness probe
const ReadinessTimeout = 2 * time.Second
