package cooldown

import "time"

// =============================================================================
// Redis Constants
// =============================================================================

const (
	// DefaultRedisPrefix namespaces cooldown keys in a shared Redis
	DefaultRedisPrefix = "photocard:cooldown:"

	// DefaultRetention is how long a cooldown entry is kept in Redis after its
	// last write. It must be longer than the longest window in use.
	DefaultRetention = 48 * time.Hour
)

// =============================================================================
// Hash Constants
// =============================================================================

const (
	// HashMaskPositiveInt64 is the bit mask to ensure advisory lock keys are positive int64 values
	// This masks the MSB to avoid overflow warnings and ensure PostgreSQL compatibility
	HashMaskPositiveInt64 = 0x7FFFFFFFFFFFFFFF
)

// =============================================================================
// SQL Query Constants
// =============================================================================

const (
	// SQLAdvisoryLock acquires a PostgreSQL advisory transaction lock
	SQLAdvisoryLock = "SELECT pg_advisory_xact_lock($1)"

	// SQLSelectLastAt retrieves the last event timestamp for a subject
	SQLSelectLastAt = `
		SELECT last_at
		FROM cooldowns
		WHERE subject_key = $1
	`

	// SQLDeleteCooldown removes the cooldown entry for a subject
	SQLDeleteCooldown = `DELETE FROM cooldowns WHERE subject_key = $1`

	// SQLUpsertCooldownMax inserts a timestamp or moves an existing one forward, never backward
	SQLUpsertCooldownMax = `
		INSERT INTO cooldowns (subject_key, last_at)
		VALUES ($1, $2)
		ON CONFLICT (subject_key) DO UPDATE
		SET last_at = GREATEST(cooldowns.last_at, EXCLUDED.last_at)
	`
)

// =============================================================================
// Error Message Constants
// =============================================================================

const (
	// ErrMsgCheckCooldownFailed is returned when checking cooldown state fails
	ErrMsgCheckCooldownFailed = "failed to check cooldown: %w"

	// ErrMsgBeginTransactionFailed is returned when transaction initialization fails
	ErrMsgBeginTransactionFailed = "failed to begin transaction: %w"

	// ErrMsgAcquireLockFailed is returned when advisory lock acquisition fails
	ErrMsgAcquireLockFailed = "failed to acquire advisory lock: %w"

	// ErrMsgGetCooldownTxFailed is returned when retrieving cooldown within transaction fails
	ErrMsgGetCooldownTxFailed = "failed to get cooldown within transaction: %w"

	// ErrMsgUpdateCooldownFailed is returned when updating cooldown timestamp fails
	ErrMsgUpdateCooldownFailed = "failed to update cooldown: %w"

	// ErrMsgCommitTransactionFailed is returned when transaction commit fails
	ErrMsgCommitTransactionFailed = "failed to commit cooldown transaction: %w"

	// ErrMsgResetCooldownFailed is returned when manual cooldown reset fails
	ErrMsgResetCooldownFailed = "failed to reset cooldown: %w"

	// ErrMsgGetLastAtFailed is returned when retrieving the last event timestamp fails
	ErrMsgGetLastAtFailed = "failed to get last event time: %w"

	// ErrMsgReserveFailed is returned when the Redis reservation script fails
	ErrMsgReserveFailed = "failed to reserve cooldown: %w"

	// ErrMsgReleaseFailed is returned when a Redis reservation cannot be rolled back
	ErrMsgReleaseFailed = "failed to release cooldown reservation: %w"

	// ErrMsgActionNotRecorded prefixes RecordError
	ErrMsgActionNotRecorded = "action succeeded but cooldown for %s was not recorded: %v"

	// ErrMsgInvalidWindow is returned for a non-positive cooldown window
	ErrMsgInvalidWindow = "cooldown window must be positive"
)

// =============================================================================
// Log Message Constants
// =============================================================================

const (
	// LogMsgDevModeBypass is logged when dev mode bypasses cooldown enforcement
	LogMsgDevModeBypass = "DEV_MODE: Bypassing cooldown enforcement"

	// LogMsgRaceConditionDetected is logged when concurrent cooldown requests create a race condition
	LogMsgRaceConditionDetected = "Race condition detected - concurrent request on cooldown"

	// LogMsgCooldownEnforced is logged when cooldown is successfully enforced and updated
	LogMsgCooldownEnforced = "Cooldown enforced successfully"

	// LogMsgReservationReleased is logged when a failed action gives its reservation back
	LogMsgReservationReleased = "Cooldown reservation released after failed action"
)

// =============================================================================
// Error Message Format Strings (for ErrOnCooldown.Error())
// =============================================================================

const (
	// ErrFmtCooldownWithMinutes formats cooldown error with minutes and seconds
	ErrFmtCooldownWithMinutes = "%s on cooldown: %dm %ds remaining"

	// ErrFmtCooldownSecondsOnly formats cooldown error with seconds only
	ErrFmtCooldownSecondsOnly = "%s on cooldown: %ds remaining"
)

// =============================================================================
// Time Conversion Constants
// =============================================================================

const (
	// SecondsPerMinute is used for time duration calculations
	SecondsPerMinute = 60
)
