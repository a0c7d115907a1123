package config

import "time"

// Cooldown backends accepted by COOLDOWN_BACKEND
const (
	CooldownBackendMemory   = "memory"
	CooldownBackendRedis    = "redis"
	CooldownBackendPostgres = "postgres"
)

// Server and database defaults
const (
	DefaultPort              = 8080
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute
	DefaultAdminRateLimit    = 5.0
	DefaultAdminRateBurst    = 10
	DefaultDeadLetterPath    = "logs/deadletter.jsonl"
)

// Game setting defaults
const (
	DefaultExpiryWindowSeconds    = 45
	DefaultUserCooldownSeconds    = 300
	DefaultChannelCooldownSeconds = 900
	DefaultSpawnIntervalSeconds   = 600
	DefaultSpawnProbability       = 0.6
	DefaultSlotsPerDrop           = 3

	// MaxPackBoost is the Common base weight; a larger boost would push
	// Common below zero
	MaxPackBoost = 0.5
)

// Environment variable names for game settings
const (
	EnvGameSettingsPath       = "GAME_SETTINGS_PATH"
	EnvExpiryWindowSeconds    = "EXPIRY_WINDOW_SECONDS"
	EnvUserCooldownSeconds    = "USER_COOLDOWN_SECONDS"
	EnvChannelCooldownSeconds = "CHANNEL_COOLDOWN_SECONDS"
	EnvSpawnIntervalSeconds   = "SPAWN_INTERVAL_SECONDS"
	EnvSpawnProbability       = "SPAWN_PROBABILITY"
	EnvSlotsPerDrop           = "SLOTS_PER_DROP"
	EnvRarityBoostByPackTier  = "RARITY_BOOST_BY_PACK_TIER"
)

// Error messages
const (
	ErrMsgInvalidPort         = "invalid PORT value"
	ErrMsgInvalidGameSettings = "invalid game settings"
	ErrMsgInvalidBoostEntry   = "invalid RARITY_BOOST_BY_PACK_TIER entry"
	ErrMsgReadSettingsFile    = "failed to read game settings file"
)
