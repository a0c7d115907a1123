package autospawn

import "time"

const (
	// DefaultInterval is how often opted-in channels are considered
	DefaultInterval = 10 * time.Minute

	// DefaultProbability is the chance that an eligible channel gets a drop on a tick
	DefaultProbability = 0.6

	// JobName identifies the job in worker logs
	JobName = "autospawn"
)

const (
	LogMsgTickStarted      = "Auto-spawn tick started"
	LogMsgTickFinished     = "Auto-spawn tick finished"
	LogMsgSkipCooldown     = "Auto-spawn skipped, channel on cooldown"
	LogMsgSkipActive       = "Auto-spawn skipped, drop already active"
	LogMsgSkipRoll         = "Auto-spawn skipped by roll"
	LogMsgSpawnFailed      = "Auto-spawn failed"
	LogMsgCooldownCheckErr = "Auto-spawn cooldown check failed"
	LogMsgChannelEnabled   = "Auto-spawn enabled for channel"
	LogMsgChannelDisabled  = "Auto-spawn disabled for channel"
)

const (
	ErrMsgListChannelsFailed = "failed to list auto-spawn channels: %w"
	ErrMsgInvalidProbability = "spawn probability must be in [0,1]"
)
