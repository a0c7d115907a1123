package worker

import "errors"

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"
	LogMsgWorkerQueueFull   = "Worker queue full, job dropped"
)

// ============================================================================
// Log Messages - Timers
// ============================================================================

const (
	LogMsgTimerScheduled     = "Timer scheduled"
	LogMsgTimerSuperseded    = "Replacing pending timer"
	LogMsgTimersShuttingDown = "Shutting down timers"
	LogMsgTimerCancelled     = "Cancelled pending timer"
	LogMsgTimersShutdownDone = "Timer shutdown complete"
	LogMsgTimersShutdownSlow = "Timer shutdown timeout, some callbacks may still be running"
)

// ============================================================================
// Errors
// ============================================================================

var (
	ErrPoolStopped   = errors.New("worker pool stopped")
	ErrTimersStopped = errors.New("timer set shut down")
)
