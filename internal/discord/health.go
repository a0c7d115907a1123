package discord

import (
	"sync/atomic"
	"time"
)

// CommandStats summarizes slash command traffic since start
type CommandStats struct {
	Received        int64     `json:"commands_received"`
	LastCommandTime time.Time `json:"last_command_time,omitempty"`
	Uptime          string    `json:"uptime"`
}

var (
	startTime       = time.Now()
	commandCounter  atomic.Int64
	lastCommandUnix atomic.Int64
)

// RecordCommand increments the command counter
func RecordCommand() {
	commandCounter.Add(1)
	lastCommandUnix.Store(time.Now().UnixNano())
}

// Stats returns the command counters
func Stats() CommandStats {
	stats := CommandStats{
		Received: commandCounter.Load(),
		Uptime:   time.Since(startTime).Round(time.Second).String(),
	}
	if last := lastCommandUnix.Load(); last != 0 {
		stats.LastCommandTime = time.Unix(0, last)
	}
	return stats
}
