package repository

import "context"

// Channels defines the interface for the auto-spawn opt-in set
type Channels interface {
	Channels(ctx context.Context) ([]string, error)
	Enable(ctx context.Context, channelID string) (bool, error)
	Disable(ctx context.Context, channelID string) (bool, error)
}
