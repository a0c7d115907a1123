package domain

import "time"

// DropStatus is the claim status of a drop. Open is the only non-terminal state.
type DropStatus int32

const (
	DropOpen DropStatus = iota
	DropClaimed
	DropExpired
)

func (s DropStatus) String() string {
	switch s {
	case DropOpen:
		return "open"
	case DropClaimed:
		return "claimed"
	case DropExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// ClaimAttempt is one user's request to take a slot of the drop in a channel.
// MessageID is optional; when set it must match the drop's posted message.
type ClaimAttempt struct {
	ChannelID string
	UserID    string
	Slot      int
	At        time.Time
	MessageID string
}
