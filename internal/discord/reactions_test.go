package discord

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

func TestSlotForEmoji(t *testing.T) {
	slot, ok := slotForEmoji("1️⃣")
	assert.True(t, ok)
	assert.Equal(t, 0, slot)

	slot, ok = slotForEmoji("3️⃣")
	assert.True(t, ok)
	assert.Equal(t, 2, slot)

	_, ok = slotForEmoji("👍")
	assert.False(t, ok)
}

func TestClaimAttempt(t *testing.T) {
	at := time.Unix(1700000000, 0)
	reaction := &discordgo.MessageReaction{
		UserID:    "u-1",
		MessageID: "msg-1",
		ChannelID: "chan-1",
		Emoji:     discordgo.Emoji{Name: "2️⃣"},
	}

	attempt, ok := claimAttempt(reaction, nil, at)
	require.True(t, ok)
	assert.Equal(t, domain.ClaimAttempt{ChannelID: "chan-1", UserID: "u-1", Slot: 1, At: at, MessageID: "msg-1"}, attempt)

	_, ok = claimAttempt(reaction, &discordgo.Member{User: &discordgo.User{ID: "u-1", Bot: true}}, at)
	assert.False(t, ok, "bots never claim")

	other := *reaction
	other.Emoji = discordgo.Emoji{Name: "🔥"}
	_, ok = claimAttempt(&other, nil, at)
	assert.False(t, ok)
}

func TestBot_Submit(t *testing.T) {
	b := &Bot{claims: make(chan domain.ClaimAttempt, 1), done: make(chan struct{})}

	assert.True(t, b.submit(domain.ClaimAttempt{UserID: "u-1"}))
	got := <-b.Claims()
	assert.Equal(t, "u-1", got.UserID)

	// Full queue after stop gives up instead of blocking forever
	b.claims <- domain.ClaimAttempt{}
	b.stopOnce.Do(func() { close(b.done) })
	assert.False(t, b.submit(domain.ClaimAttempt{UserID: "u-2"}))
}
