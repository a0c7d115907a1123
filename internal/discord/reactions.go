package discord

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

// slotForEmoji maps a slot reaction back to its zero-based slot
func slotForEmoji(name string) (int, bool) {
	for i, e := range SlotEmojis {
		if e == name {
			return i, true
		}
	}
	return 0, false
}

// claimAttempt turns a reaction into a claim. Reactions that are not slot
// emojis, or come from bots, are not claims.
func claimAttempt(r *discordgo.MessageReaction, member *discordgo.Member, at time.Time) (domain.ClaimAttempt, bool) {
	if member != nil && member.User != nil && member.User.Bot {
		return domain.ClaimAttempt{}, false
	}
	slot, ok := slotForEmoji(r.Emoji.Name)
	if !ok {
		return domain.ClaimAttempt{}, false
	}
	return domain.ClaimAttempt{
		ChannelID: r.ChannelID,
		UserID:    r.UserID,
		Slot:      slot,
		At:        at,
		MessageID: r.MessageID,
	}, true
}

func (b *Bot) messageReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	attempt, ok := claimAttempt(r.MessageReaction, r.Member, b.clock.Now())
	if !ok {
		return
	}
	b.submit(attempt)
}

// submit queues a claim for the drop manager; it blocks while the queue is
// full and gives up once the bot is stopped.
func (b *Bot) submit(attempt domain.ClaimAttempt) bool {
	select {
	case b.claims <- attempt:
		return true
	case <-b.done:
		slog.Debug(LogMsgClaimQueueClosed, "channel_id", attempt.ChannelID, "user_id", attempt.UserID)
		return false
	}
}
