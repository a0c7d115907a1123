package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/drop"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
	"github.com/osse101/PhotocardBot_Go/internal/render"
)

// messageAPI is the slice of *discordgo.Session the transport needs
type messageAPI interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageReactionRemove(channelID, messageID, emojiID, userID string, options ...discordgo.RequestOption) error
	MessageReactionsRemoveAll(channelID, messageID string, options ...discordgo.RequestOption) error
}

// Transport posts drops to Discord channels and turns claim outcomes into
// message edits. Users claim by reacting with a slot emoji.
type Transport struct {
	api messageAPI
}

// NewTransport creates a transport over a Discord session
func NewTransport(api messageAPI) *Transport {
	return &Transport{api: api}
}

// Post sends the drop embed with one image per rendered slot
func (t *Transport) Post(ctx context.Context, channelID string, content drop.Content) (drop.MessageHandle, error) {
	view, ok := content.(drop.DropView)
	if !ok {
		return drop.MessageHandle{}, fmt.Errorf(ErrMsgUnknownContent, content)
	}
	if len(view.Options) > len(SlotEmojis) {
		return drop.MessageHandle{}, fmt.Errorf(ErrMsgTooManySlots, len(view.Options), len(SlotEmojis))
	}

	msg, err := t.api.ChannelMessageSendComplex(channelID, dropMessage(view), discordgo.WithContext(ctx))
	if err != nil {
		return drop.MessageHandle{}, err
	}

	return drop.MessageHandle{ChannelID: channelID, MessageID: msg.ID}, nil
}

// OpenClaims seeds one reaction per slot on a posted drop. A failed reaction
// is logged and skipped; users can still add that emoji themselves.
func (t *Transport) OpenClaims(ctx context.Context, handle drop.MessageHandle, slots int) error {
	if slots > len(SlotEmojis) {
		return fmt.Errorf(ErrMsgTooManySlots, slots, len(SlotEmojis))
	}
	for slot := 0; slot < slots; slot++ {
		if err := t.api.MessageReactionAdd(handle.ChannelID, handle.MessageID, SlotEmojis[slot], discordgo.WithContext(ctx)); err != nil {
			logger.FromContext(ctx).Warn(LogMsgReactionAddFailed, "channel_id", handle.ChannelID, "slot", slot, "error", err)
		}
	}
	return nil
}

// Update replaces the drop post with its final state and clears the reactions
func (t *Transport) Update(ctx context.Context, handle drop.MessageHandle, content drop.Content) error {
	var embed *discordgo.MessageEmbed
	var announce string
	switch view := content.(type) {
	case drop.ClaimedView:
		embed = claimedEmbed(view)
		announce = fmt.Sprintf("🎉 <@%s> claimed **%s**!", view.UserID, view.Card.Member)
	case drop.ExpiredView:
		embed = expiredEmbed(view)
	default:
		return fmt.Errorf(ErrMsgUnknownContent, content)
	}

	if err := t.api.MessageReactionsRemoveAll(handle.ChannelID, handle.MessageID, discordgo.WithContext(ctx)); err != nil {
		logger.FromContext(ctx).Warn(LogMsgReactionClearFailed, "channel_id", handle.ChannelID, "error", err)
	}

	edit := &discordgo.MessageEdit{
		ID:          handle.MessageID,
		Channel:     handle.ChannelID,
		Embeds:      &[]*discordgo.MessageEmbed{embed},
		Attachments: &[]*discordgo.MessageAttachment{},
	}
	if _, err := t.api.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return err
	}

	if announce != "" {
		if _, err := t.api.ChannelMessageSend(handle.ChannelID, announce, discordgo.WithContext(ctx)); err != nil {
			logger.FromContext(ctx).Warn(LogMsgAnnounceFailed, "channel_id", handle.ChannelID, "error", err)
		}
	}
	return nil
}

// Reject takes the user's reaction back off the drop. Cooldown and ledger
// failures also get a mention so the user knows why.
func (t *Transport) Reject(ctx context.Context, attempt domain.ClaimAttempt, reason error) error {
	var errs []error
	if attempt.MessageID != "" && attempt.Slot >= 0 && attempt.Slot < len(SlotEmojis) {
		if err := t.api.MessageReactionRemove(attempt.ChannelID, attempt.MessageID, SlotEmojis[attempt.Slot], attempt.UserID, discordgo.WithContext(ctx)); err != nil {
			errs = append(errs, err)
		}
	}

	var ledgerErr *drop.LedgerError
	if errors.Is(reason, domain.ErrOnCooldown) || errors.As(reason, &ledgerErr) {
		notice := fmt.Sprintf("<@%s> %s", attempt.UserID, formatFriendlyError(reason))
		if _, err := t.api.ChannelMessageSend(attempt.ChannelID, notice, discordgo.WithContext(ctx)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func dropMessage(view drop.DropView) *discordgo.MessageSend {
	picks := make([]string, len(view.Options))
	for i := range view.Options {
		picks[i] = SlotEmojis[i]
	}

	main := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("✨ %d Photocards have appeared! ✨", len(view.Options)),
		Description: fmt.Sprintf("React with %s to pick a card!\n⏰ Expires <t:%d:R>",
			strings.Join(picks, ", "), view.ExpiresAt.Unix()),
		Color:     render.RarityColor(view.Highest),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: FooterPhotocard},
	}

	send := &discordgo.MessageSend{}
	embeds := []*discordgo.MessageEmbed{main}
	for _, opt := range view.Options {
		c := opt.Card
		main.Fields = append(main.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s %s %s", SlotEmojis[opt.Slot], rarityMarker(c.Rarity), c.Member),
			Value:  fmt.Sprintf("**%s**\n%s\n`%s`", c.Group, era(c), c.Rarity),
			Inline: true,
		})

		if opt.Image == nil {
			continue
		}
		name := fmt.Sprintf(attachmentNameFmt, opt.Slot+1)
		send.Files = append(send.Files, &discordgo.File{
			Name:        name,
			ContentType: imageContentType,
			Reader:      bytes.NewReader(opt.Image),
		})
		embeds = append(embeds, &discordgo.MessageEmbed{
			Color: render.RarityColor(c.Rarity),
			Image: &discordgo.MessageEmbedImage{URL: fmt.Sprintf(attachmentURLFmt, opt.Slot+1)},
		})
	}
	send.Embeds = embeds
	return send
}

func claimedEmbed(view drop.ClaimedView) *discordgo.MessageEmbed {
	c := view.Card
	embed := &discordgo.MessageEmbed{
		Title:       "🎉 Claimed!",
		Description: fmt.Sprintf("<@%s> claimed %s **%s** (%s)", view.UserID, rarityMarker(c.Rarity), c.Member, c.Group),
		Color:       render.RarityColor(c.Rarity),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Era", Value: era(c), Inline: true},
			{Name: "Rarity", Value: c.Rarity.String(), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: FooterPhotocard},
	}
	if view.Ownership != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Serial", Value: fmt.Sprintf("`%s`", view.Ownership.Serial), Inline: true,
		})
	}
	if view.LedgerFailed {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "⚠️", Value: MsgLedgerFailed})
	}
	return embed
}

func expiredEmbed(view drop.ExpiredView) *discordgo.MessageEmbed {
	names := make([]string, len(view.Options))
	for i, c := range view.Options {
		names[i] = fmt.Sprintf("%s %s", rarityMarker(c.Rarity), c.Member)
	}
	return &discordgo.MessageEmbed{
		Title:       "⏰ Expired",
		Description: "Nobody claimed in time.\n" + strings.Join(names, " · "),
		Color:       ColorExpired,
		Footer:      &discordgo.MessageEmbedFooter{Text: FooterPhotocard},
	}
}

var _ drop.Transport = (*Transport)(nil)
