package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/PhotocardBot_Go/internal/drop"
)

// DropCommand spawns a drop in the current channel. Administrators skip the
// channel cooldown.
func DropCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdDrop,
		Description: "Drop photocards in this channel",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		trigger := drop.TriggerCommand
		if isAdmin(i) {
			trigger = drop.TriggerAdmin
		}
		handleEmbedResponse(s, i, func(ctx context.Context) (string, error) {
			if i.GuildID == "" {
				return "", errors.New(ErrMsgNotInGuild)
			}
			rec, err := svc.Drops.RequestSpawn(ctx, i.ChannelID, trigger)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d cards are up for grabs, first reaction wins! Expires <t:%d:R>", len(rec.Options), rec.ExpiresAt.Unix()), nil
		}, ResponseConfig{
			Title: "🎴 Drop!",
			Color: ColorInfo,
		})
	}

	return cmd, handler
}

// DropChannelCommand opts the current channel into automatic drops (admin only)
func DropChannelCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:                     CmdDropChannel,
		Description:              "[ADMIN] Enable automatic drops in this channel",
		DefaultMemberPermissions: &adminPermission,
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		handleAdminChannel(s, i, svc, true)
	}

	return cmd, handler
}

// RemoveDropChannelCommand opts the current channel out of automatic drops (admin only)
func RemoveDropChannelCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:                     CmdRemoveDropChannel,
		Description:              "[ADMIN] Disable automatic drops in this channel",
		DefaultMemberPermissions: &adminPermission,
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		handleAdminChannel(s, i, svc, false)
	}

	return cmd, handler
}

func handleAdminChannel(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services, enable bool) {
	if !deferResponse(s, i) {
		return
	}
	// Permissions can be overridden per guild, so check again here
	if !isAdmin(i) {
		respondError(s, i, MsgAdminOnly)
		return
	}

	ctx, cancel := commandContext()
	defer cancel()

	var changed bool
	var err error
	if enable {
		changed, err = svc.Channels.Enable(ctx, i.ChannelID)
	} else {
		changed, err = svc.Channels.Disable(ctx, i.ChannelID)
	}
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	var msg string
	switch {
	case enable && changed:
		msg = "✅ Automatic drops enabled in this channel."
	case enable:
		msg = "Automatic drops were already enabled here."
	case changed:
		msg = "🛑 Automatic drops disabled in this channel."
	default:
		msg = "Automatic drops were not enabled here."
	}
	sendEmbed(s, i, createEmbed("Drop Channels", msg, ColorInfo, FooterPhotocardAdmin))
}

// CooldownCommand shows the caller's claim cooldown and this channel's drop cooldown
func CooldownCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdCooldown,
		Description: "Check your claim cooldown and this channel's drop cooldown",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		if !deferResponse(s, i) {
			return
		}

		ctx, cancel := commandContext()
		defer cancel()

		claimLeft, err := svc.Drops.ClaimCooldownRemaining(ctx, getInteractionUser(i).ID)
		if err != nil {
			respondFriendlyError(s, i, err)
			return
		}
		channelLeft, err := svc.Drops.ChannelCooldownRemaining(ctx, i.ChannelID)
		if err != nil {
			respondFriendlyError(s, i, err)
			return
		}

		embed := createEmbed("⏰ Cooldowns", "", ColorCooldown, "")
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "✋ Claim (you)", Value: cooldownStatus(claimLeft), Inline: true},
			{Name: "🎲 Drop (channel)", Value: cooldownStatus(channelLeft), Inline: true},
		}
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}
