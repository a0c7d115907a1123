package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/render"
)

// InventoryCommand summarises a user's cards, coins and drops claimed
func InventoryCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdInventory,
		Description: "Show an inventory summary",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        OptUser,
				Description: "Whose inventory to show (default: you)",
				Required:    false,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		if !deferResponse(s, i) {
			return
		}

		ctx, cancel := commandContext()
		defer cancel()

		userID := targetUserID(i)
		inv, err := svc.Economy.Inventory(ctx, userID)
		if err != nil {
			respondFriendlyError(s, i, err)
			return
		}

		embed := createEmbed("🎒 Inventory", fmt.Sprintf("<@%s>", userID), ColorInventory, "")
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "💳 Total Cards", Value: fmt.Sprint(inv.TotalCards), Inline: true},
			{Name: "✨ Unique Cards", Value: fmt.Sprint(inv.UniqueCards), Inline: true},
			{Name: "🪙 Coins", Value: fmt.Sprint(inv.Coins), Inline: true},
			{Name: "📊 Drops Claimed", Value: fmt.Sprint(inv.DropsClaimed), Inline: true},
		}
		if breakdown := rarityBreakdown(inv); breakdown != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "📈 By Rarity", Value: breakdown})
		}
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}

// rarityBreakdown lists non-empty tiers rarest first
func rarityBreakdown(inv *domain.Inventory) string {
	var lines []string
	for n := len(domain.Rarities) - 1; n >= 0; n-- {
		tier := domain.Rarities[n]
		if count := inv.ByRarity[tier]; count > 0 {
			lines = append(lines, fmt.Sprintf("%s %s: %d", rarityMarker(tier), tier, count))
		}
	}
	return strings.Join(lines, "\n")
}

// ViewCommand shows one card and how many copies the caller owns
func ViewCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdView,
		Description: "View a photocard and how many you own",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionInteger,
				Name:         OptCardID,
				Description:  "Card to view",
				Required:     true,
				Autocomplete: true,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		if !deferResponse(s, i) {
			return
		}

		ctx, cancel := commandContext()
		defer cancel()

		cardID := optionMap(i)[OptCardID].IntValue()
		detail, err := svc.Economy.ViewCard(ctx, getInteractionUser(i).ID, cardID)
		if err != nil {
			respondFriendlyError(s, i, err)
			return
		}

		c := detail.Card
		owned := MsgNotOwned
		if detail.Owned > 0 {
			owned = fmt.Sprintf("You own **%d**", detail.Owned)
		}
		embed := createEmbed(
			fmt.Sprintf("%s - %s", c.Member, c.Group),
			fmt.Sprintf("**Era:** %s\n**Rarity:** %s %s", era(c), rarityMarker(c.Rarity), c.Rarity),
			render.RarityColor(c.Rarity), "",
		)
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Owned", Value: owned, Inline: true},
			{Name: "ID", Value: fmt.Sprintf("`%d`", c.ID), Inline: true},
		}
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}

// GiftCommand hands one of the caller's cards to another member
func GiftCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdGift,
		Description: "Gift one of your photocards to another member",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        OptUser,
				Description: "Who receives the card",
				Required:    true,
			},
			{
				Type:         discordgo.ApplicationCommandOptionInteger,
				Name:         OptCardID,
				Description:  "Card to give away",
				Required:     true,
				Autocomplete: true,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		opts := optionMap(i)
		recipientID, _ := opts[OptUser].Value.(string)
		cardID := opts[OptCardID].IntValue()
		sender := getInteractionUser(i).ID

		handleEmbedResponse(s, i, func(ctx context.Context) (string, error) {
			if isBotUser(i, recipientID) {
				return "", fmt.Errorf("%w: bots cannot own cards", domain.ErrInvalidRecipient)
			}
			res, err := svc.Economy.Gift(ctx, sender, recipientID, cardID)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("<@%s> gave <@%s> %s", sender, recipientID, cardLine(res.Card)), nil
		}, ResponseConfig{
			Title: "🎁 Gift Sent!",
			Color: ColorSuccess,
		})
	}

	return cmd, handler
}

// isBotUser checks the resolved user data Discord sends with a user option
func isBotUser(i *discordgo.InteractionCreate, userID string) bool {
	resolved := i.ApplicationCommandData().Resolved
	if resolved == nil {
		return false
	}
	u, ok := resolved.Users[userID]
	return ok && u.Bot
}
