package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// HandleAutocomplete routes autocomplete interactions to the appropriate handler
func HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
	data := i.ApplicationCommandData()

	var choices []*discordgo.ApplicationCommandOptionChoice
	switch data.Name {
	case CmdCard:
		choices = cardSearchChoices(i, svc)
	case CmdSell, CmdGift:
		choices = ownedCardChoices(i, svc)
	case CmdView:
		choices = catalogCardChoices(i, svc)
	default:
		slog.Warn(LogMsgUnhandledComplete, "command", data.Name)
		return
	}

	respondChoices(s, i, choices)
}

// focusedValue returns the text the user is typing
func focusedValue(i *discordgo.InteractionCreate) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Focused {
			return strings.ToLower(fmt.Sprint(opt.Value))
		}
	}
	return ""
}

func cardSearchChoices(i *discordgo.InteractionCreate, svc *Services) []*discordgo.ApplicationCommandOptionChoice {
	query := focusedValue(i)
	if query == "" {
		return nil
	}

	ctx, cancel := commandContext()
	defer cancel()

	cards, err := svc.Cards.Search(ctx, query, MaxAutocompleteChoices)
	if err != nil {
		slog.Error(LogMsgAutocompleteFailed, "command", CmdCard, "error", err)
		return nil
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(cards))
	for _, c := range cards {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s (%s) %s", c.Member, c.Group, era(c)),
			Value: c.Member,
		})
	}
	return choices
}

// catalogCardChoices offers catalog matches by id
func catalogCardChoices(i *discordgo.InteractionCreate, svc *Services) []*discordgo.ApplicationCommandOptionChoice {
	query := focusedValue(i)
	if query == "" {
		return nil
	}

	ctx, cancel := commandContext()
	defer cancel()

	cards, err := svc.Cards.Search(ctx, query, MaxAutocompleteChoices)
	if err != nil {
		slog.Error(LogMsgAutocompleteFailed, "command", CmdView, "error", err)
		return nil
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(cards))
	for _, c := range cards {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("#%d %s (%s) %s", c.ID, c.Member, c.Group, c.Rarity),
			Value: c.ID,
		})
	}
	return choices
}

// ownedCardChoices offers the caller's own cards, filtered by what they typed
func ownedCardChoices(i *discordgo.InteractionCreate, svc *Services) []*discordgo.ApplicationCommandOptionChoice {
	user := getInteractionUser(i)
	if user == nil {
		return nil
	}
	typed := focusedValue(i)

	ctx, cancel := commandContext()
	defer cancel()

	entries, err := svc.Economy.Collection(ctx, user.ID)
	if err != nil {
		slog.Error(LogMsgAutocompleteFailed, "command", i.ApplicationCommandData().Name, "error", err)
		return nil
	}

	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, e := range entries {
		c := e.Card
		label := fmt.Sprintf("#%d %s (%s) %s ×%d", c.ID, c.Member, c.Group, c.Rarity, e.Quantity)
		if typed != "" && !strings.Contains(strings.ToLower(label), typed) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  label,
			Value: c.ID,
		})
		if len(choices) >= MaxAutocompleteChoices {
			break
		}
	}
	return choices
}

func respondChoices(s *discordgo.Session, i *discordgo.InteractionCreate, choices []*discordgo.ApplicationCommandOptionChoice) {
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	}); err != nil {
		slog.Error(LogMsgRespondFailed, "error", err)
	}
}
