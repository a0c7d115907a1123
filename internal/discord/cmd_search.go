package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// CardCommand searches the catalog by member, group or era
func CardCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdCard,
		Description: "Search the photocard catalog",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         OptQuery,
				Description:  "Member, group or era",
				Required:     true,
				Autocomplete: true,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		query := optionMap(i)[OptQuery].StringValue()
		handleEmbedResponse(s, i, func(ctx context.Context) (string, error) {
			cards, err := svc.Cards.Search(ctx, query, SearchResultLimit)
			if err != nil {
				return "", err
			}
			if len(cards) == 0 {
				return fmt.Sprintf("No cards match **%s**.", query), nil
			}
			lines := make([]string, len(cards))
			for n, c := range cards {
				lines[n] = fmt.Sprintf("%s · %s", cardLine(c), era(c))
			}
			return strings.Join(lines, "\n"), nil
		}, ResponseConfig{
			Title: "🔎 Catalog",
			Color: ColorInfo,
		})
	}

	return cmd, handler
}
