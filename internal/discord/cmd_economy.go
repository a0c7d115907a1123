package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/economy"
)

// DailyCommand pays the daily coin reward
func DailyCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdDaily,
		Description: "Collect your daily coins",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		handleEmbedResponse(s, i, func(ctx context.Context) (string, error) {
			res, err := svc.Economy.ClaimDaily(ctx, getInteractionUser(i).ID)
			if err != nil {
				return "", err
			}
			msg := fmt.Sprintf("You received **%d** coins", res.Amount)
			if res.Bonus > 0 {
				msg += fmt.Sprintf(" plus a **%d** coin bonus 🍀", res.Bonus)
			}
			return fmt.Sprintf("%s!\nBalance: **%d**", msg, res.Balance), nil
		}, ResponseConfig{
			Title: "💰 Daily Reward",
			Color: ColorSuccess,
		})
	}

	return cmd, handler
}

// BalanceCommand shows a user's coins
func BalanceCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdBalance,
		Description: "Show your coins",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        OptUser,
				Description: "Whose balance to show (default: you)",
				Required:    false,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		handleEmbedResponse(s, i, func(ctx context.Context) (string, error) {
			userID := targetUserID(i)
			coins, err := svc.Economy.Balance(ctx, userID)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("<@%s> has **%d** coins", userID, coins), nil
		}, ResponseConfig{
			Title: "🪙 Balance",
			Color: ColorInfo,
		})
	}

	return cmd, handler
}

// packChoices lists the shop packs cheapest first
func packChoices() []*discordgo.ApplicationCommandOptionChoice {
	packs := economy.DefaultPacks()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(packs))
	for _, name := range []string{domain.PackBasic, domain.PackPremium, domain.PackDeluxe} {
		p := packs[name]
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s (%d coins, %d cards)", titleCase(p.Name), p.Price, p.Cards),
			Value: p.Name,
		})
	}
	return choices
}

// BuyCommand opens a card pack
func BuyCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdBuy,
		Description: "Buy and open a card pack",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptPack,
				Description: "Pack to open",
				Required:    true,
				Choices:     packChoices(),
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		handleEmbedResponse(s, i, func(ctx context.Context) (string, error) {
			pack := optionMap(i)[OptPack].StringValue()
			res, err := svc.Economy.OpenPack(ctx, getInteractionUser(i).ID, pack)
			if err != nil {
				return "", err
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "**%s pack** opened for %d coins\n\n", titleCase(res.Pack.Name), res.Pack.Price)
			for _, c := range res.Cards {
				sb.WriteString(cardLine(c))
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "\nBalance: **%d**", res.Balance)
			return sb.String(), nil
		}, ResponseConfig{
			Title: "🎁 Pack Opened",
			Color: ColorSuccess,
		})
	}

	return cmd, handler
}

// SellCommand sells one copy of a card
func SellCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdSell,
		Description: "Sell one copy of a card you own",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionInteger,
				Name:         OptCardID,
				Description:  "Card to sell",
				Required:     true,
				Autocomplete: true,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		handleEmbedResponse(s, i, func(ctx context.Context) (string, error) {
			cardID := optionMap(i)[OptCardID].IntValue()
			res, err := svc.Economy.SellCard(ctx, getInteractionUser(i).ID, cardID)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Sold %s for **%d** coins\nBalance: **%d**", cardLine(res.Card), res.Price, res.Balance), nil
		}, ResponseConfig{
			Title: "💵 Sale Complete",
			Color: ColorSale,
		})
	}

	return cmd, handler
}

// CollectionCommand lists a user's cards
func CollectionCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdCollection,
		Description: "Show a photocard collection",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        OptUser,
				Description: "Whose collection to show (default: you)",
				Required:    false,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		handleEmbedResponse(s, i, func(ctx context.Context) (string, error) {
			userID := targetUserID(i)
			entries, err := svc.Economy.Collection(ctx, userID)
			if err != nil {
				return "", err
			}
			return formatCollection(userID, entries), nil
		}, ResponseConfig{
			Title: "📚 Collection",
			Color: ColorInfo,
		})
	}

	return cmd, handler
}

func formatCollection(userID string, entries []domain.CollectionEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("<@%s> has no photocards yet.", userID)
	}

	total := 0
	for _, e := range entries {
		total += e.Quantity
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<@%s> owns **%d** cards (%d unique)\n\n", userID, total, len(entries))
	for n, e := range entries {
		if n == CollectionPageSize {
			fmt.Fprintf(&sb, "…and %d more", len(entries)-n)
			break
		}
		fmt.Fprintf(&sb, "%s ×%d\n", cardLine(e.Card), e.Quantity)
	}
	return sb.String()
}

// LeaderboardCommand ranks users by coins, cards or drops claimed
func LeaderboardCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdLeaderboard,
		Description: "Show the top collectors",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptCategory,
				Description: "What to rank by (default: coins)",
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: titleCase(domain.LeaderboardCoins), Value: domain.LeaderboardCoins},
					{Name: titleCase(domain.LeaderboardCards), Value: domain.LeaderboardCards},
					{Name: titleCase(domain.LeaderboardDrops), Value: domain.LeaderboardDrops},
				},
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		category := domain.LeaderboardCoins
		if opt, ok := optionMap(i)[OptCategory]; ok {
			category = opt.StringValue()
		}
		handleEmbedResponse(s, i, func(ctx context.Context) (string, error) {
			entries, err := svc.Economy.Leaderboard(ctx, category, LeaderboardLimit)
			if err != nil {
				return "", err
			}
			return formatLeaderboard(entries), nil
		}, ResponseConfig{
			Title: "🏆 Leaderboard: " + titleCase(category),
			Color: ColorInfo,
		})
	}

	return cmd, handler
}

func formatLeaderboard(entries []domain.LeaderboardEntry) string {
	if len(entries) == 0 {
		return "Nobody here yet."
	}
	medals := []string{"🥇", "🥈", "🥉"}
	var sb strings.Builder
	for n, e := range entries {
		rank := fmt.Sprintf("%d.", n+1)
		if n < len(medals) {
			rank = medals[n]
		}
		fmt.Fprintf(&sb, "%s <@%s> · **%d**\n", rank, e.UserID, e.Value)
	}
	return sb.String()
}
