package discord

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
)

// PingCommand reports gateway latency and command counters
func PingCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdPing,
		Description: "Check if the bot is alive",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		stats := Stats()
		embed := createEmbed("Pong! 🏓", "", ColorInfo, "")
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Gateway", Value: s.HeartbeatLatency().Round(time.Millisecond).String(), Inline: true},
			{Name: "Uptime", Value: stats.Uptime, Inline: true},
			{Name: "Commands", Value: fmt.Sprintf("%d served", stats.Received), Inline: true},
		}
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
		}); err != nil {
			slog.Error(LogMsgRespondFailed, "error", err)
		}
	}

	return cmd, handler
}
