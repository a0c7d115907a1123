package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jonboulle/clockwork"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/drop"
	"github.com/osse101/PhotocardBot_Go/internal/economy"
	"github.com/osse101/PhotocardBot_Go/internal/repository"
)

// DropService is the part of the drop manager commands use
type DropService interface {
	RequestSpawn(ctx context.Context, channelID string, trigger drop.Trigger) (*drop.Record, error)
	ClaimCooldownRemaining(ctx context.Context, userID string) (time.Duration, error)
	ChannelCooldownRemaining(ctx context.Context, channelID string) (time.Duration, error)
}

// CardSearcher looks cards up for /card and autocomplete
type CardSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Card, error)
	CardByID(ctx context.Context, id int64) (*domain.Card, error)
}

// Services are what command handlers act on
type Services struct {
	Drops    DropService
	Economy  economy.Service
	Cards    CardSearcher
	Channels repository.Channels
}

// Bot represents the Discord bot
type Bot struct {
	Session  *discordgo.Session
	AppID    string
	GuildID  string
	Registry *CommandRegistry

	services *Services
	clock    clockwork.Clock

	claims   chan domain.ClaimAttempt
	done     chan struct{}
	stopOnce sync.Once
}

// Config holds the bot configuration. An empty GuildID registers commands globally.
type Config struct {
	Token   string
	AppID   string
	GuildID string
}

// New creates a new Discord bot. Services can be attached later with SetServices
// for wiring orders where the drop manager needs the bot's transport first.
func New(cfg Config, clock clockwork.Clock) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateSession, err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessageReactions

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Bot{
		Session:  s,
		AppID:    cfg.AppID,
		GuildID:  cfg.GuildID,
		Registry: DefaultRegistry(),
		clock:    clock,
		claims:   make(chan domain.ClaimAttempt, ClaimQueueSize),
		done:     make(chan struct{}),
	}, nil
}

// SetServices attaches the services command handlers use
func (b *Bot) SetServices(svc *Services) {
	b.services = svc
}

// Transport returns the drop message transport backed by this bot's session
func (b *Bot) Transport() *Transport {
	return NewTransport(b.Session)
}

// Claims is the stream of claim attempts made by reacting to drop posts
func (b *Bot) Claims() <-chan domain.ClaimAttempt {
	return b.claims
}

// Start opens the gateway connection
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)
	b.Session.AddHandler(b.messageReactionAdd)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgOpenConnection, err)
	}

	slog.Info(LogMsgBotRunning)
	return nil
}

// Stop closes the gateway connection; reactions arriving afterwards are ignored
func (b *Bot) Stop() error {
	b.stopOnce.Do(func() { close(b.done) })
	return b.Session.Close()
}

// Ping reports whether the gateway session is ready
func (b *Bot) Ping(ctx context.Context) error {
	b.Session.RLock()
	ready := b.Session.DataReady
	b.Session.RUnlock()
	if !ready {
		return errors.New(ErrMsgGatewayNotReady)
	}
	return nil
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info(LogMsgBotReady, "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.Registry.Handle(s, i, b.services)
	case discordgo.InteractionApplicationCommandAutocomplete:
		HandleAutocomplete(s, i, b.services)
	}
}
