package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/drop"
	"github.com/osse101/PhotocardBot_Go/internal/economy"
)

// MockRoundTripper implements http.RoundTripper for intercepting Discord API calls
type MockRoundTripper struct {
	mu       sync.Mutex
	requests []capturedRequest
}

type capturedRequest struct {
	Method string
	Path   string
	Body   []byte
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	m.mu.Lock()
	m.requests = append(m.requests, capturedRequest{Method: req.Method, Path: req.URL.Path, Body: body})
	m.mu.Unlock()

	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString("{}")),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// lastEdit decodes the most recent interaction response edit
func (m *MockRoundTripper) lastEdit(t *testing.T) discordgo.WebhookEdit {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for n := len(m.requests) - 1; n >= 0; n-- {
		if m.requests[n].Method == http.MethodPatch {
			var edit discordgo.WebhookEdit
			require.NoError(t, json.Unmarshal(m.requests[n].Body, &edit))
			return edit
		}
	}
	t.Fatal("no interaction response edit captured")
	return discordgo.WebhookEdit{}
}

// TestContext is a Discord session whose HTTP calls are captured
type TestContext struct {
	Session      *discordgo.Session
	DiscordMocks *MockRoundTripper
}

func SetupTestContext(t *testing.T) *TestContext {
	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)

	mocks := &MockRoundTripper{}
	session.Client = &http.Client{Transport: mocks}
	return &TestContext{Session: session, DiscordMocks: mocks}
}

// commandInteraction builds a slash command interaction from a guild member
func commandInteraction(name string, admin bool, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	var perms int64
	if admin {
		perms = discordgo.PermissionAdministrator
	}
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:        "interaction-1",
			AppID:     "app-1",
			Token:     "token-1",
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   "guild-1",
			ChannelID: "channel-1",
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
			Member: &discordgo.Member{
				User:        &discordgo.User{ID: "user-1", Username: "Tester"},
				Permissions: perms,
			},
		},
	}
}

// MockDrops is a func-field fake of DropService
type MockDrops struct {
	RequestSpawnFunc     func(ctx context.Context, channelID string, trigger drop.Trigger) (*drop.Record, error)
	ClaimRemainingFunc   func(ctx context.Context, userID string) (time.Duration, error)
	ChannelRemainingFunc func(ctx context.Context, channelID string) (time.Duration, error)
}

func (m *MockDrops) RequestSpawn(ctx context.Context, channelID string, trigger drop.Trigger) (*drop.Record, error) {
	if m.RequestSpawnFunc != nil {
		return m.RequestSpawnFunc(ctx, channelID, trigger)
	}
	return &drop.Record{ChannelID: channelID, Options: make([]domain.Card, 3), Trigger: trigger}, nil
}

func (m *MockDrops) ClaimCooldownRemaining(ctx context.Context, userID string) (time.Duration, error) {
	if m.ClaimRemainingFunc != nil {
		return m.ClaimRemainingFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockDrops) ChannelCooldownRemaining(ctx context.Context, channelID string) (time.Duration, error) {
	if m.ChannelRemainingFunc != nil {
		return m.ChannelRemainingFunc(ctx, channelID)
	}
	return 0, nil
}

// MockEconomy is a func-field fake of economy.Service
type MockEconomy struct {
	BalanceFunc     func(ctx context.Context, userID string) (int64, error)
	ClaimDailyFunc  func(ctx context.Context, userID string) (*economy.DailyResult, error)
	OpenPackFunc    func(ctx context.Context, userID, pack string) (*economy.PackResult, error)
	SellCardFunc    func(ctx context.Context, userID string, cardID int64) (*economy.SellResult, error)
	CollectionFunc  func(ctx context.Context, userID string) ([]domain.CollectionEntry, error)
	LeaderboardFunc func(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error)
	InventoryFunc   func(ctx context.Context, userID string) (*domain.Inventory, error)
	GiftFunc        func(ctx context.Context, fromUserID, toUserID string, cardID int64) (*economy.GiftResult, error)
	ViewCardFunc    func(ctx context.Context, userID string, cardID int64) (*economy.CardDetail, error)
}

func (m *MockEconomy) Balance(ctx context.Context, userID string) (int64, error) {
	if m.BalanceFunc != nil {
		return m.BalanceFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockEconomy) ClaimDaily(ctx context.Context, userID string) (*economy.DailyResult, error) {
	if m.ClaimDailyFunc != nil {
		return m.ClaimDailyFunc(ctx, userID)
	}
	return &economy.DailyResult{}, nil
}

func (m *MockEconomy) DailyRemaining(ctx context.Context, userID string) (time.Duration, error) {
	return 0, nil
}

func (m *MockEconomy) OpenPack(ctx context.Context, userID, pack string) (*economy.PackResult, error) {
	if m.OpenPackFunc != nil {
		return m.OpenPackFunc(ctx, userID, pack)
	}
	return &economy.PackResult{}, nil
}

func (m *MockEconomy) SellCard(ctx context.Context, userID string, cardID int64) (*economy.SellResult, error) {
	if m.SellCardFunc != nil {
		return m.SellCardFunc(ctx, userID, cardID)
	}
	return &economy.SellResult{}, nil
}

func (m *MockEconomy) Leaderboard(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(ctx, category, limit)
	}
	return nil, nil
}

func (m *MockEconomy) Collection(ctx context.Context, userID string) ([]domain.CollectionEntry, error) {
	if m.CollectionFunc != nil {
		return m.CollectionFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockEconomy) Inventory(ctx context.Context, userID string) (*domain.Inventory, error) {
	if m.InventoryFunc != nil {
		return m.InventoryFunc(ctx, userID)
	}
	return &domain.Inventory{UserID: userID}, nil
}

func (m *MockEconomy) Gift(ctx context.Context, fromUserID, toUserID string, cardID int64) (*economy.GiftResult, error) {
	if m.GiftFunc != nil {
		return m.GiftFunc(ctx, fromUserID, toUserID, cardID)
	}
	return &economy.GiftResult{}, nil
}

func (m *MockEconomy) ViewCard(ctx context.Context, userID string, cardID int64) (*economy.CardDetail, error) {
	if m.ViewCardFunc != nil {
		return m.ViewCardFunc(ctx, userID, cardID)
	}
	return &economy.CardDetail{}, nil
}

func (m *MockEconomy) Packs() []economy.Pack { return nil }

// MockChannels is a fake repository.Channels
type MockChannels struct {
	enabled map[string]bool
}

func (m *MockChannels) Channels(ctx context.Context) ([]string, error) {
	var ids []string
	for id := range m.enabled {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MockChannels) Enable(ctx context.Context, channelID string) (bool, error) {
	if m.enabled == nil {
		m.enabled = map[string]bool{}
	}
	if m.enabled[channelID] {
		return false, nil
	}
	m.enabled[channelID] = true
	return true, nil
}

func (m *MockChannels) Disable(ctx context.Context, channelID string) (bool, error) {
	if !m.enabled[channelID] {
		return false, nil
	}
	delete(m.enabled, channelID)
	return true, nil
}

// MockCards is a fixed-result CardSearcher
type MockCards struct {
	cards []domain.Card
	err   error
}

func (m *MockCards) Search(ctx context.Context, query string, limit int) ([]domain.Card, error) {
	return m.cards, m.err
}

func (m *MockCards) CardByID(ctx context.Context, id int64) (*domain.Card, error) {
	for _, c := range m.cards {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, domain.ErrCardNotFound
}
