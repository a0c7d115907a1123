package drop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/osse101/PhotocardBot_Go/internal/cooldown"
	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/event"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
	"github.com/osse101/PhotocardBot_Go/internal/rarity"
	"github.com/osse101/PhotocardBot_Go/internal/worker"
)

// Config holds the drop timing and sizing knobs
type Config struct {
	SlotsPerDrop    int
	ExpiryWindow    time.Duration
	UserCooldown    time.Duration
	ChannelCooldown time.Duration
	RenderTimeout   time.Duration
	// Boost shifts drop odds away from Common, see rarity.Adjust
	Boost float64
}

// DefaultConfig returns the standard drop settings
func DefaultConfig() Config {
	return Config{
		SlotsPerDrop:    DefaultSlotsPerDrop,
		ExpiryWindow:    DefaultExpiryWindow,
		UserCooldown:    DefaultUserCooldown,
		ChannelCooldown: DefaultChannelCooldown,
		RenderTimeout:   DefaultRenderTimeout,
	}
}

func (c Config) validate() error {
	switch {
	case c.SlotsPerDrop <= 0:
		return fmt.Errorf("%w: slots per drop must be positive", ErrInvalidConfig)
	case c.ExpiryWindow <= 0:
		return fmt.Errorf("%w: expiry window must be positive", ErrInvalidConfig)
	case c.UserCooldown <= 0 || c.ChannelCooldown <= 0:
		return fmt.Errorf("%w: cooldown windows must be positive", ErrInvalidConfig)
	case c.Boost < 0:
		return fmt.Errorf("%w: boost must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Deps are the collaborators a Manager needs. Renderer and Bus are optional.
type Deps struct {
	Catalog   Catalog
	Ledger    Ledger
	Transport Transport
	Renderer  Renderer
	Selector  *rarity.Selector
	Cooldowns cooldown.Tracker
	Bus       event.Bus
	Clock     clockwork.Clock
}

// Manager owns the live drops: it creates them, resolves claims against
// them and expires them.
type Manager struct {
	config Config
	deps   Deps

	live   *Registry
	timers *worker.TimerSet
}

// NewManager creates a drop manager
func NewManager(config Config, deps Deps) (*Manager, error) {
	if config.RenderTimeout <= 0 {
		config.RenderTimeout = DefaultRenderTimeout
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	for name, missing := range map[string]bool{
		"catalog":          deps.Catalog == nil,
		"ledger":           deps.Ledger == nil,
		"transport":        deps.Transport == nil,
		"rarity selector":  deps.Selector == nil,
		"cooldown tracker": deps.Cooldowns == nil,
	} {
		if missing {
			return nil, fmt.Errorf(ErrMsgMissingCollabFmt, name)
		}
	}
	if _, err := deps.Selector.Weights(config.Boost); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Manager{
		config: config,
		deps:   deps,
		live:   NewRegistry(),
		timers: worker.NewTimerSet(TimerSetName, deps.Clock),
	}, nil
}

// Config returns the manager's settings
func (m *Manager) Config() Config {
	return m.config
}

// Active returns the live drop in a channel
func (m *Manager) Active(channelID string) (*Record, bool) {
	return m.live.Get(channelID)
}

// ActiveCount returns the number of live drops
func (m *Manager) ActiveCount() int {
	return m.live.Len()
}

// ActiveDrops returns the live drops in no particular order
func (m *Manager) ActiveDrops() []*Record {
	return m.live.Snapshot()
}

// Spawn creates, posts and arms a new drop in the channel. It fails with
// domain.ErrAlreadyActive if the channel has a live drop and with
// domain.ErrInsufficientCatalog if no slot could be filled. Slots whose tier
// has no card are skipped as long as one slot is filled. Spawn does not
// look at cooldowns; see RequestSpawn.
func (m *Manager) Spawn(ctx context.Context, channelID string) (*Record, error) {
	return m.spawn(ctx, channelID, TriggerCommand)
}

func (m *Manager) spawn(ctx context.Context, channelID string, trigger Trigger) (*Record, error) {
	log := logger.FromContext(ctx)

	if _, ok := m.live.Get(channelID); ok {
		return nil, domain.ErrAlreadyActive
	}

	cards, err := m.drawCards(ctx)
	if err != nil {
		return nil, err
	}

	rec := newRecord(channelID, cards, m.deps.Clock.Now(), m.config.ExpiryWindow)
	rec.Trigger = trigger
	if !m.live.Register(rec) {
		return nil, domain.ErrAlreadyActive
	}

	view := DropView{
		DropID:    rec.ID,
		Options:   m.renderOptions(ctx, cards),
		Highest:   rec.HighestRarity(),
		ExpiresAt: rec.ExpiresAt,
	}

	handle, err := m.deps.Transport.Post(ctx, channelID, view)
	if err != nil {
		log.Error(LogMsgPostFailed, "channelID", channelID, "dropID", rec.ID, "error", err)
		if rec.transition(domain.DropExpired) {
			m.live.Remove(rec)
		}
		return nil, fmt.Errorf("%w: %w", ErrPostFailed, err)
	}
	rec.setHandle(handle)

	m.armExpiry(ctx, rec)

	if err := m.deps.Transport.OpenClaims(ctx, handle, len(rec.Options)); err != nil {
		log.Warn(LogMsgOpenClaimsFailed, "channelID", channelID, "dropID", rec.ID, "error", err)
	}

	log.Info(LogMsgDropSpawned, "channelID", channelID, "dropID", rec.ID, "trigger", trigger, "rarities", rec.Rarities())
	m.publish(ctx, event.New(event.DropSpawned, event.DropSpawnedPayloadV1{
		DropID:    rec.ID.String(),
		ChannelID: channelID,
		Rarities:  rec.Rarities(),
		ExpiresAt: rec.ExpiresAt,
		Trigger:   trigger.String(),
	}))
	return rec, nil
}

// drawCards picks one tier per slot and a random card of each tier
func (m *Manager) drawCards(ctx context.Context) ([]domain.Card, error) {
	log := logger.FromContext(ctx)

	tiers, err := m.deps.Selector.SelectN(m.config.SlotsPerDrop, m.config.Boost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgSelectRarity, err)
	}

	cards := make([]domain.Card, 0, len(tiers))
	for _, tier := range tiers {
		card, err := m.deps.Catalog.RandomCardOfTier(ctx, tier)
		if errors.Is(err, domain.ErrCardNotFound) || (err == nil && card == nil) {
			log.Debug(LogMsgSlotSkipped, "tier", tier)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgCatalogLookup, err)
		}
		cards = append(cards, *card)
	}

	if len(cards) == 0 {
		return nil, domain.ErrInsufficientCatalog
	}
	return cards, nil
}

// renderOptions renders every option concurrently. A failed render leaves
// that slot without an image.
func (m *Manager) renderOptions(ctx context.Context, cards []domain.Card) []OptionView {
	views := make([]OptionView, len(cards))
	for i, card := range cards {
		views[i] = OptionView{Slot: i, Card: card}
	}
	if m.deps.Renderer == nil {
		return views
	}

	log := logger.FromContext(ctx)
	renderCtx, cancel := context.WithTimeout(ctx, m.config.RenderTimeout)
	defer cancel()

	var g errgroup.Group
	for i := range views {
		g.Go(func() error {
			img, err := m.deps.Renderer.Render(renderCtx, views[i].Card, domain.RenderContext{Slot: i + 1})
			if err != nil {
				log.Warn(LogMsgRenderFailed, "cardID", views[i].Card.ID, "slot", i, "error", err)
				return nil
			}
			views[i].Image = img
			return nil
		})
	}
	_ = g.Wait()
	return views
}

// armExpiry schedules OnExpiry at the record's deadline
func (m *Manager) armExpiry(ctx context.Context, rec *Record) {
	delay := rec.ExpiresAt.Sub(m.deps.Clock.Now())
	err := m.timers.Schedule(ctx, rec.ID, delay, func() {
		m.OnExpiry(context.WithoutCancel(ctx), rec.ChannelID, rec.ID)
	})
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgScheduleExpiryFailed, "dropID", rec.ID, "error", err)
	}
}

// OnExpiry expires the channel's drop if it is still the drop identified by
// dropID, is still open, and its deadline has passed. It reports whether it
// did anything; a drop that was claimed first is left alone.
func (m *Manager) OnExpiry(ctx context.Context, channelID string, dropID uuid.UUID) bool {
	log := logger.FromContext(ctx)

	rec, ok := m.live.Get(channelID)
	if !ok || rec.ID != dropID {
		return false
	}
	if !rec.Expired(m.deps.Clock.Now()) {
		log.Warn(LogMsgExpiryEarly, "dropID", dropID)
		m.armExpiry(ctx, rec)
		return false
	}
	if !rec.transition(domain.DropExpired) {
		return false
	}
	m.live.Remove(rec)

	if handle, ok := rec.Handle(); ok {
		if err := m.deps.Transport.Update(ctx, handle, ExpiredView{DropID: rec.ID, Options: rec.Options}); err != nil {
			log.Warn(LogMsgUpdateFailed, "dropID", rec.ID, "error", err)
		}
	}

	log.Info(LogMsgDropExpired, "channelID", channelID, "dropID", rec.ID)
	m.publish(ctx, event.New(event.DropExpired, event.DropExpiredPayloadV1{
		DropID:    rec.ID.String(),
		ChannelID: channelID,
	}))
	return true
}

// ClaimOutcome describes a won claim
type ClaimOutcome struct {
	DropID       uuid.UUID
	ChannelID    string
	UserID       string
	Slot         int
	Card         domain.Card
	Ownership    *domain.Ownership
	ClaimedAfter time.Duration
}

// OnClaim runs one attempt through the claim race for the channel's drop.
// The winner's card is committed to the ledger and the drop is torn down.
// Losers get domain.ErrNotClaimable or domain.ErrInvalidSlot with no side
// effects. A ledger failure is returned as *LedgerError together with the
// outcome; the drop stays claimed.
func (m *Manager) OnClaim(ctx context.Context, attempt domain.ClaimAttempt) (*ClaimOutcome, error) {
	log := logger.FromContext(ctx)
	if attempt.At.IsZero() {
		attempt.At = m.deps.Clock.Now()
	}

	rec, ok := m.live.Get(attempt.ChannelID)
	if !ok {
		return nil, fmt.Errorf("%w: no active drop", domain.ErrNotClaimable)
	}
	if attempt.MessageID != "" {
		if handle, posted := rec.Handle(); !posted || handle.MessageID != attempt.MessageID {
			return nil, fmt.Errorf("%w: message does not belong to the active drop", domain.ErrNotClaimable)
		}
	}

	card, err := Resolve(rec, attempt)
	if err != nil {
		return nil, err
	}

	m.live.Remove(rec)
	m.timers.Cancel(rec.ID)

	outcome := &ClaimOutcome{
		DropID:       rec.ID,
		ChannelID:    rec.ChannelID,
		UserID:       attempt.UserID,
		Slot:         attempt.Slot,
		Card:         card,
		ClaimedAfter: attempt.At.Sub(rec.CreatedAt),
	}

	ownership, ledgerErr := m.deps.Ledger.CommitClaim(ctx, attempt.UserID, card)
	if ledgerErr != nil {
		log.Error(LogMsgLedgerAlert,
			"dropID", rec.ID, "userID", attempt.UserID, "cardID", card.ID, "error", ledgerErr)
	} else {
		outcome.Ownership = ownership
	}

	if handle, ok := rec.Handle(); ok {
		view := ClaimedView{
			DropID:       rec.ID,
			UserID:       attempt.UserID,
			Slot:         attempt.Slot,
			Card:         card,
			Ownership:    outcome.Ownership,
			LedgerFailed: ledgerErr != nil,
		}
		if err := m.deps.Transport.Update(ctx, handle, view); err != nil {
			log.Warn(LogMsgUpdateFailed, "dropID", rec.ID, "error", err)
		}
	}

	payload := event.DropClaimedPayloadV1{
		DropID:       rec.ID.String(),
		ChannelID:    rec.ChannelID,
		UserID:       attempt.UserID,
		Slot:         attempt.Slot,
		CardID:       card.ID,
		Rarity:       card.Rarity.String(),
		ClaimedAfter: outcome.ClaimedAfter,
		LedgerFailed: ledgerErr != nil,
	}
	if outcome.Ownership != nil {
		payload.Serial = outcome.Ownership.Serial
	}
	m.publish(ctx, event.New(event.DropClaimed, payload))

	if ledgerErr != nil {
		return outcome, &LedgerError{DropID: rec.ID, UserID: attempt.UserID, Err: ledgerErr}
	}

	log.Info(LogMsgDropClaimed, "channelID", rec.ChannelID, "dropID", rec.ID, "userID", attempt.UserID, "cardID", card.ID)
	return outcome, nil
}

// Shutdown cancels pending expiry timers and waits for running ones. Live
// drops are left as they are.
func (m *Manager) Shutdown(ctx context.Context) error {
	return m.timers.Shutdown(ctx)
}

func (m *Manager) publish(ctx context.Context, e event.Event) {
	if m.deps.Bus == nil {
		return
	}
	if err := m.deps.Bus.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", e.Type, "error", err)
	}
}
