package drop

import (
	"context"
	"errors"
	"time"

	"github.com/osse101/PhotocardBot_Go/internal/cooldown"
	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/event"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

// Trigger says who asked for a drop
type Trigger int

const (
	TriggerCommand Trigger = iota
	TriggerAdmin
	TriggerAuto
)

func (t Trigger) String() string {
	switch t {
	case TriggerCommand:
		return "command"
	case TriggerAdmin:
		return "admin"
	case TriggerAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// RequestSpawn spawns a drop subject to the channel cooldown. The cooldown is
// only consumed if the spawn succeeds. An admin trigger skips the cooldown
// check but still stamps the spawn time, which can only push the next
// eligible time later.
func (m *Manager) RequestSpawn(ctx context.Context, channelID string, trigger Trigger) (*Record, error) {
	key := domain.ChannelCooldownKey(channelID)
	now := m.deps.Clock.Now()

	if trigger == TriggerAdmin {
		rec, err := m.spawn(ctx, channelID, trigger)
		if err != nil {
			return nil, err
		}
		if err := m.deps.Cooldowns.Record(ctx, key, now); err != nil {
			logger.FromContext(ctx).Warn(LogMsgCooldownRecordFailed, "channelID", channelID, "error", err)
		}
		return rec, nil
	}

	var rec *Record
	err := m.deps.Cooldowns.Enforce(ctx, key, m.config.ChannelCooldown, now, func() error {
		var spawnErr error
		rec, spawnErr = m.spawn(ctx, channelID, trigger)
		return spawnErr
	})
	var recordErr *cooldown.RecordError
	if errors.As(err, &recordErr) && rec != nil {
		logger.FromContext(ctx).Error(LogMsgCooldownAlert, "dropID", rec.ID, "channelID", channelID, "error", err)
		return rec, nil
	}
	if err != nil {
		m.publishCooldownBlocked(ctx, CooldownKindChannel, err)
		return nil, err
	}
	return rec, nil
}

// ChannelCooldownRemaining reports how long until the channel may spawn again
func (m *Manager) ChannelCooldownRemaining(ctx context.Context, channelID string) (time.Duration, error) {
	return m.deps.Cooldowns.Remaining(ctx, domain.ChannelCooldownKey(channelID), m.config.ChannelCooldown, m.deps.Clock.Now())
}

func (m *Manager) publishCooldownBlocked(ctx context.Context, kind string, err error) {
	var cd cooldown.ErrOnCooldown
	if !errors.As(err, &cd) {
		return
	}
	m.publish(ctx, event.New(event.CooldownBlocked, event.CooldownBlockedPayloadV1{
		Kind:      kind,
		Subject:   cd.Subject,
		Remaining: cd.Remaining,
	}))
}
