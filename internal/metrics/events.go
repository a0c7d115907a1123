package metrics

import (
	"context"

	"github.com/osse101/PhotocardBot_Go/internal/event"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all drop and economy events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, eventType := range []event.Type{
		event.DropSpawned,
		event.DropClaimed,
		event.DropExpired,
		event.DropClaimRejected,
		event.CooldownBlocked,
		event.PackOpened,
		event.DailyClaimed,
		event.CardSold,
		event.CardGifted,
	} {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent updates metrics for one event. Payloads that cannot be
// decoded are counted as handler errors but never fail the publish.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	if err := record(evt); err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		logger.FromContext(ctx).Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}

	logger.FromContext(ctx).Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func record(evt event.Event) error {
	switch evt.Type {
	case event.DropSpawned:
		p, err := event.DecodePayload[event.DropSpawnedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		DropsSpawned.WithLabelValues(p.Trigger).Inc()
		DropsActive.Inc()

	case event.DropClaimed:
		p, err := event.DecodePayload[event.DropClaimedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		DropsClaimed.WithLabelValues(p.Rarity).Inc()
		DropsActive.Dec()
		ClaimLatency.Observe(p.ClaimedAfter.Seconds())
		if p.LedgerFailed {
			LedgerFailures.Inc()
		}

	case event.DropExpired:
		DropsExpired.Inc()
		DropsActive.Dec()

	case event.DropClaimRejected:
		p, err := event.DecodePayload[event.ClaimRejectedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		ClaimsRejected.WithLabelValues(p.Reason).Inc()

	case event.CooldownBlocked:
		p, err := event.DecodePayload[event.CooldownBlockedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		CooldownBlocked.WithLabelValues(p.Kind).Inc()

	case event.PackOpened:
		p, err := event.DecodePayload[event.PackOpenedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		PacksOpened.WithLabelValues(p.Pack).Inc()
		CoinsSpent.Add(float64(p.Price))

	case event.DailyClaimed:
		p, err := event.DecodePayload[event.DailyClaimedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		CoinsEarned.WithLabelValues(SourceDaily).Add(float64(p.Amount + p.Bonus))

	case event.CardSold:
		p, err := event.DecodePayload[event.CardSoldPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		CardsSold.WithLabelValues(p.Rarity).Inc()
		CoinsEarned.WithLabelValues(SourceSell).Add(float64(p.Price))

	case event.CardGifted:
		p, err := event.DecodePayload[event.CardGiftedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		CardsGifted.WithLabelValues(p.Rarity).Inc()
	}
	return nil
}
