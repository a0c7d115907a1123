package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/PhotocardBot_Go/internal/config"
	"github.com/osse101/PhotocardBot_Go/internal/event"
	"github.com/osse101/PhotocardBot_Go/internal/event/forward"
	"github.com/osse101/PhotocardBot_Go/internal/metrics"
)

// ForwardedEventTypes are the bus events mirrored to an external broker
var ForwardedEventTypes = []event.Type{
	event.DropSpawned,
	event.DropClaimed,
	event.DropExpired,
	event.DropClaimRejected,
	event.CooldownBlocked,
	event.PackOpened,
	event.DailyClaimed,
	event.CardSold,
	event.CardGifted,
}

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Config   *config.Config
}

// RegisterEventHandlers subscribes the metrics collector and, when EVENT_SINK
// names a broker, the event forwarder. The forwarder is nil when forwarding
// is off.
func RegisterEventHandlers(deps EventHandlerDependencies) (*forward.Forwarder, error) {
	metrics.NewEventMetricsCollector().Register(deps.EventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	sink, err := NewEventSink(deps.Config)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		slog.Info(LogMsgEventForwardingDisabled)
		return nil, nil
	}

	fwd := forward.New(sink, forward.DefaultQueueSize)
	fwd.Register(deps.EventBus, ForwardedEventTypes...)
	slog.Info(LogMsgEventForwarderRegistered, "sink", deps.Config.EventSink)
	return fwd, nil
}

// NewEventSink builds the broker sink selected by cfg.EventSink. It returns
// nil for "none".
func NewEventSink(cfg *config.Config) (forward.Sink, error) {
	switch cfg.EventSink {
	case "", forward.SinkNone:
		return nil, nil
	case forward.SinkAMQP:
		if cfg.AMQPURL == "" {
			return nil, fmt.Errorf("%s: AMQP_URL is required", ErrMsgFailedCreateEventSink)
		}
		sink, err := forward.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateEventSink, err)
		}
		return sink, nil
	case forward.SinkKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("%s: KAFKA_BROKERS is required", ErrMsgFailedCreateEventSink)
		}
		return forward.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("%s: unknown EVENT_SINK %q", ErrMsgFailedCreateEventSink, cfg.EventSink)
	}
}
