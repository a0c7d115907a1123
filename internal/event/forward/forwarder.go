// Package forward mirrors bus events to an external broker. Delivery is best
// effort: events are queued off the publishing goroutine and dropped when the
// queue is full, so a slow broker never holds up a claim.
package forward

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/osse101/PhotocardBot_Go/internal/event"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

// Sink delivers one encoded event. Key is a partition or routing hint.
type Sink interface {
	Send(ctx context.Context, evt event.Event, key string, body []byte) error
	Close() error
}

// Forwarder subscribes to the bus and hands events to a Sink from a single
// background goroutine
type Forwarder struct {
	sink  Sink
	queue chan event.Event

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// New starts a forwarder with the given queue size
func New(sink Sink, queueSize int) *Forwarder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	f := &Forwarder{
		sink:  sink,
		queue: make(chan event.Event, queueSize),
		stop:  make(chan struct{}),
	}
	f.wg.Add(1)
	go f.run()
	return f
}

// Register subscribes the forwarder to the given event types
func (f *Forwarder) Register(bus event.Bus, types ...event.Type) {
	for _, t := range types {
		bus.Subscribe(t, f.Handle)
	}
}

// Handle queues an event. It never returns an error so forwarding cannot
// affect the publisher.
func (f *Forwarder) Handle(ctx context.Context, evt event.Event) error {
	select {
	case <-f.stop:
		return nil
	default:
	}
	select {
	case f.queue <- evt:
	default:
		logger.FromContext(ctx).Warn(LogMsgForwardQueueFull, "event_type", evt.Type)
	}
	return nil
}

func (f *Forwarder) run() {
	defer f.wg.Done()
	for {
		select {
		case evt := <-f.queue:
			f.send(evt)
		case <-f.stop:
			for {
				select {
				case evt := <-f.queue:
					f.send(evt)
				default:
					return
				}
			}
		}
	}
}

func (f *Forwarder) send(evt event.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultSendTimeout)
	defer cancel()

	body, err := json.Marshal(evt)
	if err == nil {
		err = f.sink.Send(ctx, evt, partitionKey(evt), body)
	}
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgForwardFailed, "event_type", evt.Type, "error", err)
	}
}

// Shutdown flushes queued events and closes the sink
func (f *Forwarder) Shutdown(ctx context.Context) error {
	f.once.Do(func() { close(f.stop) })

	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.FromContext(ctx).Info(LogMsgForwarderStopped)
		return f.sink.Close()
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgForwardTimeout)
		return ctx.Err()
	}
}

// routingFields are the payload fields events are keyed by
type routingFields struct {
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
}

// partitionKey keeps the events of one channel or user in order
func partitionKey(evt event.Event) string {
	keyed, err := event.DecodePayload[routingFields](evt.Payload)
	switch {
	case err == nil && keyed.ChannelID != "":
		return "channel:" + keyed.ChannelID
	case err == nil && keyed.UserID != "":
		return "user:" + keyed.UserID
	default:
		return string(evt.Type)
	}
}
