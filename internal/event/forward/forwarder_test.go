package forward

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PhotocardBot_Go/internal/event"
)

type sent struct {
	evt  event.Event
	key  string
	body []byte
}

type recordingSink struct {
	mu     sync.Mutex
	got    []sent
	err    error
	block  chan struct{}
	closed bool
}

func (s *recordingSink) Send(_ context.Context, evt event.Event, key string, body []byte) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, sent{evt: evt, key: key, body: body})
	return s.err
}

func (s *recordingSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *recordingSink) deliveries() []sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sent(nil), s.got...)
}

func TestForwarder_DeliversSubscribedEvents(t *testing.T) {
	sink := &recordingSink{}
	f := New(sink, 8)
	bus := event.NewMemoryBus()
	f.Register(bus, event.DropClaimed, event.PackOpened)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, event.New(event.DropClaimed, event.DropClaimedPayloadV1{ChannelID: "c1", UserID: "u1", CardID: 9})))
	require.NoError(t, bus.Publish(ctx, event.New(event.PackOpened, event.PackOpenedPayloadV1{UserID: "u2", Pack: "basic"})))
	require.NoError(t, bus.Publish(ctx, event.New(event.DropExpired, event.DropExpiredPayloadV1{ChannelID: "c1"})))

	require.NoError(t, f.Shutdown(ctx))

	got := sink.deliveries()
	require.Len(t, got, 2)
	assert.Equal(t, "channel:c1", got[0].key)
	assert.Equal(t, "user:u2", got[1].key)
	assert.True(t, sink.closed)

	var decoded struct {
		Version string                     `json:"version"`
		Type    event.Type                 `json:"type"`
		Payload event.DropClaimedPayloadV1 `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(got[0].body, &decoded))
	assert.Equal(t, event.DropClaimed, decoded.Type)
	assert.Equal(t, int64(9), decoded.Payload.CardID)
}

func TestForwarder_DropsWhenQueueFull(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	f := New(sink, 1)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.NoError(t, f.Handle(ctx, event.New(event.DropSpawned, event.DropSpawnedPayloadV1{ChannelID: "c"})))
	}
	close(sink.block)
	require.NoError(t, f.Shutdown(ctx))

	// one in flight plus one queued
	assert.LessOrEqual(t, len(sink.deliveries()), 2)
	assert.GreaterOrEqual(t, len(sink.deliveries()), 1)
}

func TestForwarder_SinkErrorsAreSwallowed(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}
	f := New(sink, 4)

	assert.NoError(t, f.Handle(context.Background(), event.New(event.CardSold, event.CardSoldPayloadV1{UserID: "u"})))
	require.NoError(t, f.Shutdown(context.Background()))
	assert.Len(t, sink.deliveries(), 1)
}

func TestForwarder_HandleAfterShutdownIsIgnored(t *testing.T) {
	sink := &recordingSink{}
	f := New(sink, 4)
	require.NoError(t, f.Shutdown(context.Background()))

	assert.NoError(t, f.Handle(context.Background(), event.New(event.CardSold, nil)))
	assert.Empty(t, sink.deliveries())
}

func TestPartitionKey(t *testing.T) {
	assert.Equal(t, "channel:c", partitionKey(event.New(event.DropExpired, event.DropExpiredPayloadV1{ChannelID: "c"})))
	assert.Equal(t, "user:u", partitionKey(event.New(event.DailyClaimed, event.DailyClaimedPayloadV1{UserID: "u"})))
	assert.Equal(t, string(event.DropSpawned), partitionKey(event.New(event.DropSpawned, nil)))
}

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaSink_Send(t *testing.T) {
	w := &fakeWriter{}
	s := &KafkaSink{w: w}

	evt := event.New(event.DropClaimed, nil)
	require.NoError(t, s.Send(context.Background(), evt, "channel:c", []byte(`{}`)))
	require.NoError(t, s.Close())

	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("channel:c"), w.msgs[0].Key)
	assert.Equal(t, kafka.Header{Key: headerEventType, Value: []byte(event.DropClaimed)}, w.msgs[0].Headers[0])
	assert.True(t, w.closed)
}

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return nil
}

func (c *fakeChannel) Close() error { return nil }

func TestAMQPSink_Send(t *testing.T) {
	ch := &fakeChannel{}
	s := &AMQPSink{ch: ch, exchange: DefaultAMQPExchange}

	evt := event.New(event.PackOpened, nil)
	require.NoError(t, s.Send(context.Background(), evt, "user:u", []byte(`{"a":1}`)))
	require.NoError(t, s.Close())

	assert.Equal(t, DefaultAMQPExchange, ch.exchange)
	assert.Equal(t, string(event.PackOpened), ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "user:u", ch.msg.CorrelationId)
	assert.Equal(t, []byte(`{"a":1}`), ch.msg.Body)
	assert.WithinDuration(t, time.Now(), ch.msg.Timestamp, time.Minute)
}
