package forward

import "time"

// Sink kinds accepted by EVENT_SINK
const (
	SinkNone  = "none"
	SinkAMQP  = "amqp"
	SinkKafka = "kafka"
)

// Forwarder defaults
const (
	DefaultQueueSize   = 512
	DefaultSendTimeout = 5 * time.Second

	DefaultAMQPExchange = "photocard.events"
	DefaultKafkaTopic   = "photocard-events"

	contentTypeJSON = "application/json"
	headerEventType = "event_type"
	headerVersion   = "schema_version"
	kafkaBatchDelay = 10 * time.Millisecond
)

// Log messages
const (
	LogMsgForwardQueueFull = "Event forward queue full, event dropped"
	LogMsgForwardFailed    = "Event forward failed"
	LogMsgForwarderStopped = "Event forwarder stopped"
	LogMsgForwardTimeout   = "Event forwarder shutdown timed out"
)
