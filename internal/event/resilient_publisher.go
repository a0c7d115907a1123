package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

type retryItem struct {
	event     Event
	attempt   int
	lastErr   error
	notBefore time.Time
}

// ResilientPublisher wraps a Bus so that a failed publish is retried in the
// background with exponential backoff and finally written to a dead-letter
// file. Publish never blocks the caller on retries.
type ResilientPublisher struct {
	inner      Bus
	maxRetries int
	baseDelay  time.Duration
	deadLetter *DeadLetterWriter

	retryQueue chan retryItem
	shutdown   chan struct{}
	once       sync.Once
	wg         sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(inner Bus, maxRetries int, baseDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		deadLetter: dl,
		retryQueue: make(chan retryItem, RetryQueueBufferSize),
		shutdown:   make(chan struct{}),
	}
	rp.wg.Add(1)
	go rp.retryWorker()
	return rp, nil
}

// Publish delivers the event to the inner bus. A failure is queued for
// retry and nil is returned.
func (rp *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	rp.PublishWithRetry(ctx, event)
	return nil
}

// PublishWithRetry is Publish without the error return
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := rp.inner.Publish(ctx, event)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", event.Type, "error", err)
	rp.enqueue(ctx, retryItem{
		event:     event,
		attempt:   1,
		lastErr:   err,
		notBefore: time.Now().Add(CalculateRetryDelay(rp.baseDelay, 1)),
	})
}

// Subscribe delegates to the inner bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.inner.Subscribe(eventType, handler)
}

func (rp *ResilientPublisher) enqueue(ctx context.Context, item retryItem) {
	select {
	case rp.retryQueue <- item:
	default:
		logger.FromContext(ctx).Error(LogMsgRetryQueueFull, "event_type", item.event.Type)
		rp.writeDeadLetter(ctx, item)
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()
	ctx := context.Background()
	log := logger.FromContext(ctx)

	for {
		select {
		case item := <-rp.retryQueue:
			if wait := time.Until(item.notBefore); wait > 0 {
				select {
				case <-time.After(wait):
				case <-rp.shutdown:
					rp.writeDeadLetter(ctx, item)
					continue
				}
			}

			err := rp.inner.Publish(ctx, item.event)
			if err == nil {
				log.Info(LogMsgEventRetrySucceeded, "event_type", item.event.Type, "attempt", item.attempt)
				continue
			}

			item.lastErr = err
			if item.attempt >= rp.maxRetries {
				log.Error(LogMsgEventRetryExhausted, "event_type", item.event.Type, "attempts", item.attempt)
				rp.writeDeadLetter(ctx, item)
				continue
			}

			item.attempt++
			item.notBefore = time.Now().Add(CalculateRetryDelay(rp.baseDelay, item.attempt))
			log.Warn(LogMsgEventRetryFailed, "event_type", item.event.Type, "attempt", item.attempt, "error", err)
			rp.enqueue(ctx, item)

		case <-rp.shutdown:
			rp.drain(ctx)
			return
		}
	}
}

// drain dead-letters whatever is still queued at shutdown
func (rp *ResilientPublisher) drain(ctx context.Context) {
	drained := 0
	for {
		select {
		case item := <-rp.retryQueue:
			rp.writeDeadLetter(ctx, item)
			drained++
		default:
			if drained > 0 {
				logger.FromContext(ctx).Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (rp *ResilientPublisher) writeDeadLetter(ctx context.Context, item retryItem) {
	if err := rp.deadLetter.Write(ctx, item.event, item.attempt, item.lastErr); err != nil {
		logger.FromContext(ctx).Error(LogMsgDeadLetterWriteFail, "event_type", item.event.Type, "error", err)
	}
}

// Shutdown stops the retry worker, dead-letters pending retries and closes
// the dead-letter file
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.once.Do(func() { close(rp.shutdown) })

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return rp.deadLetter.Close()
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
