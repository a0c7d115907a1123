package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

// TimerSet tracks one-shot callbacks keyed by id. A callback that fires after
// its id was cancelled or rescheduled does nothing, and Shutdown waits for
// callbacks already running.
type TimerSet struct {
	name  string
	clock clockwork.Clock

	mu     sync.Mutex
	timers map[uuid.UUID]clockwork.Timer
	closed bool
	wg     sync.WaitGroup
}

// NewTimerSet creates an empty timer set. name is used in log lines.
func NewTimerSet(name string, clock clockwork.Clock) *TimerSet {
	return &TimerSet{
		name:   name,
		clock:  clock,
		timers: make(map[uuid.UUID]clockwork.Timer),
	}
}

// Schedule runs fn once after delay. Scheduling an id that is already
// pending replaces the earlier timer.
func (s *TimerSet) Schedule(ctx context.Context, id uuid.UUID, delay time.Duration, fn func()) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrTimersStopped
	}
	if existing, ok := s.timers[id]; ok {
		log.Debug(LogMsgTimerSuperseded, "timers", s.name, "id", id)
		existing.Stop()
		delete(s.timers, id)
	}

	var timer clockwork.Timer
	timer = s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		if current, ok := s.timers[id]; !ok || current != timer {
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
		s.wg.Add(1)
		s.mu.Unlock()

		defer s.wg.Done()
		fn()
	})
	s.timers[id] = timer

	log.Debug(LogMsgTimerScheduled, "timers", s.name, "id", id, "delay", delay)
	return nil
}

// Cancel stops the pending timer for id. It reports whether one was pending.
func (s *TimerSet) Cancel(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[id]
	if !ok {
		return false
	}
	timer.Stop()
	delete(s.timers, id)
	return true
}

// Pending returns the number of timers that have not fired yet
func (s *TimerSet) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Shutdown cancels all pending timers and waits for running callbacks
func (s *TimerSet) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgTimersShuttingDown, "timers", s.name)

	s.mu.Lock()
	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		log.Info(LogMsgTimerCancelled, "timers", s.name, "id", id)
	}
	s.timers = make(map[uuid.UUID]clockwork.Timer)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgTimersShutdownDone, "timers", s.name)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgTimersShutdownSlow, "timers", s.name)
		return ctx.Err()
	}
}
