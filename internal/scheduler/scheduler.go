package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/PhotocardBot_Go/internal/logger"
	"github.com/osse101/PhotocardBot_Go/internal/worker"
)

const (
	LogMsgJobScheduled = "Job scheduled"
	LogMsgTickSkipped  = "Scheduler tick skipped, worker queue full"
)

// Scheduler enqueues jobs into a worker pool at fixed intervals
type Scheduler struct {
	workerPool *worker.Pool
	clock      clockwork.Clock
	quit       chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// New creates a new scheduler
func New(pool *worker.Pool, clock clockwork.Clock) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		clock:      clock,
		quit:       make(chan struct{}),
	}
}

// Schedule registers a job to run every interval, starting one interval from
// now. A tick that finds the worker queue full is dropped rather than queued
// behind the previous run.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	log := logger.FromContext(context.Background())
	log.Info(LogMsgJobScheduled, "interval", interval)

	ticker := s.clock.NewTicker(interval)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ticker.Chan():
				if !s.workerPool.TryEnqueue(job) {
					log.Warn(LogMsgTickSkipped, "interval", interval)
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs. Jobs already handed to the pool keep running.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	s.wg.Wait()
}
