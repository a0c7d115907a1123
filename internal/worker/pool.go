package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Named jobs are logged by name when they fail
type Named interface {
	Name() string
}

// Pool runs queued jobs on a fixed number of goroutines. Jobs receive a
// context that is cancelled when the pool stops.
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		ctx:      ctx,
		cancel:   cancel,
		log:      logger.FromContext(ctx),
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.run(job)
		case <-p.ctx.Done():
			return
		}
	}
}

// run keeps a panicking job from taking the worker down with it
func (p *Pool) run(job Job) {
	name := jobName(job)
	defer func() {
		if r := recover(); r != nil {
			p.log.Error(LogMsgWorkerJobPanicked, "job", name, "panic", r)
		}
	}()
	if err := job.Process(p.ctx); err != nil {
		p.log.Error(LogMsgWorkerJobFailed, "job", name, "error", err)
	}
}

// Enqueue blocks until the job is queued, ctx is done, or the pool stops
func (p *Pool) Enqueue(ctx context.Context, job Job) error {
	select {
	case p.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolStopped
	}
}

// TryEnqueue queues the job without blocking. It returns false if the queue
// is full or the pool has stopped.
func (p *Pool) TryEnqueue(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		p.log.Warn(LogMsgWorkerQueueFull, "job", jobName(job))
		return false
	}
}

// Stop cancels running jobs and waits for the workers to exit. Jobs still
// in the queue are dropped.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}

func jobName(job Job) string {
	if n, ok := job.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", job)
}
