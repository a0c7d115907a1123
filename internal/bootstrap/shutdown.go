package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/PhotocardBot_Go/internal/event"
	"github.com/osse101/PhotocardBot_Go/internal/event/forward"
	"github.com/osse101/PhotocardBot_Go/internal/render"
	"github.com/osse101/PhotocardBot_Go/internal/scheduler"
	"github.com/osse101/PhotocardBot_Go/internal/server"
	"github.com/osse101/PhotocardBot_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Any of them may be nil.
type ShutdownComponents struct {
	Server             *server.Server
	Bot                stoppable
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	Drops              shutdownableService
	Forwarder          *forward.Forwarder
	ResilientPublisher *event.ResilientPublisher
	Renderer           *render.Renderer
	// CancelClaims stops the claim consumer goroutine
	CancelClaims context.CancelFunc
}

type stoppable interface {
	Stop() error
}

type shutdownableService interface {
	Shutdown(context.Context) error
}

// GracefulShutdown stops components in dependency order:
//  1. HTTP server and the auto-spawn scheduler (no new drops)
//  2. Discord gateway and the claim consumer (no new claims)
//  3. Drop manager (pending expiry timers)
//  4. Forwarder and publisher (flush events)
//  5. Renderer (browser process)
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.WorkerPool != nil {
		c.WorkerPool.Stop()
	}

	if c.Bot != nil {
		if err := c.Bot.Stop(); err != nil {
			slog.Error(LogMsgBotStopFailed, "error", err)
		}
	}
	if c.CancelClaims != nil {
		c.CancelClaims()
	}

	if c.Drops != nil {
		shutdownService(ctx, ServiceNameDrops, c.Drops)
	}

	if c.Forwarder != nil {
		shutdownService(ctx, ServiceNameForwarder, c.Forwarder)
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if c.Renderer != nil {
		c.Renderer.Close()
	}

	slog.Info(LogMsgServerStopped)
}

func shutdownService(ctx context.Context, name string, service shutdownableService) {
	if err := service.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgServiceShutdownFailed, "error", err)
	}
}
