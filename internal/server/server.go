package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/PhotocardBot_Go/internal/handler"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
	"github.com/osse101/PhotocardBot_Go/internal/metrics"
	"github.com/osse101/PhotocardBot_Go/internal/repository"
)

// Options carries the listener and security settings
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	RateLimit      float64
	RateBurst      int
}

// Deps are the services the HTTP surface reads from and acts on.
// DB and Gateway may be nil; readiness then skips them.
type Deps struct {
	DB       handler.Pinger
	Gateway  handler.Pinger
	Channels repository.Channels
	Drops    handler.DropController
	Cards    handler.CardFinder
	Economy  handler.EconomyReader
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, deps Deps) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           newRouter(opts, deps),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

func newRouter(opts Options, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	limiter := NewClientLimiter(opts.RateLimit, opts.RateBurst)

	r.Use(SecurityHeadersMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, limiter))
	r.Use(RateLimitMiddleware(opts.TrustedProxies, limiter))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.DB, deps.Gateway))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	cards := handler.NewCardHandlers(deps.Cards)
	economy := handler.NewEconomyHandlers(deps.Economy)
	channels := handler.NewChannelHandlers(deps.Channels)
	drops := handler.NewDropHandlers(deps.Drops)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cards", func(r chi.Router) {
			r.Get("/search", cards.HandleSearch)
			r.Get("/{cardID}", cards.HandleGet)
		})

		r.Get("/leaderboard/{category}", economy.HandleLeaderboard)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/balance", economy.HandleBalance)
			r.Get("/collection", economy.HandleCollection)
			r.Get("/inventory", economy.HandleInventory)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Route("/channels", func(r chi.Router) {
				r.Get("/", channels.HandleList)
				r.Post("/", channels.HandleEnable)
				r.Delete("/{channelID}", channels.HandleDisable)
			})
			r.Route("/drops", func(r chi.Router) {
				r.Get("/", drops.HandleList)
				r.Post("/", drops.HandleSpawn)
			})
		})
	})

	return r
}

// redactHeaders copies h with credential values replaced
func redactHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		if _, secret := sensitiveHeaders[http.CanonicalHeaderKey(k)]; secret {
			out[k] = []string{RedactedValue}
			continue
		}
		out[k] = v
	}
	return out
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Probes and scrapes are too frequent to log
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		log.Debug(LogMsgRequestHeaders, "headers", redactHeaders(r.Header))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Handler exposes the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
