package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/PhotocardBot_Go/internal/autospawn"
	"github.com/osse101/PhotocardBot_Go/internal/bootstrap"
	"github.com/osse101/PhotocardBot_Go/internal/catalog"
	"github.com/osse101/PhotocardBot_Go/internal/config"
	"github.com/osse101/PhotocardBot_Go/internal/cooldown"
	"github.com/osse101/PhotocardBot_Go/internal/database"
	"github.com/osse101/PhotocardBot_Go/internal/discord"
	"github.com/osse101/PhotocardBot_Go/internal/drop"
	"github.com/osse101/PhotocardBot_Go/internal/economy"
	"github.com/osse101/PhotocardBot_Go/internal/rarity"
	"github.com/osse101/PhotocardBot_Go/internal/render"
	"github.com/osse101/PhotocardBot_Go/internal/scheduler"
	"github.com/osse101/PhotocardBot_Go/internal/server"
	"github.com/osse101/PhotocardBot_Go/internal/worker"
)

const (
	shutdownTimeout  = 30 * time.Second
	autospawnWorkers = 1
	autospawnQueue   = 1
)

func main() {
	if err := run(); err != nil {
		slog.Error("PhotocardBot failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return fmt.Errorf("validate environment: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer logFile.Close()
	for _, w := range warnings {
		slog.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()

	dbPool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.PoolConfig{
		MaxConns:    cfg.DBMaxConns,
		MaxIdleTime: cfg.DBMaxConnIdleTime,
		MaxLifetime: cfg.DBMaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer dbPool.Close()

	version, err := database.Migrate(ctx, dbPool)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	slog.Info("Database schema ready", "version", version)

	repos := bootstrap.InitializeRepositories(dbPool, clock)

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}
	forwarder, err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus: bus,
		Config:   cfg,
	})
	if err != nil {
		return err
	}

	selector := rarity.NewDefaultSelector(rand.NewSource(time.Now().UnixNano()))

	cards, err := catalog.NewCached(repos.Catalog, selector, catalog.CacheConfig{
		Size: catalog.DefaultCardCacheSize,
		TTL:  catalog.DefaultTierCacheTTL,
	})
	if err != nil {
		return fmt.Errorf("catalog cache: %w", err)
	}
	if counts, err := cards.CountByTier(ctx); err == nil {
		slog.Info("Catalog loaded", "cards_by_tier", counts)
	}

	cooldowns, closeCooldowns, err := newCooldownTracker(ctx, cfg, dbPool)
	if err != nil {
		return err
	}
	defer closeCooldowns()

	var renderer *render.Renderer
	var dropRenderer drop.Renderer
	if cfg.RenderEnabled {
		renderer, err = render.New(ctx, render.Config{
			ImageDir:  cfg.ImageDir,
			Timeout:   render.DefaultTimeout,
			CacheSize: render.DefaultCacheSize,
			ExecPath:  cfg.ChromePath,
		})
		if err != nil {
			return fmt.Errorf("start renderer: %w", err)
		}
		dropRenderer = renderer
	}

	bot, err := discord.New(discord.Config{
		Token:   cfg.DiscordToken,
		AppID:   cfg.DiscordAppID,
		GuildID: cfg.DiscordGuildID,
	}, clock)
	if err != nil {
		return err
	}

	manager, err := drop.NewManager(drop.Config{
		SlotsPerDrop:    cfg.Game.SlotsPerDrop,
		ExpiryWindow:    cfg.Game.ExpiryWindow(),
		UserCooldown:    cfg.Game.UserCooldown(),
		ChannelCooldown: cfg.Game.ChannelCooldown(),
		RenderTimeout:   render.DefaultTimeout,
	}, drop.Deps{
		Catalog:   cards,
		Ledger:    repos.Economy,
		Transport: bot.Transport(),
		Renderer:  dropRenderer,
		Selector:  selector,
		Cooldowns: cooldowns,
		Bus:       publisher,
		Clock:     clock,
	})
	if err != nil {
		return fmt.Errorf("drop manager: %w", err)
	}

	packs, err := economy.WithBoosts(economy.DefaultPacks(), cfg.Game.RarityBoostByPackTier, rarity.BaseWeights)
	if err != nil {
		return fmt.Errorf("pack boosts: %w", err)
	}
	econ, err := economy.NewService(economy.Deps{
		Repo:      repos.Economy,
		Cards:     cards,
		Selector:  selector,
		Cooldowns: cooldowns,
		Bus:       publisher,
		Clock:     clock,
	}, packs)
	if err != nil {
		return fmt.Errorf("economy service: %w", err)
	}

	bot.SetServices(&discord.Services{
		Drops:    manager,
		Economy:  econ,
		Cards:    cards,
		Channels: repos.Channels,
	})

	claimCtx, cancelClaims := context.WithCancel(ctx)
	go manager.Consume(claimCtx, bot.Claims())

	if err := bot.Start(); err != nil {
		cancelClaims()
		return err
	}
	forceUpdate := os.Getenv("DISCORD_FORCE_COMMAND_UPDATE") == "true"
	if err := bot.RegisterCommands(bot.Registry, forceUpdate); err != nil {
		// commands registered on a previous run keep working
		slog.Error("Failed to register commands", "error", err)
	}

	pool := worker.NewPool(autospawnWorkers, autospawnQueue)
	pool.Start()
	sched := scheduler.New(pool, clock)
	spawnJob, err := autospawn.NewJob(repos.Channels, manager, selector, cfg.Game.SpawnProbability)
	if err != nil {
		cancelClaims()
		return fmt.Errorf("autospawn job: %w", err)
	}
	sched.Schedule(cfg.Game.SpawnInterval(), spawnJob)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		RateLimit:      cfg.AdminRateLimit,
		RateBurst:      cfg.AdminRateBurst,
	}, server.Deps{
		DB:       dbPool,
		Gateway:  bot,
		Channels: repos.Channels,
		Drops:    manager,
		Cards:    cards,
		Economy:  econ,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err = <-serverErr:
		slog.Error("Admin API stopped", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Bot:                bot,
		Scheduler:          sched,
		WorkerPool:         pool,
		Drops:              manager,
		Forwarder:          forwarder,
		ResilientPublisher: publisher,
		Renderer:           renderer,
		CancelClaims:       cancelClaims,
	})
	return err
}

// newCooldownTracker builds the backend named by COOLDOWN_BACKEND. The
// returned func releases backend connections.
func newCooldownTracker(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool) (cooldown.Tracker, func(), error) {
	cc := cooldown.Config{DevMode: cfg.DevMode}
	if cfg.DevMode {
		slog.Warn("DEV_MODE is on, cooldowns are not enforced")
	}

	switch cfg.CooldownBackend {
	case config.CooldownBackendMemory:
		return cooldown.NewMemoryTracker(cc), func() {}, nil
	case config.CooldownBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return cooldown.NewRedisTracker(rdb, cc), func() { _ = rdb.Close() }, nil
	default:
		return cooldown.NewPostgresTracker(dbPool, cc), func() {}, nil
	}
}
