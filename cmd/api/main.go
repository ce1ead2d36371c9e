// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/safehaven/internal/auth"
	"github.com/carterperez-dev/safehaven/internal/chat"
	"github.com/carterperez-dev/safehaven/internal/config"
	"github.com/carterperez-dev/safehaven/internal/core"
	"github.com/carterperez-dev/safehaven/internal/haven"
	"github.com/carterperez-dev/safehaven/internal/health"
	"github.com/carterperez-dev/safehaven/internal/media"
	"github.com/carterperez-dev/safehaven/internal/middleware"
	"github.com/carterperez-dev/safehaven/internal/ops"
	"github.com/carterperez-dev/safehaven/internal/post"
	"github.com/carterperez-dev/safehaven/internal/realtime"
	"github.com/carterperez-dev/safehaven/internal/server"
	"github.com/carterperez-dev/safehaven/internal/user"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return err
	}
	if cfg.Otel.Enabled {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
		)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		logger.Info("database migrated")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token manager initialized",
		"algorithm", "HS256",
		"expires_in", cfg.JWT.AccessTokenExpire,
	)

	hub := realtime.NewHub(logger)

	userSvc := user.NewService(user.NewRepository(db.DB))
	userHandler := user.NewHandler(userSvc)

	authHandler := auth.NewHandler(auth.NewService(tokens, userSvc))

	havenSvc := haven.NewService(haven.NewRepository(db.DB), userSvc, cfg.Haven)
	havenHandler := haven.NewHandler(havenSvc)

	postHandler := post.NewHandler(
		post.NewService(post.NewRepository(db.DB), havenSvc),
	)

	chatHandler := chat.NewHandler(
		chat.NewService(chat.NewRepository(db.DB), havenSvc, hub),
	)

	realtimeHandler := realtime.NewHandler(hub, cfg.Realtime, cfg.CORS.AllowedOrigins)

	var mediaHandler *media.Handler
	if cfg.StorageEnabled() {
		presigner, presignErr := media.NewPresigner(ctx, cfg.Storage)
		if presignErr != nil {
			return presignErr
		}
		mediaHandler = media.NewHandler(media.NewService(presigner, userSvc, cfg.Storage))
		logger.Info("profile image storage enabled",
			"bucket", cfg.Storage.Bucket,
			"endpoint", cfg.Storage.Endpoint,
		)
	}

	healthHandler := health.NewHandler(
		health.NamedChecker{Name: "database", Checker: db},
		health.NamedChecker{Name: "redis", Checker: redis},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.Observability(logger, telemetry.Tracer)...)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen:   true,
			BypassFunc: bypassRateLimit,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		core.Message(w, "Safe Haven backend running")
	})

	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.AuthRequests,
			cfg.RateLimit.AuthBurst,
		),
		KeyFunc:  middleware.KeyByIPAndEndpoint,
		FailOpen: true,
	})
	authHandler.RegisterRoutes(router, authLimiter.Handler)

	authenticator := middleware.Authenticator(tokens)

	router.Route("/users", func(r chi.Router) {
		r.Use(authenticator)
		userHandler.RegisterRoutes(r)
		if mediaHandler != nil {
			mediaHandler.RegisterRoutes(r)
		}
	})

	router.Route("/havens", func(r chi.Router) {
		r.Use(authenticator)
		havenHandler.RegisterRoutes(r)
		postHandler.RegisterRoutes(r)
		chatHandler.RegisterRoutes(r)
	})

	realtimeHandler.RegisterRoutes(router)

	if cfg.Ops.StatsEnabled {
		ops.NewHandler(ops.HandlerConfig{
			DBStats:    db.Stats,
			DBPing:     db.Ping,
			RedisStats: redis.PoolStats,
			RedisPing:  redis.Ping,
			HubStats:   hub.Stats,
		}).RegisterRoutes(router, authenticator)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	drainDelay := cfg.Server.DrainDelay
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	hub.Close()

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// bypassRateLimit skips probes and the socket upgrade. Long-lived
// connections are bounded by the hub, not the request budget.
func bypassRateLimit(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/livez", "/readyz", "/ws":
		return true
	}
	return false
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
