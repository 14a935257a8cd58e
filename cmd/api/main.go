// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/lifesure-api/internal/admin"
	"github.com/carterperez-dev/lifesure-api/internal/agent"
	"github.com/carterperez-dev/lifesure-api/internal/application"
	"github.com/carterperez-dev/lifesure-api/internal/auth"
	"github.com/carterperez-dev/lifesure-api/internal/claim"
	"github.com/carterperez-dev/lifesure-api/internal/config"
	"github.com/carterperez-dev/lifesure-api/internal/core"
	"github.com/carterperez-dev/lifesure-api/internal/document"
	"github.com/carterperez-dev/lifesure-api/internal/health"
	"github.com/carterperez-dev/lifesure-api/internal/middleware"
	"github.com/carterperez-dev/lifesure-api/internal/payment"
	"github.com/carterperez-dev/lifesure-api/internal/policy"
	"github.com/carterperez-dev/lifesure-api/internal/review"
	"github.com/carterperez-dev/lifesure-api/internal/server"
	"github.com/carterperez-dev/lifesure-api/internal/user"
)

const (
	drainDelay = 5 * time.Second

	paymentRatePerMinute = 10
	paymentBurst         = 3
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

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	s3Client, err := document.NewS3Client(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	logger.Info("document storage configured",
		"bucket", cfg.Storage.Bucket,
		"region", cfg.Storage.Region,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("session codec initialized",
		"issuer", cfg.JWT.Issuer,
		"ttl", jwtManager.TTL(),
	)

	userSvc := user.NewService(user.NewRepository(db.DB))
	roles := auth.NewRoleResolver(userSvc)
	authSvc := auth.NewService(jwtManager, roles, userSvc, redis)
	guards := middleware.NewGuards(authSvc, roles, cfg.Cookie.Name)

	policySvc := policy.NewService(policy.NewRepository(db.DB))
	applicationSvc := application.NewService(
		application.NewRepository(db.DB),
		application.NewUnitOfWork(db),
		policySvc,
		roles,
		cfg.Lifecycle.AllowRedecision,
	)
	claimSvc := claim.NewService(claim.NewRepository(db.DB), applicationSvc)
	reviewSvc := review.NewService(
		review.NewRepository(db.DB),
		applicationSvc,
		logger,
	)
	agentSvc := agent.NewService(agent.NewRepository(db.DB), userSvc)
	paymentSvc := payment.NewService(
		payment.NewStripeGateway(cfg.Payment.StripeSecretKey),
		applicationSvc,
		cfg.Payment.Currency,
	)
	documentSvc := document.NewService(s3.NewPresignClient(s3Client), cfg.Storage)

	healthHandler := health.NewHandler(
		health.Check{Name: "database", Checker: db, Critical: true},
		health.Check{Name: "redis", Checker: redis, Critical: true},
		health.Check{
			Name:    "storage",
			Checker: document.NewBucketChecker(s3Client, cfg.Storage.Bucket),
		},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:           db.Stats,
		RedisStats:        redis.PoolStats,
		DBPing:            db.Ping,
		RedisPing:         redis.Ping,
		ApplicationCounts: applicationSvc.StatusCounts,
		ClaimCounts:       claimSvc.StatusCounts,
		PolicyTotal: func(ctx context.Context) (int, error) {
			_, total, err := policySvc.List(ctx, policy.ListParams{Page: 1, PageSize: 1})
			return total, err
		},
		UserTotal: func(ctx context.Context) (int, error) {
			_, total, err := userSvc.ListUsers(ctx, user.ListUsersParams{Page: 1, PageSize: 1})
			return total, err
		},
		Logger: logger,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
		ServiceName:   cfg.App.Name,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	paymentLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:   middleware.PerMinute(paymentRatePerMinute, paymentBurst),
		KeyFunc: middleware.KeyByRoute(middleware.KeyByCaller),
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		auth.NewHandler(authSvc, cfg.Cookie).RegisterRoutes(r, guards)

		userHandler := user.NewHandler(userSvc)
		userHandler.RegisterRoutes(r, guards)
		userHandler.RegisterAdminRoutes(r, guards)

		policy.NewHandler(policySvc).RegisterRoutes(r, guards)
		application.NewHandler(applicationSvc).RegisterRoutes(r, guards)

		// the upload route shares the /claims prefix and must exist before
		// the claims subrouter is mounted
		document.NewHandler(documentSvc).RegisterRoutes(r, guards)
		claim.NewHandler(claimSvc).RegisterRoutes(r, guards)

		payment.NewHandler(paymentSvc).RegisterRoutes(r, guards, paymentLimit)
		review.NewHandler(reviewSvc).RegisterRoutes(r, guards)
		agent.NewHandler(agentSvc).RegisterRoutes(r, guards)
		adminHandler.RegisterRoutes(r, guards)
	})

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
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
