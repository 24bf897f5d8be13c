package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mo-amir99/coursehub-server-go/internal/bootstrap"
	"github.com/mo-amir99/coursehub-server-go/internal/features/account"
	"github.com/mo-amir99/coursehub-server-go/internal/features/enrollment"
	"github.com/mo-amir99/coursehub-server-go/internal/features/feedback"
	"github.com/mo-amir99/coursehub-server-go/internal/http/routes"
	"github.com/mo-amir99/coursehub-server-go/pkg/bunny"
	"github.com/mo-amir99/coursehub-server-go/pkg/cache"
	"github.com/mo-amir99/coursehub-server-go/pkg/config"
	"github.com/mo-amir99/coursehub-server-go/pkg/database"
	"github.com/mo-amir99/coursehub-server-go/pkg/jobs"
	"github.com/mo-amir99/coursehub-server-go/pkg/logger"
	"github.com/mo-amir99/coursehub-server-go/pkg/metrics"
	"github.com/mo-amir99/coursehub-server-go/pkg/middleware"
	"github.com/mo-amir99/coursehub-server-go/pkg/request"
	"github.com/mo-amir99/coursehub-server-go/pkg/session"
	"github.com/mo-amir99/coursehub-server-go/pkg/socketio"
	"github.com/mo-amir99/coursehub-server-go/pkg/tracing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, cfg.Env, appLogger)
	if err != nil {
		appLogger.Error("tracing setup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			appLogger.Error("tracing shutdown failed", slog.String("error", err.Error()))
		}
	}()

	db, err := database.ConnectWithRetry(ctx, cfg.Database, appLogger, 5, time.Second, bootstrap.Models()...)
	if err != nil {
		appLogger.Error("database connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db, appLogger); err != nil {
			appLogger.Error("database close failed", slog.String("error", err.Error()))
		}
	}()

	if err := bootstrap.ApplyDatabaseMigrations(ctx, db, cfg, appLogger); err != nil {
		appLogger.Error("migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	accounts := account.NewService(db, account.TokenConfig{Secret: cfg.JWTSecret, Expiry: cfg.AccessTokenExpiry}, appLogger)
	bootstrap.EnsureDefaultAdmin(ctx, accounts, cfg.Admin, appLogger)

	cacheClient, err := cache.New(ctx, cfg.Redis, appLogger)
	if err != nil {
		appLogger.Error("cache connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cacheClient.Close()

	streamClient := bunny.NewStreamClient(cfg.Bunny)

	sockets := socketio.NewServer(appLogger, cfg.JWTSecret)
	defer sockets.Close()
	appLogger.Info("socket.io server initialized")

	if cfg.Jobs.Enabled {
		scheduler := jobs.NewScheduler(appLogger, 10*time.Minute)
		registry := enrollment.NewRegistry(db, appLogger)
		reviews := feedback.NewService(feedback.NewGormRepository(db), registry, appLogger)

		for _, job := range []jobs.Job{
			feedback.NewReconcileJob(db, reviews),
			enrollment.NewRecountJob(db, registry),
		} {
			if err := scheduler.Every(cfg.Jobs.ReconcileInterval, job); err != nil {
				appLogger.Error("job registration failed", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}

		scheduler.Start()
		defer scheduler.Stop()
	}

	router := gin.New()

	// Socket.IO gets only recovery and CORS.
	router.Use(middleware.Recovery(appLogger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.GET("/socket.io/*any", gin.WrapH(sockets.Handler()))
	router.POST("/socket.io/*any", gin.WrapH(sockets.Handler()))

	router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	router.Use(metrics.Middleware())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(appLogger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.RequestSizeLimit(1 << 20))
	router.Use(middleware.NewRateLimiter(cacheClient, cfg.RateLimit.Requests, cfg.RateLimit.Window, appLogger).Middleware())
	router.Use(request.Handler(appLogger))

	routes.Register(router, routes.Dependencies{
		Config:   cfg,
		DB:       db,
		Logger:   appLogger,
		Cache:    cacheClient,
		Stream:   streamClient,
		Sockets:  sockets,
		Sessions: session.NewManager(cfg.Session),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		appLogger.Info("server starting",
			slog.String("addr", cfg.ServerAddress()),
			slog.String("env", cfg.Env),
			slog.String("log_level", cfg.LogLevel),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server listen failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", slog.String("error", err.Error()))
	} else {
		appLogger.Info("server stopped gracefully")
	}
}
