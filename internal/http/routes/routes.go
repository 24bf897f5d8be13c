package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/internal/features/access"
	"github.com/mo-amir99/coursehub-server-go/internal/features/account"
	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/internal/features/enrollment"
	"github.com/mo-amir99/coursehub-server-go/internal/features/feedback"
	"github.com/mo-amir99/coursehub-server-go/internal/features/lecture"
	"github.com/mo-amir99/coursehub-server-go/internal/features/player"
	"github.com/mo-amir99/coursehub-server-go/internal/features/progress"
	"github.com/mo-amir99/coursehub-server-go/internal/features/watchlist"
	"github.com/mo-amir99/coursehub-server-go/internal/middleware"
	"github.com/mo-amir99/coursehub-server-go/pkg/bunny"
	"github.com/mo-amir99/coursehub-server-go/pkg/cache"
	"github.com/mo-amir99/coursehub-server-go/pkg/config"
	"github.com/mo-amir99/coursehub-server-go/pkg/health"
	"github.com/mo-amir99/coursehub-server-go/pkg/session"
	"github.com/mo-amir99/coursehub-server-go/pkg/socketio"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

// Dependencies are the shared clients every feature is built from.
type Dependencies struct {
	Config   *config.Config
	DB       *gorm.DB
	Logger   *slog.Logger
	Cache    cache.Client
	Stream   *bunny.StreamClient
	Sockets  *socketio.Server
	Sessions *session.Manager
}

// Register wires all feature routes onto the engine.
func Register(engine *gin.Engine, deps Dependencies) {
	cfg, db, logger := deps.Config, deps.DB, deps.Logger

	// Probes and metrics live outside /api for orchestrators and scrapers.
	healthHandler := health.NewHandler(logger, map[string]health.Pinger{
		"database": health.DatabasePinger(db),
		"cache":    health.PingFunc(deps.Cache.Ping),
	})
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")

	accounts := account.NewService(db, account.TokenConfig{Secret: cfg.JWTSecret, Expiry: cfg.AccessTokenExpiry}, logger)
	auth := middleware.NewAuthenticator(accounts, deps.Sessions, cfg.JWTSecret, logger)

	optional := auth.OptionalAuth()
	required := auth.RequireAuth()
	instructors := auth.RequireRoles(types.UserTypeInstructor)

	catalog := lecture.NewCatalog(db)
	registry := enrollment.NewRegistry(db, logger)
	store := progress.NewStore(db)
	aggregator := progress.NewAggregator(catalog, registry, store, logger)
	gate := access.NewGate(catalog, registry, logger)

	google := account.NewGoogleSignIn(cfg.Google, deps.Cache)
	account.RegisterRoutes(api, account.NewHandler(accounts, deps.Sessions, google, logger), required)

	course.RegisterRoutes(api, course.NewHandler(db, logger), optional, instructors)
	lecture.RegisterRoutes(api, lecture.NewHandler(db, catalog, deps.Stream, logger), instructors)

	playerHandler := player.NewHandler(db, catalog, aggregator, store, registry, deps.Stream, logger)
	player.RegisterRoutes(api, playerHandler, optional, access.RequireLectureAccess(gate, "lectureId", logger))
	access.RegisterRoutes(api, access.NewHandler(gate, logger), optional)

	progress.RegisterRoutes(api, progress.NewHandler(store, aggregator, gate, deps.Sockets, logger), optional, required)
	enrollment.RegisterRoutes(api, enrollment.NewHandler(registry, aggregator, logger), optional, required)
	watchlist.RegisterRoutes(api, watchlist.NewHandler(db, logger), required)

	reviews := feedback.NewService(feedback.NewGormRepository(db), registry, logger)
	feedback.RegisterRoutes(api, feedback.NewHandler(reviews, logger), required)
}
