package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/taskboard/server/internal/module/auth"
	"github.com/taskboard/server/internal/module/message"
	"github.com/taskboard/server/internal/module/project"
	"github.com/taskboard/server/internal/module/settings"
	"github.com/taskboard/server/internal/module/team"
	"github.com/taskboard/server/internal/module/user"
	sharedcache "github.com/taskboard/server/internal/shared/cache"
	"github.com/taskboard/server/internal/shared/config"
	"github.com/taskboard/server/internal/shared/database"
	"github.com/taskboard/server/internal/shared/logger"
	"github.com/taskboard/server/internal/shared/metrics"
	"github.com/taskboard/server/internal/shared/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App wires configuration, infrastructure and modules together.
type App struct {
	config    *config.Config
	db        *gorm.DB
	redis     redis.UniversalClient
	router    *gin.Engine
	logger    *logger.Logger
	zapLogger *zap.Logger
	metrics   *metrics.Metrics

	tokens *auth.TokenManager

	teamHandler     *team.Handler
	userHandler     *user.Handler
	projectHandler  *project.Handler
	messageHandler  *message.Handler
	settingsHandler *settings.Handler
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	app := &App{
		config:    cfg,
		logger:    log,
		zapLogger: zapLog,
		metrics:   metrics.New("taskboard"),
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	// Redis is optional: rate limiting and the message cache degrade
	// gracefully without it.
	if cfg.Redis.Address != "" {
		redisClient, err := sharedcache.NewRedisClient(&cfg.Redis)
		if err != nil {
			zapLog.Warn("redis connection failed, continuing without cache", zap.Error(err))
		} else {
			app.redis = redisClient
		}
	}

	app.initModules()
	app.router = app.setupRouter()

	return app, nil
}

// initModules constructs module services and handlers in dependency order.
func (a *App) initModules() {
	a.tokens = auth.NewTokenManager(
		a.config.Auth.JWTSecret,
		a.config.Auth.AccessTokenExpiry,
		a.config.Auth.Issuer,
	)

	// Team: the access and resolution layer everything else leans on.
	teamGateway := team.NewGateway(a.db, &team.GatewayConfig{
		BreakerFailureThreshold: a.config.Gateway.BreakerFailureThreshold,
		BreakerOpenTimeout:      a.config.Gateway.BreakerOpenTimeout,
		CallTimeout:             a.config.Gateway.CallTimeout,
	}, a.metrics)
	teamRepo := team.NewRepository(a.db)
	teamService := team.NewService(teamGateway, teamRepo, a.zapLogger, a.metrics)
	a.teamHandler = team.NewHandler(teamService)

	// User: accounts and profiles.
	userRepo := user.NewRepository(a.db)
	userService := user.NewService(userRepo, a.tokens, a.zapLogger)
	a.userHandler = user.NewHandler(userService)

	// Project: projects and tasks, gated through the team service.
	projectRepo := project.NewRepository(a.db)
	projectService := project.NewService(projectRepo, teamService, a.zapLogger)
	a.projectHandler = project.NewHandler(projectService)

	// Message: per-project board, membership gated, cached in Redis.
	messageRepo := message.NewRepository(a.db)
	messageService := message.NewService(messageRepo, teamService, a.redis, a.zapLogger)
	a.messageHandler = message.NewHandler(messageService)

	// Settings: workspace configuration, admin gated.
	settingsRepo := settings.NewRepository(a.db)
	settingsService := settings.NewService(settingsRepo, userService, a.zapLogger)
	a.settingsHandler = settings.NewHandler(settingsService)
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	if a.redis != nil {
		limiter := auth.NewRateLimiter(a.redis, "ratelimit")
		r.Use(middleware.RateLimit(limiter, middleware.RateLimitConfig{
			Limit:  a.config.RateLimit.Limit,
			Window: a.config.RateLimit.Window,
		}))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	a.userHandler.RegisterPublicRoutes(v1)

	authed := v1.Group("")
	authed.Use(middleware.RequireAuth(a.tokens))
	{
		a.userHandler.RegisterRoutes(authed)
		a.teamHandler.RegisterRoutes(authed)
		a.projectHandler.RegisterRoutes(authed)
		a.messageHandler.RegisterRoutes(authed)
		a.settingsHandler.RegisterRoutes(authed)
	}

	return r
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases infrastructure resources.
func (a *App) Stop() {
	if a.redis != nil {
		if err := sharedcache.Close(a.redis); err != nil {
			a.zapLogger.Warn("redis close failed", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.zapLogger.Warn("database close failed", zap.Error(err))
		}
	}
	_ = a.zapLogger.Sync()
}
