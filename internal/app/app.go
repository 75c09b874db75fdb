package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Nazarious-ucu/fca-fines-api/docs"
	"github.com/Nazarious-ucu/fca-fines-api/internal/cache"
	"github.com/Nazarious-ucu/fca-fines-api/internal/config"
	"github.com/Nazarious-ucu/fca-fines-api/internal/content"
	contentHandler "github.com/Nazarious-ucu/fca-fines-api/internal/handlers/content"
	digestHandler "github.com/Nazarious-ucu/fca-fines-api/internal/handlers/digest"
	"github.com/Nazarious-ucu/fca-fines-api/internal/handlers/homepage"
	"github.com/Nazarious-ucu/fca-fines-api/internal/metrics"
	"github.com/Nazarious-ucu/fca-fines-api/internal/models"
	"github.com/Nazarious-ucu/fca-fines-api/internal/repository/postgres"
	"github.com/Nazarious-ucu/fca-fines-api/internal/services/digest"
	"github.com/Nazarious-ucu/fca-fines-api/internal/services/stats"
	"github.com/Nazarious-ucu/fca-fines-api/internal/sweeper"

	_ "github.com/lib/pq"
)

const (
	timeoutDuration = 5 * time.Second

	metricsNamespace = "fca_fines"
	breakerName      = "homepage-stats"
)

type statsProvider interface {
	Homepage(ctx context.Context) (models.HomepageStats, error)
}

type App struct {
	cfg config.Config
	log *zap.Logger
}

type ServiceContainer struct {
	DigestService *digest.Service
	StatsProvider statsProvider
	Catalog       *content.Catalog
	Sweeper       *sweeper.Sweeper
	Metrics       *metrics.Metrics

	Router *gin.Engine
	Srv    *http.Server
	Db     *sql.DB
	Redis  *redis.Client
}

func New(cfg config.Config, logger *zap.Logger) *App {
	return &App{
		cfg: cfg,
		log: logger.With(zap.String("component", "App")),
	}
}

// Init opens the database, applies migrations and builds every service.
func (a *App) Init(ctx context.Context) (ServiceContainer, error) {
	a.log.Info("Initializing application",
		zap.String("address", a.cfg.ServerAddress()),
		zap.String("base_url", a.cfg.BaseURL),
		zap.Bool("cache_enabled", a.cfg.CacheEnabled()),
	)

	db, err := CreateDb(ctx, a.cfg.DB.Dialect, a.cfg.DB.URL)
	if err != nil {
		return ServiceContainer{}, err
	}

	if err := InitDb(db, a.cfg.DB.Dialect, a.cfg.DB.MigrationsPath); err != nil {
		_ = db.Close()
		return ServiceContainer{}, err
	}

	catalog, err := content.Default()
	if err != nil {
		_ = db.Close()
		return ServiceContainer{}, err
	}

	m := metrics.NewMetrics(metricsNamespace, db, a.cfg.DB.Dialect)

	fineRepo := postgres.NewFineRepository(db, a.log, m)
	digestRepo := postgres.NewDigestRepository(db, a.log, m)

	var provider statsProvider = stats.NewBreakerProvider(breakerName, stats.NewService(fineRepo, a.log))

	var redisClient *redis.Client
	if a.cfg.CacheEnabled() {
		redisClient, err = cache.NewRedis(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
		if err != nil {
			a.log.Warn("redis unavailable, serving stats without cache", zap.Error(err))
			m.TechnicalErrors.WithLabelValues("redis_connect_error", "warning").Inc()
		} else {
			statsCache := cache.NewMetricsDecorator[models.HomepageStats](
				cache.NewRedisClient[models.HomepageStats](redisClient, a.log, a.cfg.Stats.CacheTTL),
				m,
			)
			provider = stats.NewCachedProvider(provider, statsCache, m, a.log)
		}
	}

	router := gin.New()
	router.Use(gin.Recovery(), m.HTTPMiddleware())

	apiServer := &http.Server{
		Addr:        a.cfg.ServerAddress(),
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	return ServiceContainer{
		DigestService: digest.NewService(digestRepo, m, a.log),
		StatsProvider: provider,
		Catalog:       catalog,
		Sweeper: sweeper.New(digestRepo, a.log, a.cfg.Digest.SweepSchedule,
			a.cfg.Digest.SweepGrace, m),
		Metrics: m,

		Router: router,
		Srv:    apiServer,
		Db:     db,
		Redis:  redisClient,
	}, nil
}

// RegisterRoutes mounts every endpoint on the container's router.
func (a *App) RegisterRoutes(srvContainer ServiceContainer) {
	verifyHandler := digestHandler.NewHandler(srvContainer.DigestService, a.cfg.BaseURL, a.log)
	statsHandler := homepage.NewHandler(srvContainer.StatsProvider,
		a.cfg.Stats.SharedMaxAge, a.cfg.Stats.BrowserMaxAge, a.log)
	catalogHandler := contentHandler.NewHandler(srvContainer.Catalog, srvContainer.Metrics)

	r := srvContainer.Router

	api := r.Group("/api")
	{
		api.GET("/digest/verify/:token", verifyHandler.Verify)
		api.GET("/digest/verify", verifyHandler.Verify)
		api.Any("/homepage/stats", statsHandler.Stats)

		api.GET("/articles", catalogHandler.ListArticles)
		api.GET("/articles/:slug", catalogHandler.GetArticle)
		api.GET("/reviews", catalogHandler.ListReviews)
		api.GET("/reviews/:year", catalogHandler.GetReview)
	}

	r.GET("/healthz", healthHandler(srvContainer.Db))
	r.GET("/metrics", gin.WrapH(srvContainer.Metrics.Handler()))
	r.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))
}

// Start serves HTTP and runs the sweeper until ctx is cancelled.
func (a *App) Start(ctx context.Context, srvContainer ServiceContainer) error {
	a.RegisterRoutes(srvContainer)

	if err := srvContainer.Sweeper.Start(ctx); err != nil {
		a.Stop(srvContainer)
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Starting server", zap.String("address", srvContainer.Srv.Addr))
		if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.log.Info("Shutdown signal received")
	case serveErr = <-errCh:
		if serveErr != nil {
			a.log.Error("HTTP server failed", zap.Error(serveErr))
		}
	}

	a.Stop(srvContainer)
	return serveErr
}

func (a *App) Stop(srvContainer ServiceContainer) {
	a.log.Info("Stopping application")

	srvContainer.Sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), timeoutDuration)
	defer cancel()

	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		a.log.Error("HTTP shutdown error", zap.Error(err))
	} else {
		a.log.Info("HTTP server stopped")
	}

	if srvContainer.Redis != nil {
		if err := srvContainer.Redis.Close(); err != nil {
			a.log.Error("Redis close error", zap.Error(err))
		}
	}

	if err := srvContainer.Db.Close(); err != nil {
		a.log.Error("DB close error", zap.Error(err))
	} else {
		a.log.Info("Database closed")
	}

	a.log.Info("Shutdown complete")
}

func CreateDb(ctx context.Context, dialect, url string) (*sql.DB, error) {
	if url == "" {
		return nil, errors.New("database url cannot be empty")
	}

	db, err := sql.Open(dialect, url)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func InitDb(db *sql.DB, dialect, migrationPath string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	return goose.Up(db, migrationPath)
}

func healthHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
