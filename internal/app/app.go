package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/bookshelf-backend/internal/clients/redis"
	"github.com/yungbote/bookshelf-backend/internal/data/db"
	internalhttp "github.com/yungbote/bookshelf-backend/internal/http"
	"github.com/yungbote/bookshelf-backend/internal/observability"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	cache  redisclient.BookCache
	cancel context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig()

	dbService, err := db.New(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := dbService.DB()

	metrics := observability.Init(log)

	// The cache is optional; a missing or unreachable redis means every book
	// detail read goes to the database.
	var cache redisclient.BookCache
	if cfg.RedisAddr != "" {
		cache, err = redisclient.NewBookCache(log, metrics)
		if err != nil {
			log.Warn("book cache unavailable, continuing without it", "error", err)
			cache = nil
		}
	}

	reposet := wireRepos(theDB, log)
	aggset := wireAggregates(theDB, log, reposet, metrics)
	serviceset := wireServices(theDB, log, cfg, reposet, aggset, cache)
	handlerset := wireHandlers(log, serviceset)
	authMW := wireMiddleware(log, serviceset)

	router := internalhttp.NewRouter(internalhttp.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		AuthHandler:     handlerset.Auth,
		AuthMiddleware:  authMW,
		BookHandler:     handlerset.Book,
		AuthorHandler:   handlerset.Author,
		CategoryHandler: handlerset.Category,
		HealthHandler:   handlerset.Health,
	})

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Metrics:  metrics,
		cache:    cache,
	}, nil
}

// Start launches the background collectors. Safe to call once.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Cfg.RedisAddr)
	}
}

func (a *App) Run() error {
	return a.Router.Run(a.Cfg.HTTPAddr)
}

func (a *App) Shutdown() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
