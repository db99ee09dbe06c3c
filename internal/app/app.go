package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/onsitehq/salespulse-backend/internal/data/repos"
	"github.com/onsitehq/salespulse-backend/internal/db"
	"github.com/onsitehq/salespulse-backend/internal/http/handlers"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
	"github.com/onsitehq/salespulse-backend/internal/server"
	"github.com/onsitehq/salespulse-backend/internal/services"
)

type Services struct {
	Merge     services.MergeService
	Query     services.QueryService
	Analytics services.AnalyticsService
}

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    repos.Set
	Services Services
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
	cfg := LoadConfig(log)

	store, err := db.NewSQLiteService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init sqlite: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("sqlite automigrate: %w", err)
	}
	theDB := store.DB()

	reposet := repos.Wire(theDB, log)

	serviceset := Services{
		Merge:     services.NewMergeService(theDB, log, reposet.Lead, reposet.UploadRecord),
		Query:     services.NewQueryService(theDB, log, reposet.Lead, reposet.UploadRecord),
		Analytics: services.NewAnalyticsService(log, reposet.Lead, reposet.UploadRecord),
	}

	router := server.NewRouter(server.RouterConfig{
		Log:              log,
		AllowOrigins:     cfg.AllowOrigins,
		LeadsHandler:     handlers.NewLeadsHandler(log, serviceset.Query, serviceset.Merge),
		UploadHandler:    handlers.NewUploadHandler(log, serviceset.Merge, serviceset.Query),
		AnalyticsHandler: handlers.NewAnalyticsHandler(log, serviceset.Analytics),
		AdminHandler:     handlers.NewAdminHandler(log, serviceset.Query),
	})

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
