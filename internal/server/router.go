package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/onsitehq/salespulse-backend/internal/http/handlers"
	"github.com/onsitehq/salespulse-backend/internal/http/middleware"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log              *logger.Logger
	AllowOrigins     []string
	LeadsHandler     *handlers.LeadsHandler
	UploadHandler    *handlers.UploadHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	AdminHandler     *handlers.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Leads
		api.GET("/leads", cfg.LeadsHandler.ListLeads)
		api.GET("/leads/count", cfg.LeadsHandler.CountLeads)
		api.GET("/leads/duplicates", cfg.LeadsHandler.ListDuplicates)
		api.GET("/leads/:zoho_lead_id", cfg.LeadsHandler.GetLead)
		api.PATCH("/leads/:zoho_lead_id", cfg.LeadsHandler.PatchLead)
		api.POST("/leads/upload", cfg.UploadHandler.UploadCSV)

		// Upload history
		api.GET("/uploads", cfg.UploadHandler.ListUploads)
		api.GET("/uploads/latest", cfg.UploadHandler.LatestUpload)

		// Analytics
		api.GET("/analytics/summary", cfg.AnalyticsHandler.Summary)

		// Admin
		api.DELETE("/admin/data", cfg.AdminHandler.ClearData)
	}

	return router
}
