package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onsitehq/salespulse-backend/internal/http/response"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
	"github.com/onsitehq/salespulse-backend/internal/services"
)

type AnalyticsHandler struct {
	log       *logger.Logger
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(log *logger.Logger, analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:       log.With("handler", "AnalyticsHandler"),
		analytics: analytics,
	}
}

// GET /api/analytics/summary
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summary, err := h.analytics.Summary(c.Request.Context())
	if err != nil {
		h.log.Error("Summary failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "load_summary_failed", err)
		return
	}
	response.RespondOK(c, summary)
}
