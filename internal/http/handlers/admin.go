package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onsitehq/salespulse-backend/internal/http/response"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
	"github.com/onsitehq/salespulse-backend/internal/services"
)

type AdminHandler struct {
	log   *logger.Logger
	query services.QueryService
}

func NewAdminHandler(log *logger.Logger, query services.QueryService) *AdminHandler {
	return &AdminHandler{
		log:   log.With("handler", "AdminHandler"),
		query: query,
	}
}

// DELETE /api/admin/data?confirm=true
// Erases every lead and upload record. Guarded by an explicit confirm flag
// because there is no undo.
func (h *AdminHandler) ClearData(c *gin.Context) {
	if c.Query("confirm") != "true" {
		response.RespondError(c, http.StatusBadRequest, "confirm_required", nil)
		return
	}

	if err := h.query.ClearAll(c.Request.Context()); err != nil {
		h.log.Error("ClearData failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "clear_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"cleared": true})
}
