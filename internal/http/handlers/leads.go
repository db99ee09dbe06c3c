package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/onsitehq/salespulse-backend/internal/http/response"
	pkgerrors "github.com/onsitehq/salespulse-backend/internal/pkg/errors"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
	"github.com/onsitehq/salespulse-backend/internal/services"
)

type LeadsHandler struct {
	log   *logger.Logger
	query services.QueryService
	merge services.MergeService
}

func NewLeadsHandler(log *logger.Logger, query services.QueryService, merge services.MergeService) *LeadsHandler {
	return &LeadsHandler{
		log:   log.With("handler", "LeadsHandler"),
		query: query,
		merge: merge,
	}
}

// GET /api/leads?page=&per_page=&stage=&search=
func (h *LeadsHandler) ListLeads(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))

	result, err := h.query.ListLeads(c.Request.Context(), services.ListLeadsOptions{
		Stage:   c.Query("stage"),
		Search:  c.Query("search"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.log.Error("ListLeads failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "load_leads_failed", err)
		return
	}
	response.RespondOK(c, result)
}

// GET /api/leads/count
func (h *LeadsHandler) CountLeads(c *gin.Context) {
	n, err := h.query.CountLeads(c.Request.Context())
	if err != nil {
		h.log.Error("CountLeads failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "count_leads_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"count": n})
}

// GET /api/leads/duplicates
func (h *LeadsHandler) ListDuplicates(c *gin.Context) {
	groups, err := h.query.ListDuplicateGroups(c.Request.Context())
	if err != nil {
		h.log.Error("ListDuplicates failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "load_duplicates_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"groups": groups, "total": len(groups)})
}

// GET /api/leads/:zoho_lead_id
func (h *LeadsHandler) GetLead(c *gin.Context) {
	zohoLeadID := strings.TrimSpace(c.Param("zoho_lead_id"))
	if zohoLeadID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_lead_id", pkgerrors.ErrInvalidArgument)
		return
	}

	lead, err := h.query.GetLead(c.Request.Context(), zohoLeadID)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		response.RespondError(c, http.StatusNotFound, "lead_not_found", err)
		return
	}
	if err != nil {
		h.log.Error("GetLead failed", "error", err, "zoho_lead_id", zohoLeadID)
		response.RespondError(c, http.StatusInternalServerError, "load_lead_failed", err)
		return
	}
	response.RespondOK(c, lead)
}

// PATCH /api/leads/:zoho_lead_id
// Applies a manual tracked-field edit through the same merge policy as an
// upload: blank values never clear stored data, and the edit lands in the
// upload history with source tag "manual".
func (h *LeadsHandler) PatchLead(c *gin.Context) {
	zohoLeadID := strings.TrimSpace(c.Param("zoho_lead_id"))
	if zohoLeadID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_lead_id", pkgerrors.ErrInvalidArgument)
		return
	}

	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	row := map[string]string{"zoho_lead_id": zohoLeadID}
	tracked := 0
	for _, field := range services.TrackedFields {
		if v, ok := body[field]; ok && strings.TrimSpace(v) != "" {
			row[field] = v
			tracked++
		}
	}
	if tracked == 0 {
		response.RespondError(c, http.StatusBadRequest, "no_tracked_fields", pkgerrors.ErrInvalidArgument)
		return
	}

	if _, err := h.query.GetLead(c.Request.Context(), zohoLeadID); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			response.RespondError(c, http.StatusNotFound, "lead_not_found", err)
			return
		}
		h.log.Error("PatchLead failed (load lead)", "error", err, "zoho_lead_id", zohoLeadID)
		response.RespondError(c, http.StatusInternalServerError, "load_lead_failed", err)
		return
	}

	result, err := h.merge.MergeBatch(c.Request.Context(), []map[string]string{row}, "manual edit", "manual")
	if err != nil {
		h.log.Error("PatchLead failed (merge)", "error", err, "zoho_lead_id", zohoLeadID)
		response.RespondError(c, http.StatusInternalServerError, "update_lead_failed", err)
		return
	}

	lead, err := h.query.GetLead(c.Request.Context(), zohoLeadID)
	if err != nil {
		h.log.Error("PatchLead failed (reload lead)", "error", err, "zoho_lead_id", zohoLeadID)
		response.RespondError(c, http.StatusInternalServerError, "load_lead_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"lead": lead, "merge": result})
}
