package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onsitehq/salespulse-backend/internal/http/response"
	"github.com/onsitehq/salespulse-backend/internal/ingestion"
	pkgerrors "github.com/onsitehq/salespulse-backend/internal/pkg/errors"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
	"github.com/onsitehq/salespulse-backend/internal/services"
)

type UploadHandler struct {
	log   *logger.Logger
	merge services.MergeService
	query services.QueryService
}

func NewUploadHandler(log *logger.Logger, merge services.MergeService, query services.QueryService) *UploadHandler {
	return &UploadHandler{
		log:   log.With("handler", "UploadHandler"),
		merge: merge,
		query: query,
	}
}

// POST /api/leads/upload
// Accepts a multipart CRM CSV export and reconciles it against the store.
// Callers must serialize uploads; two concurrent merges against the same
// store race on their read-then-write sequences.
func (h *UploadHandler) UploadCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "open_file_failed", err)
		return
	}
	defer file.Close()

	rows, err := ingestion.ParseLeadRows(file)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_csv", err)
		return
	}

	sourceTag := c.DefaultPostForm("source_tag", "csv")

	result, err := h.merge.MergeBatch(c.Request.Context(), rows, fileHeader.Filename, sourceTag)
	if err != nil {
		h.log.Error("UploadCSV failed (merge batch)", "error", err, "file", fileHeader.Filename)
		response.RespondError(c, http.StatusInternalServerError, "merge_failed", err)
		return
	}

	response.RespondOK(c, result)
}

// GET /api/uploads
func (h *UploadHandler) ListUploads(c *gin.Context) {
	records, err := h.query.ListUploads(c.Request.Context())
	if err != nil {
		h.log.Error("ListUploads failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "load_uploads_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"uploads": records})
}

// GET /api/uploads/latest
func (h *UploadHandler) LatestUpload(c *gin.Context) {
	record, err := h.query.LatestUpload(c.Request.Context())
	if errors.Is(err, pkgerrors.ErrNotFound) {
		response.RespondError(c, http.StatusNotFound, "no_uploads", err)
		return
	}
	if err != nil {
		h.log.Error("LatestUpload failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "load_upload_failed", err)
		return
	}
	response.RespondOK(c, record)
}
