package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/onsitehq/salespulse-backend/internal/data/repos/leads"
	"github.com/onsitehq/salespulse-backend/internal/data/repos/testutil"
	"github.com/onsitehq/salespulse-backend/internal/http/handlers"
	"github.com/onsitehq/salespulse-backend/internal/server"
	"github.com/onsitehq/salespulse-backend/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	log := testutil.Logger(t)
	leadRepo := leads.NewLeadRepo(db, log)
	uploadRepo := leads.NewUploadRecordRepo(db, log)

	merge := services.NewMergeService(db, log, leadRepo, uploadRepo)
	query := services.NewQueryService(db, log, leadRepo, uploadRepo)
	analytics := services.NewAnalyticsService(log, leadRepo, uploadRepo)

	return server.NewRouter(server.RouterConfig{
		Log:              log,
		LeadsHandler:     handlers.NewLeadsHandler(log, query, merge),
		UploadHandler:    handlers.NewUploadHandler(log, merge, query),
		AnalyticsHandler: handlers.NewAnalyticsHandler(log, analytics),
		AdminHandler:     handlers.NewAdminHandler(log, query),
	})
}

func uploadCSV(t *testing.T, router *gin.Engine, csv string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "leads.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/leads/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUploadCSVEndToEnd(t *testing.T) {
	router := newTestRouter(t)

	csv := strings.Join([]string{
		"zoho_lead_id,lead_phone,lead_status",
		"L1,+91 98765-43210,new",
		"L2,9876543210,contacted",
	}, "\n")

	rec := uploadCSV(t, router, csv)
	require.Equal(t, http.StatusOK, rec.Code)

	var result services.MergeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, 2, result.NewCount)
	require.Equal(t, 2, result.DuplicateCount)
	require.Len(t, result.DuplicateGroups, 1)

	// The summary toast data is also reachable through the read surface.
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, httptest.NewRequest(http.MethodGet, "/api/leads?search=L1", nil))
	require.Equal(t, http.StatusOK, listRec.Code)

	latestRec := httptest.NewRecorder()
	router.ServeHTTP(latestRec, httptest.NewRequest(http.MethodGet, "/api/uploads/latest", nil))
	require.Equal(t, http.StatusOK, latestRec.Code)
}

func TestUploadCSVRejectsMissingFile(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/leads/upload", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatchLead(t *testing.T) {
	router := newTestRouter(t)

	rec := uploadCSV(t, router, "zoho_lead_id,lead_status\nL1,new")
	require.Equal(t, http.StatusOK, rec.Code)

	body := strings.NewReader(`{"lead_status":"qualified","company_name":"ignored"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/leads/L1", body)
	req.Header.Set("Content-Type", "application/json")
	patchRec := httptest.NewRecorder()
	router.ServeHTTP(patchRec, req)
	require.Equal(t, http.StatusOK, patchRec.Code)

	var payload struct {
		Lead struct {
			Fields    map[string]string `json:"fields"`
			SourceTag string            `json:"source_tag"`
		} `json:"lead"`
	}
	require.NoError(t, json.Unmarshal(patchRec.Body.Bytes(), &payload))
	require.Equal(t, "qualified", payload.Lead.Fields["lead_status"])
	require.Equal(t, "manual", payload.Lead.SourceTag)

	missingReq := httptest.NewRequest(http.MethodPatch, "/api/leads/nope", strings.NewReader(`{"lead_status":"won"}`))
	missingReq.Header.Set("Content-Type", "application/json")
	missingRec := httptest.NewRecorder()
	router.ServeHTTP(missingRec, missingReq)
	require.Equal(t, http.StatusNotFound, missingRec.Code)
}

func TestAdminClearRequiresConfirm(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/data", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/data?confirm=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
