package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onsitehq/salespulse-backend/internal/data/repos/leads"
	"github.com/onsitehq/salespulse-backend/internal/data/repos/testutil"
)

func TestAnalyticsSummary(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	leadRepo := leads.NewLeadRepo(db, log)
	uploadRepo := leads.NewUploadRecordRepo(db, log)
	merge := NewMergeService(db, log, leadRepo, uploadRepo)
	analytics := NewAnalyticsService(log, leadRepo, uploadRepo)
	ctx := context.Background()

	summary, err := analytics.Summary(ctx)
	require.NoError(t, err)
	require.Zero(t, summary.TotalLeads)
	require.Nil(t, summary.LastUpload)

	_, err = merge.MergeBatch(ctx, []map[string]string{
		row("zoho_lead_id", "L1", "sales_stage", "prospect", "lead_status", "Demo booked", "lead_phone", "9876543210"),
		row("zoho_lead_id", "L2", "sales_stage", "prospect", "lead_phone", "9876543210"),
		row("zoho_lead_id", "L3", "sales_stage", "won"),
	}, "seed.csv", "csv")
	require.NoError(t, err)

	summary, err = analytics.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, summary.TotalLeads)
	require.Equal(t, 2, summary.ByStage["prospect"])
	require.Equal(t, 1, summary.ByStage["won"])
	require.Equal(t, 1, summary.ByStatus["Demo booked"])
	require.Equal(t, 2, summary.DuplicateFlagged)
	require.NotNil(t, summary.LastUpload)
	require.Equal(t, "seed.csv", summary.LastUpload.Origin)
}
