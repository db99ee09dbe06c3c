package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/onsitehq/salespulse-backend/internal/data/repos"
	"github.com/onsitehq/salespulse-backend/internal/domain"
	"github.com/onsitehq/salespulse-backend/internal/pkg/dbctx"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
)

type PipelineSummary struct {
	TotalLeads       int                  `json:"total_leads"`
	ByStage          map[string]int       `json:"by_stage"`
	ByStatus         map[string]int       `json:"by_status"`
	DuplicateFlagged int                  `json:"duplicate_flagged"`
	LastUpload       *domain.UploadRecord `json:"last_upload,omitempty"`
}

// AnalyticsService produces the dashboard funnel summary: lead counts per
// sales stage and lead status plus the current duplicate exposure.
type AnalyticsService interface {
	Summary(ctx context.Context) (*PipelineSummary, error)
}

type analyticsService struct {
	log        *logger.Logger
	leadRepo   repos.LeadRepo
	uploadRepo repos.UploadRecordRepo
}

func NewAnalyticsService(log *logger.Logger, leadRepo repos.LeadRepo, uploadRepo repos.UploadRecordRepo) AnalyticsService {
	return &analyticsService{
		log:        log.With("service", "AnalyticsService"),
		leadRepo:   leadRepo,
		uploadRepo: uploadRepo,
	}
}

func (s *analyticsService) Summary(ctx context.Context) (*PipelineSummary, error) {
	dbc := dbctx.Context{Ctx: ctx}
	all, err := s.leadRepo.GetAll(dbc)
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}

	summary := &PipelineSummary{
		TotalLeads: len(all),
		ByStage:    make(map[string]int),
		ByStatus:   make(map[string]int),
	}
	for _, l := range all {
		if stage := strings.TrimSpace(l.Field("sales_stage")); stage != "" {
			summary.ByStage[stage]++
		}
		if status := strings.TrimSpace(l.Field("lead_status")); status != "" {
			summary.ByStatus[status]++
		}
	}
	for _, g := range groupDuplicates(all) {
		summary.DuplicateFlagged += g.Size
	}

	latest, err := s.uploadRepo.Latest(dbc)
	if err != nil {
		return nil, fmt.Errorf("load latest upload: %w", err)
	}
	summary.LastUpload = latest
	return summary, nil
}
