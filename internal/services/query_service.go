package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/onsitehq/salespulse-backend/internal/data/repos"
	"github.com/onsitehq/salespulse-backend/internal/domain"
	"github.com/onsitehq/salespulse-backend/internal/pkg/dbctx"
	pkgerrors "github.com/onsitehq/salespulse-backend/internal/pkg/errors"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
)

type ListLeadsOptions struct {
	Stage   string
	Search  string
	Page    int
	PerPage int
}

type LeadPage struct {
	Leads      []*domain.Lead `json:"leads"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int            `json:"total_pages"`
}

// QueryService is the read surface the dashboard consumes. Every operation
// is side-effect-free with respect to business data except ClearAll.
type QueryService interface {
	ListLeads(ctx context.Context, opts ListLeadsOptions) (*LeadPage, error)
	GetLead(ctx context.Context, zohoLeadID string) (*domain.Lead, error)
	CountLeads(ctx context.Context) (int64, error)
	ListUploads(ctx context.Context) ([]*domain.UploadRecord, error)
	LatestUpload(ctx context.Context) (*domain.UploadRecord, error)
	ListDuplicateGroups(ctx context.Context) ([]DuplicateGroup, error)
	ClearAll(ctx context.Context) error
}

type queryService struct {
	db         *gorm.DB
	log        *logger.Logger
	leadRepo   repos.LeadRepo
	uploadRepo repos.UploadRecordRepo
}

func NewQueryService(db *gorm.DB, log *logger.Logger, leadRepo repos.LeadRepo, uploadRepo repos.UploadRecordRepo) QueryService {
	return &queryService{
		db:         db,
		log:        log.With("service", "QueryService"),
		leadRepo:   leadRepo,
		uploadRepo: uploadRepo,
	}
}

func (s *queryService) ListLeads(ctx context.Context, opts ListLeadsOptions) (*LeadPage, error) {
	dbc := dbctx.Context{Ctx: ctx}
	all, err := s.leadRepo.GetAll(dbc)
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}

	filtered := all[:0:0]
	for _, l := range all {
		if opts.Stage != "" && !strings.EqualFold(strings.TrimSpace(l.Field("sales_stage")), opts.Stage) {
			continue
		}
		if opts.Search != "" && !matchesSearch(l, opts.Search) {
			continue
		}
		filtered = append(filtered, l)
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}
	total := len(filtered)
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return &LeadPage{
		Leads:      filtered[start:end],
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

func matchesSearch(l *domain.Lead, term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return true
	}
	haystacks := []string{
		l.ZohoLeadID,
		l.NormalizedPhone,
		l.Field("lead_name"),
		l.Field("company_name"),
		l.Field("lead_email"),
		l.Field("lead_phone"),
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func (s *queryService) GetLead(ctx context.Context, zohoLeadID string) (*domain.Lead, error) {
	dbc := dbctx.Context{Ctx: ctx}
	lead, err := s.leadRepo.GetByZohoLeadID(dbc, strings.TrimSpace(zohoLeadID))
	if err != nil {
		return nil, fmt.Errorf("load lead: %w", err)
	}
	if lead == nil {
		return nil, pkgerrors.ErrNotFound
	}
	return lead, nil
}

func (s *queryService) CountLeads(ctx context.Context) (int64, error) {
	return s.leadRepo.Count(dbctx.Context{Ctx: ctx})
}

func (s *queryService) ListUploads(ctx context.Context) ([]*domain.UploadRecord, error) {
	return s.uploadRepo.List(dbctx.Context{Ctx: ctx})
}

func (s *queryService) LatestUpload(ctx context.Context) (*domain.UploadRecord, error) {
	rec, err := s.uploadRepo.Latest(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("load latest upload: %w", err)
	}
	if rec == nil {
		return nil, pkgerrors.ErrNotFound
	}
	return rec, nil
}

// ListDuplicateGroups recomputes grouping from the live lead set on every
// call; stored duplicate tags are only a UI hint, never the source of truth.
func (s *queryService) ListDuplicateGroups(ctx context.Context) ([]DuplicateGroup, error) {
	all, err := s.leadRepo.GetAll(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}
	return groupDuplicates(all), nil
}

// ClearAll erases every lead and upload record. Irreversible.
func (s *queryService) ClearAll(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.leadRepo.DeleteAll(dbc); err != nil {
			return fmt.Errorf("delete leads: %w", err)
		}
		if err := s.uploadRepo.DeleteAll(dbc); err != nil {
			return fmt.Errorf("delete upload records: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("ClearAll failed", "error", err)
		return err
	}
	s.log.Warn("All dashboard data cleared")
	return nil
}
