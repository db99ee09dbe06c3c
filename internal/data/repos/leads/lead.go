package leads

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onsitehq/salespulse-backend/internal/domain"
	"github.com/onsitehq/salespulse-backend/internal/pkg/dbctx"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
)

type LeadRepo interface {
	Create(dbc dbctx.Context, rows []*domain.Lead) ([]*domain.Lead, error)
	GetAll(dbc dbctx.Context) ([]*domain.Lead, error)
	GetByZohoLeadID(dbc dbctx.Context, zohoLeadID string) (*domain.Lead, error)
	Save(dbc dbctx.Context, row *domain.Lead) error
	SetDuplicateGroup(dbc dbctx.Context, leadID uuid.UUID, group *string) error
	Count(dbc dbctx.Context) (int64, error)
	DeleteAll(dbc dbctx.Context) error
}

type leadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLeadRepo(db *gorm.DB, baseLog *logger.Logger) LeadRepo {
	repoLog := baseLog.With("repo", "LeadRepo")
	return &leadRepo{db: db, log: repoLog}
}

func (r *leadRepo) Create(dbc dbctx.Context, rows []*domain.Lead) ([]*domain.Lead, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*domain.Lead{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(dbc.Ctx).CreateInBatches(&rows, 200).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *leadRepo) GetAll(dbc dbctx.Context) ([]*domain.Lead, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Lead
	if err := transaction.WithContext(dbc.Ctx).
		Order("last_updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *leadRepo) GetByZohoLeadID(dbc dbctx.Context, zohoLeadID string) (*domain.Lead, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.Lead
	err := transaction.WithContext(dbc.Ctx).
		Where("zoho_lead_id = ?", zohoLeadID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *leadRepo) Save(dbc dbctx.Context, row *domain.Lead) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil || row.ID == uuid.Nil {
		return gorm.ErrMissingWhereClause
	}
	return transaction.WithContext(dbc.Ctx).Save(row).Error
}

func (r *leadRepo) SetDuplicateGroup(dbc dbctx.Context, leadID uuid.UUID, group *string) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Model(&domain.Lead{}).
		Where("id = ?", leadID).
		Update("duplicate_group", group).Error
}

func (r *leadRepo) Count(dbc dbctx.Context) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.Lead{}).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *leadRepo) DeleteAll(dbc dbctx.Context) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Where("1 = 1").
		Delete(&domain.Lead{}).Error
}
