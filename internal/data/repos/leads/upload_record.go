package leads

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onsitehq/salespulse-backend/internal/domain"
	"github.com/onsitehq/salespulse-backend/internal/pkg/dbctx"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
)

type UploadRecordRepo interface {
	Create(dbc dbctx.Context, rec *domain.UploadRecord) (*domain.UploadRecord, error)
	List(dbc dbctx.Context) ([]*domain.UploadRecord, error)
	Latest(dbc dbctx.Context) (*domain.UploadRecord, error)
	DeleteAll(dbc dbctx.Context) error
}

type uploadRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUploadRecordRepo(db *gorm.DB, baseLog *logger.Logger) UploadRecordRepo {
	repoLog := baseLog.With("repo", "UploadRecordRepo")
	return &uploadRecordRepo{db: db, log: repoLog}
}

func (r *uploadRecordRepo) Create(dbc dbctx.Context, rec *domain.UploadRecord) (*domain.UploadRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *uploadRecordRepo) List(dbc dbctx.Context) ([]*domain.UploadRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.UploadRecord
	if err := transaction.WithContext(dbc.Ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *uploadRecordRepo) Latest(dbc dbctx.Context) (*domain.UploadRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.UploadRecord
	err := transaction.WithContext(dbc.Ctx).
		Order("created_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *uploadRecordRepo) DeleteAll(dbc dbctx.Context) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Where("1 = 1").
		Delete(&domain.UploadRecord{}).Error
}
