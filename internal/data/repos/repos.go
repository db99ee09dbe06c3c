package repos

import (
	"gorm.io/gorm"

	"github.com/onsitehq/salespulse-backend/internal/data/repos/leads"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
)

type LeadRepo = leads.LeadRepo
type UploadRecordRepo = leads.UploadRecordRepo

// Set bundles every repository the services depend on.
type Set struct {
	Lead         LeadRepo
	UploadRecord UploadRecordRepo
}

func Wire(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		Lead:         leads.NewLeadRepo(db, log),
		UploadRecord: leads.NewUploadRecordRepo(db, log),
	}
}
