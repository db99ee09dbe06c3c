package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UploadRecord summarizes one merge operation. Rows are append-only and
// immutable once written.
type UploadRecord struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Origin    string `gorm:"type:text;not null;default:''" json:"origin"`
	SourceTag string `gorm:"type:text;not null;default:''" json:"source_tag"`

	TotalRows      int `gorm:"not null;default:0" json:"total_rows"`
	NewCount       int `gorm:"not null;default:0" json:"new_count"`
	UpdatedCount   int `gorm:"not null;default:0" json:"updated_count"`
	UnchangedCount int `gorm:"not null;default:0" json:"unchanged_count"`
	DuplicateCount int `gorm:"not null;default:0" json:"duplicate_count"`

	DurationMs int64 `gorm:"not null;default:0" json:"duration_ms"`

	// TopChanges holds the 20 most-changed tracked fields for this upload,
	// as a JSON array of {"field","count"} sorted by count descending.
	TopChanges datatypes.JSON `gorm:"not null;default:'[]'" json:"top_changes"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (UploadRecord) TableName() string { return "upload_record" }
