package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Lead is one reconciled CRM record. The row's raw attributes are carried
// verbatim in Fields; only the columns below are first-class. The surrogate
// ID is store-local and never serialized.
type Lead struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`

	ZohoLeadID      string  `gorm:"type:text;not null;uniqueIndex:idx_lead_zoho_lead_id" json:"zoho_lead_id"`
	NormalizedPhone string  `gorm:"type:text;not null;default:'';index" json:"normalized_phone"`
	DuplicateGroup  *string `gorm:"type:text;index" json:"duplicate_group,omitempty"`

	SourceTag     string            `gorm:"type:text;not null;default:'';index" json:"source_tag"`
	Fields        datatypes.JSONMap `gorm:"not null" json:"fields"`
	LastUpdatedAt time.Time         `gorm:"not null;index" json:"last_updated_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Lead) TableName() string { return "lead" }

// Field returns the raw attribute for key, or "" when absent.
func (l *Lead) Field(key string) string {
	if l == nil || l.Fields == nil {
		return ""
	}
	if v, ok := l.Fields[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
