package services

import (
	"strings"

	"github.com/onsitehq/salespulse-backend/internal/domain"
)

// TrackedFields are the business-status columns monitored for change
// detection. Everything else on an uploaded row passes through as an opaque
// attribute and never triggers an update on its own.
var TrackedFields = []string{
	"lead_status",
	"sales_stage",
	"lead_notes",
	"deal_owner",
	"lead_owner",
	"demo_done",
	"sale_done",
	"next_followup",
	"price_pitched",
}

// DetectChanges returns the tracked fields whose incoming value differs from
// the stored one, mapped to the value to apply. An empty incoming value never
// overwrites an existing value: a blank cell means "no new information", not
// a deletion.
func DetectChanges(existing *domain.Lead, row map[string]string) map[string]string {
	changes := make(map[string]string)
	for _, field := range TrackedFields {
		incoming := strings.TrimSpace(row[field])
		if incoming == "" {
			continue
		}
		current := strings.TrimSpace(existing.Field(field))
		if incoming != current {
			changes[field] = incoming
		}
	}
	return changes
}
