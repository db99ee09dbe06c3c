package services

import (
	"sort"

	"github.com/onsitehq/salespulse-backend/internal/domain"
)

// minDuplicatePhoneLen excludes partial numbers from duplicate grouping;
// anything shorter than a full subscriber number is too ambiguous to trust.
const minDuplicatePhoneLen = 10

type DuplicateMember struct {
	ZohoLeadID string `json:"zoho_lead_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
}

type DuplicateGroup struct {
	Label           string            `json:"label"`
	NormalizedPhone string            `json:"normalized_phone"`
	Size            int               `json:"size"`
	Members         []DuplicateMember `json:"members"`
}

// groupDuplicates derives duplicate groups from the complete lead set. Two
// leads belong to the same group iff they share a normalized phone of at
// least ten digits and the contact group spans at least two distinct CRM
// lead ids. Grouping is always recomputed from scratch; a previously stored
// tag is never treated as authoritative.
func groupDuplicates(all []*domain.Lead) []DuplicateGroup {
	byPhone := make(map[string][]*domain.Lead)
	for _, l := range all {
		if len(l.NormalizedPhone) < minDuplicatePhoneLen {
			continue
		}
		byPhone[l.NormalizedPhone] = append(byPhone[l.NormalizedPhone], l)
	}

	// Non-nil even when empty so callers serialize a uniform [] payload.
	groups := []DuplicateGroup{}
	for phone, members := range byPhone {
		if len(members) < 2 {
			continue
		}
		distinct := make(map[string]struct{}, len(members))
		for _, m := range members {
			distinct[m.ZohoLeadID] = struct{}{}
		}
		if len(distinct) < 2 {
			continue
		}

		g := DuplicateGroup{
			Label:           duplicateGroupLabel(phone),
			NormalizedPhone: phone,
			Size:            len(members),
		}
		for _, m := range members {
			name := m.Field("lead_name")
			if name == "" {
				name = m.Field("company_name")
			}
			g.Members = append(g.Members, DuplicateMember{
				ZohoLeadID: m.ZohoLeadID,
				Name:       name,
				Status:     m.Field("lead_status"),
			})
		}
		sort.Slice(g.Members, func(i, j int) bool {
			return g.Members[i].ZohoLeadID < g.Members[j].ZohoLeadID
		})
		groups = append(groups, g)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Size != groups[j].Size {
			return groups[i].Size > groups[j].Size
		}
		return groups[i].Label < groups[j].Label
	})
	return groups
}

func duplicateGroupLabel(normalizedPhone string) string {
	return "dup-" + normalizedPhone
}
