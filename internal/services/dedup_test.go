package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onsitehq/salespulse-backend/internal/domain"
)

func lead(zohoLeadID, phone string) *domain.Lead {
	return &domain.Lead{ZohoLeadID: zohoLeadID, NormalizedPhone: phone}
}

func TestGroupDuplicates(t *testing.T) {
	groups := groupDuplicates([]*domain.Lead{
		lead("A", "9876543210"),
		lead("B", "9876543210"),
		lead("C", "1112223333"),
	})
	require.Len(t, groups, 1)
	require.Equal(t, "dup-9876543210", groups[0].Label)
	require.Equal(t, 2, groups[0].Size)
}

func TestGroupDuplicatesRequiresDistinctLeadIDs(t *testing.T) {
	// Two rows for the same CRM id sharing a phone are not a duplicate pair.
	groups := groupDuplicates([]*domain.Lead{
		lead("A", "9876543210"),
		lead("A", "9876543210"),
	})
	require.Empty(t, groups)
}

func TestGroupDuplicatesIgnoresShortPhones(t *testing.T) {
	groups := groupDuplicates([]*domain.Lead{
		lead("A", "12345"),
		lead("B", "12345"),
		lead("C", ""),
		lead("D", ""),
	})
	require.Empty(t, groups)
}

func TestGroupDuplicatesOrdering(t *testing.T) {
	groups := groupDuplicates([]*domain.Lead{
		lead("A", "1111111111"),
		lead("B", "1111111111"),
		lead("C", "2222222222"),
		lead("D", "2222222222"),
		lead("E", "2222222222"),
	})
	require.Len(t, groups, 2)
	// Largest group first.
	require.Equal(t, 3, groups[0].Size)
	require.Equal(t, "dup-2222222222", groups[0].Label)
}
