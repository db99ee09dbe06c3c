package leads

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/onsitehq/salespulse-backend/internal/data/repos/testutil"
	"github.com/onsitehq/salespulse-backend/internal/domain"
	"github.com/onsitehq/salespulse-backend/internal/pkg/dbctx"
)

func TestLeadRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewLeadRepo(db, testutil.Logger(t))

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	l := &domain.Lead{
		ZohoLeadID:      "Z1",
		NormalizedPhone: "9876543210",
		SourceTag:       "csv",
		Fields:          map[string]interface{}{"lead_status": "new"},
		LastUpdatedAt:   time.Now().UTC(),
	}
	created, err := repo.Create(dbc, []*domain.Lead{l})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created[0].ID == uuid.Nil {
		t.Fatalf("Create did not assign an id")
	}

	if rows, err := repo.GetAll(dbc); err != nil || len(rows) != 1 {
		t.Fatalf("GetAll: err=%v len=%d", err, len(rows))
	}

	got, err := repo.GetByZohoLeadID(dbc, "Z1")
	if err != nil {
		t.Fatalf("GetByZohoLeadID: %v", err)
	}
	if got == nil || got.Field("lead_status") != "new" {
		t.Fatalf("GetByZohoLeadID returned %+v", got)
	}

	missing, err := repo.GetByZohoLeadID(dbc, "nope")
	if err != nil || missing != nil {
		t.Fatalf("GetByZohoLeadID missing: err=%v row=%+v", err, missing)
	}

	got.Fields["lead_status"] = "contacted"
	got.LastUpdatedAt = time.Now().UTC()
	if err := repo.Save(dbc, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reread, err := repo.GetByZohoLeadID(dbc, "Z1")
	if err != nil || reread.Field("lead_status") != "contacted" {
		t.Fatalf("after Save: err=%v status=%q", err, reread.Field("lead_status"))
	}

	group := "dup-9876543210"
	if err := repo.SetDuplicateGroup(dbc, got.ID, &group); err != nil {
		t.Fatalf("SetDuplicateGroup: %v", err)
	}
	reread, _ = repo.GetByZohoLeadID(dbc, "Z1")
	if reread.DuplicateGroup == nil || *reread.DuplicateGroup != group {
		t.Fatalf("SetDuplicateGroup not persisted: %+v", reread.DuplicateGroup)
	}
	if err := repo.SetDuplicateGroup(dbc, got.ID, nil); err != nil {
		t.Fatalf("SetDuplicateGroup nil: %v", err)
	}
	reread, _ = repo.GetByZohoLeadID(dbc, "Z1")
	if reread.DuplicateGroup != nil {
		t.Fatalf("SetDuplicateGroup nil not persisted: %+v", reread.DuplicateGroup)
	}

	if n, err := repo.Count(dbc); err != nil || n != 1 {
		t.Fatalf("Count: err=%v n=%d", err, n)
	}

	if err := repo.DeleteAll(dbc); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if n, _ := repo.Count(dbc); n != 0 {
		t.Fatalf("after DeleteAll Count = %d", n)
	}
}

func TestLeadRepoUniqueZohoLeadID(t *testing.T) {
	db := testutil.DB(t)
	repo := NewLeadRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	testutil.SeedLead(t, db, "DUP", "9876543210", nil)

	_, err := repo.Create(dbc, []*domain.Lead{{
		ZohoLeadID:    "DUP",
		Fields:        map[string]interface{}{},
		LastUpdatedAt: time.Now().UTC(),
	}})
	if err == nil {
		t.Fatalf("expected unique constraint violation for duplicate zoho_lead_id")
	}
}
