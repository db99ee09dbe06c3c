package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/onsitehq/salespulse-backend/internal/data/repos"
	"github.com/onsitehq/salespulse-backend/internal/domain"
	"github.com/onsitehq/salespulse-backend/internal/normalization"
	"github.com/onsitehq/salespulse-backend/internal/pkg/dbctx"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
)

const (
	primaryIDColumn  = "zoho_lead_id"
	fallbackIDColumn = "lead_id"
	phoneColumn      = "lead_phone"

	// maxResultGroups caps the duplicate groups echoed back to the caller;
	// the full set is still tagged in the store.
	maxResultGroups = 100
	// maxHistoryFieldChanges caps the per-field change ranking persisted on
	// an upload record.
	maxHistoryFieldChanges = 20
)

type FieldChange struct {
	Field string `json:"field"`
	Count int    `json:"count"`
}

type MergeResult struct {
	NewCount        int              `json:"new_count"`
	UpdatedCount    int              `json:"updated_count"`
	UnchangedCount  int              `json:"unchanged_count"`
	DuplicateCount  int              `json:"duplicate_count"`
	TotalProcessed  int              `json:"total_processed"`
	DurationMs      int64            `json:"duration_ms"`
	ChangesByField  []FieldChange    `json:"changes_by_field"`
	DuplicateGroups []DuplicateGroup `json:"duplicate_groups"`
}

type MergeService interface {
	// MergeBatch reconciles one uploaded batch of CRM rows against the store.
	// Rows without a usable lead id are skipped entirely. The whole batch,
	// including the history append, commits in a single transaction.
	MergeBatch(ctx context.Context, rows []map[string]string, origin, sourceTag string) (*MergeResult, error)
}

type mergeService struct {
	db         *gorm.DB
	log        *logger.Logger
	leadRepo   repos.LeadRepo
	uploadRepo repos.UploadRecordRepo
}

func NewMergeService(db *gorm.DB, log *logger.Logger, leadRepo repos.LeadRepo, uploadRepo repos.UploadRecordRepo) MergeService {
	return &mergeService{
		db:         db,
		log:        log.With("service", "MergeService"),
		leadRepo:   leadRepo,
		uploadRepo: uploadRepo,
	}
}

func (s *mergeService) MergeBatch(ctx context.Context, rows []map[string]string, origin, sourceTag string) (*MergeResult, error) {
	start := time.Now()
	result := &MergeResult{TotalProcessed: len(rows)}
	changeTally := make(map[string]int)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		existing, err := s.leadRepo.GetAll(dbc)
		if err != nil {
			return fmt.Errorf("load leads: %w", err)
		}

		// Snapshot lookup by CRM lead id. Staged inserts join the map so a
		// later row carrying the same id becomes a within-batch update
		// instead of a second insert.
		byZohoID := make(map[string]*domain.Lead, len(existing))
		for _, l := range existing {
			byZohoID[l.ZohoLeadID] = l
		}
		stagedNew := make(map[string]struct{})
		var inserts []*domain.Lead
		updates := make(map[uuid.UUID]*domain.Lead)
		now := time.Now().UTC()

		for _, row := range rows {
			zohoID := strings.TrimSpace(row[primaryIDColumn])
			if zohoID == "" {
				zohoID = strings.TrimSpace(row[fallbackIDColumn])
			}
			if zohoID == "" {
				// Unidentified rows cannot be reconciled and must not
				// silently create anonymous records.
				continue
			}

			if current, ok := byZohoID[zohoID]; ok {
				changes := DetectChanges(current, row)
				if len(changes) == 0 {
					result.UnchangedCount++
					continue
				}
				applyChanges(current, changes, row[phoneColumn], sourceTag, now)
				for field := range changes {
					changeTally[field]++
				}
				result.UpdatedCount++
				if _, isStaged := stagedNew[zohoID]; !isStaged {
					updates[current.ID] = current
				}
				continue
			}

			lead := &domain.Lead{
				ID:              uuid.New(),
				ZohoLeadID:      zohoID,
				NormalizedPhone: normalization.Phone(row[phoneColumn]),
				SourceTag:       sourceTag,
				Fields:          rowToFields(row),
				LastUpdatedAt:   now,
			}
			inserts = append(inserts, lead)
			byZohoID[zohoID] = lead
			stagedNew[zohoID] = struct{}{}
			result.NewCount++
		}

		if _, err := s.leadRepo.Create(dbc, inserts); err != nil {
			return fmt.Errorf("insert leads: %w", err)
		}
		for _, lead := range updates {
			if err := s.leadRepo.Save(dbc, lead); err != nil {
				return fmt.Errorf("update lead: %w", err)
			}
		}

		// Second pass: regroup duplicates over the full stored set, which
		// now includes this batch's effects.
		all, err := s.leadRepo.GetAll(dbc)
		if err != nil {
			return fmt.Errorf("reload leads: %w", err)
		}
		groups := groupDuplicates(all)

		labelByPhone := make(map[string]string, len(groups))
		for _, g := range groups {
			result.DuplicateCount += g.Size
			labelByPhone[g.NormalizedPhone] = g.Label
		}
		for _, l := range all {
			want, grouped := labelByPhone[l.NormalizedPhone]
			switch {
			case grouped && (l.DuplicateGroup == nil || *l.DuplicateGroup != want):
				if err := s.leadRepo.SetDuplicateGroup(dbc, l.ID, &want); err != nil {
					return fmt.Errorf("tag duplicate group: %w", err)
				}
			case !grouped && l.DuplicateGroup != nil:
				// Stale tag from a previous run; grouping is recomputed from
				// ground truth, so demoted leads are untagged here.
				if err := s.leadRepo.SetDuplicateGroup(dbc, l.ID, nil); err != nil {
					return fmt.Errorf("clear duplicate group: %w", err)
				}
			}
		}

		if len(groups) > maxResultGroups {
			groups = groups[:maxResultGroups]
		}
		result.DuplicateGroups = groups

		record := &domain.UploadRecord{
			Origin:         origin,
			SourceTag:      sourceTag,
			TotalRows:      len(rows),
			NewCount:       result.NewCount,
			UpdatedCount:   result.UpdatedCount,
			UnchangedCount: result.UnchangedCount,
			DuplicateCount: result.DuplicateCount,
			DurationMs:     time.Since(start).Milliseconds(),
			TopChanges:     marshalTopChanges(changeTally),
			CreatedAt:      now,
		}
		if _, err := s.uploadRepo.Create(dbc, record); err != nil {
			return fmt.Errorf("append upload record: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Merge batch failed", "origin", origin, "rows", len(rows), "error", err)
		return nil, err
	}

	result.DurationMs = time.Since(start).Milliseconds()
	result.ChangesByField = rankFieldChanges(changeTally, 0)

	s.log.Info("Merge batch complete",
		"origin", origin,
		"source_tag", sourceTag,
		"rows", result.TotalProcessed,
		"new", result.NewCount,
		"updated", result.UpdatedCount,
		"unchanged", result.UnchangedCount,
		"duplicates", result.DuplicateCount,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

// applyChanges writes the detected tracked-field values onto the lead and
// recomputes the normalized phone. An empty incoming phone leaves the stored
// contact untouched, same additive policy as tracked fields.
func applyChanges(lead *domain.Lead, changes map[string]string, rawPhone, sourceTag string, now time.Time) {
	if lead.Fields == nil {
		lead.Fields = datatypes.JSONMap{}
	}
	for field, value := range changes {
		lead.Fields[field] = value
	}
	if phone := strings.TrimSpace(rawPhone); phone != "" {
		lead.Fields[phoneColumn] = phone
	}
	lead.NormalizedPhone = normalization.Phone(lead.Field(phoneColumn))
	lead.SourceTag = sourceTag
	lead.LastUpdatedAt = now
}

func rowToFields(row map[string]string) datatypes.JSONMap {
	fields := make(datatypes.JSONMap, len(row))
	for k, v := range row {
		fields[k] = v
	}
	return fields
}

// rankFieldChanges orders the change tally by count descending, field name
// ascending on ties. limit <= 0 means unbounded.
func rankFieldChanges(tally map[string]int, limit int) []FieldChange {
	ranked := make([]FieldChange, 0, len(tally))
	for field, count := range tally {
		ranked = append(ranked, FieldChange{Field: field, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Field < ranked[j].Field
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func marshalTopChanges(tally map[string]int) datatypes.JSON {
	top := rankFieldChanges(tally, maxHistoryFieldChanges)
	raw, err := json.Marshal(top)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}
