package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	pkgerrors "github.com/onsitehq/salespulse-backend/internal/pkg/errors"
)

// ParseLeadRows reads a CRM CSV export into row maps keyed by normalized
// column name (lowercased, spaces collapsed to underscores, matching the
// export schema). Ragged rows are tolerated; fully empty lines are dropped.
func ParseLeadRows(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv is empty: %w", pkgerrors.ErrInvalidArgument)
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = NormalizeColumn(h)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+2, err)
		}

		row := make(map[string]string, len(columns))
		empty := true
		for i, col := range columns {
			if col == "" || i >= len(record) {
				continue
			}
			val := strings.TrimSpace(record[i])
			row[col] = val
			if val != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// NormalizeColumn maps a raw CSV header to the lowercase underscore form the
// reconciliation core expects ("Lead_email" -> "lead_email").
func NormalizeColumn(raw string) string {
	col := strings.ToLower(strings.TrimSpace(raw))
	col = strings.Join(strings.Fields(col), "_")
	return col
}
