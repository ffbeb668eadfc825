package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"nba-insights-go/internal/types"
)

// Column headers are auto-detected by substring heuristics so exports from
// different CRMs load without a fixed template. Sparse profile columns use
// the "intent:<key>" / "trait:<key>" convention.
type columns struct {
	contactID int
	projectID int
	status    int
	revenue   int
	purchases int
	gapDays   int
	lastSeen  int
	tags      int
	intents   map[int]string // column index -> vector key
	traits    map[int]string
}

func detectColumns(header []string) columns {
	cols := columns{
		contactID: -1, projectID: -1, status: -1, revenue: -1,
		purchases: -1, gapDays: -1, lastSeen: -1, tags: -1,
		intents: map[int]string{}, traits: map[int]string{},
	}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.HasPrefix(l, "intent:"):
			cols.intents[i] = strings.TrimPrefix(l, "intent:")
		case strings.HasPrefix(l, "trait:"):
			cols.traits[i] = strings.TrimPrefix(l, "trait:")
		case strings.Contains(l, "contact"):
			if cols.contactID == -1 {
				cols.contactID = i
			}
		case strings.Contains(l, "project"):
			if cols.projectID == -1 {
				cols.projectID = i
			}
		case strings.Contains(l, "status") || strings.Contains(l, "stage"):
			if cols.status == -1 {
				cols.status = i
			}
		case strings.Contains(l, "revenue") || strings.Contains(l, "ltv"):
			if cols.revenue == -1 {
				cols.revenue = i
			}
		case strings.Contains(l, "purchases") || strings.Contains(l, "orders"):
			if cols.purchases == -1 {
				cols.purchases = i
			}
		case strings.Contains(l, "days since") || strings.Contains(l, "gap"):
			if cols.gapDays == -1 {
				cols.gapDays = i
			}
		case strings.Contains(l, "last interaction") || strings.Contains(l, "last seen"):
			if cols.lastSeen == -1 {
				cols.lastSeen = i
			}
		case strings.Contains(l, "tag"):
			if cols.tags == -1 {
				cols.tags = i
			}
		}
	}
	return cols
}

// Load reads contact snapshots from the first sheet of an xlsx export.
// Rows without a contact id are skipped quietly.
func Load(path string) ([]types.ContactContext, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	cols := detectColumns(rows[0])
	if cols.contactID == -1 {
		return nil, fmt.Errorf("no contact id column")
	}

	var out []types.ContactContext
	for i, r := range rows {
		if i == 0 {
			continue
		}
		c := types.ContactContext{}
		c.ContactID = cell(r, cols.contactID)
		if c.ContactID == "" {
			continue
		}
		c.ProjectID = cell(r, cols.projectID)
		c.Status = types.ContactStatus(strings.ToLower(cell(r, cols.status)))
		c.TotalRevenue = parseFloat(cell(r, cols.revenue))
		c.PurchaseCount = parseInt(cell(r, cols.purchases))
		if v := cell(r, cols.gapDays); v != "" {
			d := parseInt(v)
			c.DaysSinceLastPurchase = &d
		}
		if v := cell(r, cols.lastSeen); v != "" {
			if t, ok := parseTime(v); ok {
				c.LastInteractionAt = &t
			}
		}
		if v := cell(r, cols.tags); v != "" {
			for _, tag := range strings.Split(v, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					c.Tags = append(c.Tags, tag)
				}
			}
		}

		intent := types.Vector{}
		for idx, key := range cols.intents {
			if v := cell(r, idx); v != "" {
				intent[key] = parseFloat(v)
			}
		}
		trait := types.Vector{}
		for idx, key := range cols.traits {
			if v := cell(r, idx); v != "" {
				trait[key] = parseFloat(v)
			}
		}
		if len(intent) > 0 || len(trait) > 0 {
			c.Profile = &types.ContactProfile{
				IntentVector: intent,
				TraitVector:  trait,
				TotalSignals: len(intent) + len(trait),
			}
		}

		// Workbook exports carry no transaction detail; synthesize minimal
		// history so the customer heuristics see the purchase count.
		for n := 0; n < c.PurchaseCount; n++ {
			c.Transactions = append(c.Transactions, types.Transaction{
				TransactionID: fmt.Sprintf("%s-tx-%d", c.ContactID, n+1),
				Status:        "completed",
			})
		}

		out = append(out, c)
	}
	return out, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func parseTime(s string) (time.Time, bool) {
	layouts := []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02", "01-02-06", "1/2/06 15:04"}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
