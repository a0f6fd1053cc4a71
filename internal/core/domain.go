package core

import "strings"

// GrandTotalLabel is the synthetic margin-row label produced by the pivot.
// It must never surface as a real client name.
const GrandTotalLabel = "total"

type (
	// Amount is a monetary value in cents. Valid is false when the source
	// cell could not be coerced to a number; such amounts are excluded
	// from sums rather than counted as zero.
	Amount struct {
		Cents int64
		Valid bool
	}

	// Quantity is an order-line item count. Valid mirrors Amount semantics.
	Quantity struct {
		N     int64
		Valid bool
	}

	// Order is one row of the orders sheet.
	Order struct {
		Client      string
		Restaurant  string
		Description string
		Price       Amount
		DiscPrice   Amount
		Quantity    Quantity
		Total       Amount
	}

	// Grid is a raw worksheet range: first fetched row as headers, the
	// rest as data. Used for the schedule and catalog sheets, which the
	// dashboard never coerces.
	Grid struct {
		Headers []string
		Rows    [][]string
	}

	// Workbook bundles the three ranges loaded from one spreadsheet.
	// Catalog is loaded and cached but not consumed anywhere yet.
	Workbook struct {
		Schedule Grid
		Catalog  Grid
		Orders   []Order
	}
)

// IsEmpty reports whether the grid holds no data rows.
func (g Grid) IsEmpty() bool { return len(g.Rows) == 0 }

// Column returns the values of the named header column, one per row.
// Rows shorter than the column index contribute an empty string.
func (g Grid) Column(name string) []string {
	idx := -1
	for i, h := range g.Headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}
	out := make([]string, len(g.Rows))
	for i, row := range g.Rows {
		if idx < len(row) {
			out[i] = strings.TrimSpace(row[idx])
		}
	}
	return out
}

// ScheduleClients returns the distinct non-empty client names from the
// schedule sheet, preserving first-seen order.
func (w Workbook) ScheduleClients() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, v := range w.Schedule.Column("Client") {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
