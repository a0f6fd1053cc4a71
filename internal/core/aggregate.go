package core

import (
	"sort"
	"strings"
)

// ClientTotal is one row of the per-client pivot.
type ClientTotal struct {
	Client string
	Cents  int64
}

// LineKind discriminates the renderable output rows.
type LineKind int

const (
	// LineZero is the single row shown when the filtered sum is zero.
	LineZero LineKind = iota
	// LineSummary is one per-client total row.
	LineSummary
	// LineDetail is one raw order row.
	LineDetail
)

// Line is one renderable output row, already formatted. The presentation
// layer decides layout and styling only.
type Line struct {
	Kind        LineKind
	Client      string
	Restaurant  string
	Description string
	Quantity    int64 // shown as a "xN" suffix only when > 1
	Amount      string
}

// Selection carries the user-facing filter controls.
type Selection struct {
	Clients []string
	Summary bool
}

// TotalsByClient groups orders by client and sums the total column,
// skipping rows whose total failed coercion. The result is sorted by
// client name and never contains the grand-total margin label.
func TotalsByClient(orders []Order) []ClientTotal {
	byClient := map[string]int64{}
	for _, o := range orders {
		client := strings.TrimSpace(o.Client)
		if client == "" || strings.EqualFold(client, GrandTotalLabel) {
			continue
		}
		if !o.Total.Valid {
			continue
		}
		byClient[client] += o.Total.Cents
	}
	out := make([]ClientTotal, 0, len(byClient))
	for c, cents := range byClient {
		out = append(out, ClientTotal{Client: c, Cents: cents})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}

// GrandTotal sums the total column across all orders, skipping missing
// values. It equals the sum of all per-client totals by construction.
func GrandTotal(orders []Order) int64 {
	var sum int64
	for _, t := range TotalsByClient(orders) {
		sum += t.Cents
	}
	return sum
}

// CurrentClients returns the sorted names of clients with at least one
// order, excluding the margin label and blank cells.
func CurrentClients(orders []Order) []string {
	totals := TotalsByClient(orders)
	out := make([]string, 0, len(totals))
	for _, t := range totals {
		out = append(out, t.Client)
	}
	// TotalsByClient drops coercion failures; a client whose only orders
	// have missing totals still counts as current.
	seen := map[string]struct{}{}
	for _, c := range out {
		seen[c] = struct{}{}
	}
	for _, o := range orders {
		client := strings.TrimSpace(o.Client)
		if client == "" || strings.EqualFold(client, GrandTotalLabel) {
			continue
		}
		if _, ok := seen[client]; !ok {
			seen[client] = struct{}{}
			out = append(out, client)
		}
	}
	sort.Strings(out)
	return out
}

// Filter returns the orders whose client is in the selection, preserving
// input order.
func Filter(orders []Order, clients []string) []Order {
	want := make(map[string]struct{}, len(clients))
	for _, c := range clients {
		want[strings.TrimSpace(c)] = struct{}{}
	}
	var out []Order
	for _, o := range orders {
		if _, ok := want[strings.TrimSpace(o.Client)]; ok {
			out = append(out, o)
		}
	}
	return out
}

// Render evaluates the selection against the orders table and produces
// renderable lines.
//
// An explicitly empty selection renders nothing. A zero filtered sum
// collapses to a single zero-amount line. Otherwise summary mode emits one
// line per client, and detail mode emits the filtered rows sorted by
// client name.
func Render(orders []Order, sel Selection) []Line {
	if len(sel.Clients) == 0 {
		return nil
	}
	filtered := Filter(orders, sel.Clients)
	if GrandTotal(filtered) == 0 {
		return []Line{{
			Kind:   LineZero,
			Client: strings.Join(sel.Clients, ", "),
			Amount: FormatCents(0),
		}}
	}
	if sel.Summary {
		totals := TotalsByClient(filtered)
		lines := make([]Line, 0, len(totals))
		for _, t := range totals {
			lines = append(lines, Line{
				Kind:   LineSummary,
				Client: t.Client,
				Amount: FormatCents(t.Cents),
			})
		}
		return lines
	}
	sorted := make([]Order, len(filtered))
	copy(sorted, filtered)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Client < sorted[j].Client })
	lines := make([]Line, 0, len(sorted))
	for _, o := range sorted {
		var qty int64
		if o.Quantity.Valid && o.Quantity.N > 1 {
			qty = o.Quantity.N
		}
		lines = append(lines, Line{
			Kind:        LineDetail,
			Client:      o.Client,
			Restaurant:  o.Restaurant,
			Description: o.Description,
			Quantity:    qty,
			Amount:      o.Total.Format(),
		})
	}
	return lines
}
