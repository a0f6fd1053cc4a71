package google

import (
	"strings"

	"obed/internal/core"
)

// gridFromValues splits a raw range into header and data rows.
func gridFromValues(values [][]string) core.Grid {
	if len(values) == 0 {
		return core.Grid{}
	}
	return core.Grid{Headers: values[0], Rows: values[1:]}
}

// parseOrders converts the orders range (header row first) into typed
// records. Columns are resolved by header name, so inserted columns do not
// shift the mapping; the four numeric columns coerce to missing on
// unparseable text.
func parseOrders(values [][]string) []core.Order {
	if len(values) < 2 {
		return nil
	}
	header := values[0]
	colClient := indexOf(header, "Client")
	colRestaurant := indexOf(header, "restorant")
	colDesc := indexOf(header, "desc")
	colPrice := indexOf(header, "price")
	colDiscPrice := indexOf(header, "disc_price")
	colQuant := indexOf(header, "quant")
	colTotal := indexOf(header, "total")

	orders := make([]core.Order, 0, len(values)-1)
	for _, row := range values[1:] {
		o := core.Order{
			Client:      safeGet(row, colClient),
			Restaurant:  safeGet(row, colRestaurant),
			Description: safeGet(row, colDesc),
			Price:       core.ParseAmount(safeGet(row, colPrice)),
			DiscPrice:   core.ParseAmount(safeGet(row, colDiscPrice)),
			Quantity:    core.ParseQuantity(safeGet(row, colQuant)),
			Total:       core.ParseAmount(safeGet(row, colTotal)),
		}
		// Rows with no client are padding at the bottom of the range.
		if o.Client == "" {
			continue
		}
		orders = append(orders, o)
	}
	return orders
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return strings.TrimSpace(arr[idx])
}
