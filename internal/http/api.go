package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"obed/internal/core"
	applog "obed/internal/log"
	sheets "obed/internal/sheets"
)

// The /api routes back the mobile client. They return the raw coerced
// orders plus the per-client pivot, without any of the page's selection
// state.

type apiOrder struct {
	Client      string   `json:"client"`
	Restaurant  string   `json:"restaurant"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	DiscPrice   *float64 `json:"disc_price"`
	Quantity    *int64   `json:"quantity"`
	Total       *float64 `json:"total"`
}

type apiClientTotal struct {
	Client string  `json:"client"`
	Total  float64 `json:"total"`
}

type apiOrdersResponse struct {
	Orders  []apiOrder       `json:"orders"`
	Summary []apiClientTotal `json:"summary"`
}

func amountValue(a core.Amount) *float64 {
	if !a.Valid {
		return nil
	}
	v := float64(a.Cents) / 100
	return &v
}

func quantityValue(q core.Quantity) *int64 {
	if !q.Valid {
		return nil
	}
	n := q.N
	return &n
}

func (s *Server) handleAPIOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	wb, err := s.dash.Workbook(r.Context(), s.spreadsheetID)
	if err != nil {
		s.writeAPIFailure(w, r, err)
		return
	}

	orders := make([]apiOrder, 0, len(wb.Orders))
	for _, o := range wb.Orders {
		// The pivot's synthetic margin row is not a real order.
		if o.Client == "" || strings.EqualFold(o.Client, core.GrandTotalLabel) {
			continue
		}
		orders = append(orders, apiOrder{
			Client:      o.Client,
			Restaurant:  o.Restaurant,
			Description: o.Description,
			Price:       amountValue(o.Price),
			DiscPrice:   amountValue(o.DiscPrice),
			Quantity:    quantityValue(o.Quantity),
			Total:       amountValue(o.Total),
		})
	}

	totals := core.TotalsByClient(wb.Orders)
	summary := make([]apiClientTotal, 0, len(totals))
	for _, t := range totals {
		summary = append(summary, apiClientTotal{Client: t.Client, Total: float64(t.Cents) / 100})
	}

	writeJSON(w, http.StatusOK, apiOrdersResponse{Orders: orders, Summary: summary})
}

func (s *Server) handleAPILastModified(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	modified, err := s.dash.LastModified(r.Context(), s.spreadsheetID)
	if err != nil {
		s.writeAPIFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"modifiedTime": modified})
}

func (s *Server) handleAPIHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) writeAPIFailure(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "API request failed", applog.FieldSpreadsheetID, s.spreadsheetID, applog.FieldError, err)
	if errors.Is(err, sheets.ErrAuthRefresh) {
		writeJSONError(w, http.StatusBadGateway, "credentials rejected by the spreadsheet service")
		return
	}
	writeJSONError(w, http.StatusBadGateway, "spreadsheet data unavailable")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", applog.FieldError, err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
