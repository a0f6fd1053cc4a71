package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"obed/internal/core"
	applog "obed/internal/log"
	sheets "obed/internal/sheets"
)

// viewState is the parsed form state of the dashboard controls.
type viewState struct {
	// Clients is the active selection. Empty means "show nothing" when
	// the form was submitted explicitly.
	Clients []string
	// ShowAll limits the picker to clients that already ordered today.
	ShowAll bool
	// Summary toggles per-client totals versus line-item detail.
	Summary bool
	// Explicit reports whether the state came from a submitted form
	// rather than from defaults.
	Explicit bool
}

// pageData feeds the index and orders templates.
type pageData struct {
	Options  []string
	Selected map[string]bool
	ShowAll  bool
	Summary  bool

	Lines      []core.Line
	GrandTotal string
	HasLines   bool
	// NothingSelected distinguishes an explicitly cleared selection from
	// an empty orders sheet.
	NothingSelected bool

	LastModified   string
	SpreadsheetURL string
	LoadMillis     int64

	ErrorMessage string
	Remediation  string
}

// parseViewState reads the control state from query parameters. A hidden
// "f=1" field distinguishes an explicitly empty selection from a first
// visit with no parameters at all.
func parseViewState(r *http.Request) viewState {
	q := r.URL.Query()
	if q.Get("f") != "1" {
		return viewState{ShowAll: true, Summary: true}
	}
	return viewState{
		Clients:  q["client"],
		ShowAll:  q.Get("all") == "on",
		Summary:  q.Get("summary") == "on",
		Explicit: true,
	}
}

// buildPage loads the workbook and evaluates the selection into template
// data. Auth failures are returned so the caller can render the error view.
func (s *Server) buildPage(r *http.Request, state viewState) (pageData, error) {
	started := time.Now()
	wb, err := s.dash.Workbook(r.Context(), s.spreadsheetID)
	if err != nil {
		return pageData{}, err
	}

	options := core.CurrentClients(wb.Orders)
	if !state.ShowAll {
		if all := wb.ScheduleClients(); len(all) > 0 {
			options = all
		}
	}

	clients := state.Clients
	if !state.Explicit {
		// First visit: preselect everyone on offer.
		clients = options
	}

	lines := core.Render(wb.Orders, core.Selection{Clients: clients, Summary: state.Summary})

	selected := make(map[string]bool, len(clients))
	for _, c := range clients {
		selected[c] = true
	}

	data := pageData{
		Options:    options,
		Selected:   selected,
		ShowAll:    state.ShowAll,
		Summary:    state.Summary,
		Lines:      lines,
		GrandTotal: core.FormatCents(core.GrandTotal(core.Filter(wb.Orders, clients))),
		HasLines:   len(lines) > 0,
		// An empty orders sheet shows the no-data message, not the
		// selection prompt.
		NothingSelected: len(clients) == 0 && len(wb.Orders) > 0,
		SpreadsheetURL:  s.spreadsheetURL,
		LoadMillis:      time.Since(started).Milliseconds(),
	}

	modified, err := s.dash.LastModified(r.Context(), s.spreadsheetID)
	if err != nil {
		return pageData{}, err
	}
	data.LastModified = modified

	return data, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := s.buildPage(r, parseViewState(r))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "index.html", data)
}

// handleOrdersPartial re-renders only the orders block, for in-place
// updates when a control changes.
func (s *Server) handleOrdersPartial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := s.buildPage(r, parseViewState(r))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "orders", data)
}

// handleRefresh drops the shared workbook cache for every session and
// sends the browser back to a fresh page.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.dash.Refresh()
	slog.InfoContext(r.Context(), "Cache refreshed",
		applog.FieldOperation, applog.OpRefresh,
		applog.FieldSpreadsheetID, s.spreadsheetID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded")
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template render failed", applog.FieldTemplate, name, applog.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// renderError shows the full-page error view. Auth-refresh failures carry
// a remediation hint; anything else gets a generic message.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	data := pageData{
		SpreadsheetURL: s.spreadsheetURL,
		ErrorMessage:   "Данните не могат да бъдат заредени.",
	}
	status := http.StatusBadGateway
	if errors.Is(err, sheets.ErrAuthRefresh) {
		data.Remediation = "Проверете дали ключът на сервизния акаунт е валиден и дали таблицата е споделена с неговия имейл."
	}
	slog.ErrorContext(r.Context(), "Page render failed", applog.FieldSpreadsheetID, s.spreadsheetID, applog.FieldError, err)
	if s.templates == nil {
		http.Error(w, data.ErrorMessage, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "error.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template render failed", applog.FieldTemplate, "error.html", applog.FieldError, err)
	}
}
