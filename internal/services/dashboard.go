// Package services wires the spreadsheet adapters to the HTTP layer:
// a TTL-cached workbook loader and a process-lifetime memo of the
// document's last-modified timestamp.
package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"obed/internal/cache"
	"obed/internal/core"
	applog "obed/internal/log"
	sheets "obed/internal/sheets"

	"golang.org/x/sync/singleflight"
)

// NotAvailable is shown when the last-modified timestamp cannot be fetched
// for a non-fatal reason.
const NotAvailable = "N/A"

// Dashboard serves cached workbook data to every session of the process.
// The cache is keyed by document id, so all users inside one TTL window
// share a single remote fetch.
type Dashboard struct {
	loader sheets.WorkbookLoader
	meta   sheets.MetadataReader
	store  *cache.TTLStore[core.Workbook]
	group  singleflight.Group
	loc    *time.Location

	mu       sync.Mutex
	modified map[string]string
}

// NewDashboard builds the service. ttl bounds workbook staleness; loc is
// the display timezone for the last-modified string.
func NewDashboard(loader sheets.WorkbookLoader, meta sheets.MetadataReader, ttl time.Duration, loc *time.Location) *Dashboard {
	if loc == nil {
		loc = time.UTC
	}
	return &Dashboard{
		loader:   loader,
		meta:     meta,
		store:    cache.NewTTLStore[core.Workbook](ttl),
		loc:      loc,
		modified: make(map[string]string),
	}
}

// Workbook returns the cached triple for the document, fetching it when
// the cache is cold. Concurrent cold calls collapse into one remote fetch.
func (d *Dashboard) Workbook(ctx context.Context, spreadsheetID string) (core.Workbook, error) {
	if wb, ok := d.store.Get(spreadsheetID); ok {
		return wb, nil
	}
	v, err, shared := d.group.Do(spreadsheetID, func() (interface{}, error) {
		// A concurrent caller may have populated the cache while this
		// call waited on the flight group.
		if wb, ok := d.store.Get(spreadsheetID); ok {
			return wb, nil
		}
		started := time.Now()
		wb, err := d.loader.LoadWorkbook(ctx, spreadsheetID)
		if err != nil {
			return core.Workbook{}, err
		}
		d.store.Set(spreadsheetID, wb)
		slog.InfoContext(ctx, "Workbook loaded",
			applog.FieldComponent, applog.ComponentDashboard,
			applog.FieldOperation, applog.OpLoad,
			applog.FieldSpreadsheetID, spreadsheetID,
			applog.FieldOrderCount, len(wb.Orders),
			applog.FieldDuration, time.Since(started).Milliseconds())
		return wb, nil
	})
	if err != nil {
		return core.Workbook{}, err
	}
	if shared {
		slog.DebugContext(ctx, "Workbook fetch shared between callers",
			applog.FieldComponent, applog.ComponentDashboard,
			applog.FieldSpreadsheetID, spreadsheetID)
	}
	return v.(core.Workbook), nil
}

// Refresh drops every cached workbook. This is the manual cache-busting
// control: deliberately global, it affects all sessions at once.
func (d *Dashboard) Refresh() {
	d.store.Purge()
}

// LastModified returns the formatted modification timestamp for the
// document, computed once per document id for the process lifetime.
// Auth-refresh failures propagate; anything else degrades to "N/A".
func (d *Dashboard) LastModified(ctx context.Context, spreadsheetID string) (string, error) {
	d.mu.Lock()
	if s, ok := d.modified[spreadsheetID]; ok {
		d.mu.Unlock()
		return s, nil
	}
	d.mu.Unlock()

	ts, err := d.meta.LastModified(ctx, spreadsheetID)
	if err != nil {
		if errors.Is(err, sheets.ErrAuthRefresh) {
			return "", err
		}
		slog.WarnContext(ctx, "Could not fetch modified time",
			applog.FieldComponent, applog.ComponentDashboard,
			applog.FieldOperation, applog.OpMetadata,
			applog.FieldSpreadsheetID, spreadsheetID,
			applog.FieldError, err)
		d.memoize(spreadsheetID, NotAvailable)
		return NotAvailable, nil
	}

	s := ts.In(d.loc).Format("02.01.2006 | 15:04")
	d.memoize(spreadsheetID, s)
	return s, nil
}

func (d *Dashboard) memoize(id, value string) {
	d.mu.Lock()
	d.modified[id] = value
	d.mu.Unlock()
}

// RegisterCleanup attaches the workbook cache to a cleanup manager.
func (d *Dashboard) RegisterCleanup(m *cache.Manager) {
	m.Register(d.store)
}
