package sheets

import (
	"context"
	"errors"
	"time"

	"obed/internal/core"
)

// Ports for outbound adapters.
type (
	// WorkbookLoader retrieves the three ranges of the lunch spreadsheet.
	WorkbookLoader interface {
		// LoadWorkbook fetches schedule, catalog, and orders for the
		// given document id. A single failed range yields an empty
		// collection; only an invalid session fails the whole load.
		LoadWorkbook(ctx context.Context, spreadsheetID string) (core.Workbook, error)
	}

	// MetadataReader reports when the document was last modified.
	MetadataReader interface {
		LastModified(ctx context.Context, spreadsheetID string) (time.Time, error)
	}
)

var (
	// ErrCredentials marks a missing or malformed service-account key.
	// Fatal at startup.
	ErrCredentials = errors.New("invalid service account credentials")

	// ErrAuthRefresh marks a token exchange rejected by Google, usually a
	// stale key or a document not shared with the service-account email.
	// Fatal for the current render cycle.
	ErrAuthRefresh = errors.New("credentials refresh rejected")
)
