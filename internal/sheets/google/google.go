package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"obed/internal/config"
	"obed/internal/core"
	applog "obed/internal/log"
	ports "obed/internal/sheets"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Worksheet ranges of the lunch spreadsheet. The orders header sits on the
// third physical row, so the first row A3:I returns is the header.
const (
	scheduleRange = "Hora"
	catalogRange  = "Mandji!A1:H"
	ordersRange   = "Orders!A3:I"
)

// Client reads the lunch spreadsheet through the Sheets and Drive APIs
// with one shared service-account session.
type Client struct {
	sheets *gsheet.Service
	drive  *gdrive.Service
}

// Ensure interface conformance
var (
	_ ports.WorkbookLoader = (*Client)(nil)
	_ ports.MetadataReader = (*Client)(nil)
)

// NewFromConfig builds a client from the loaded configuration, preferring
// inline key JSON over a key file.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Client, error) {
	var keyJSON []byte
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		keyJSON = []byte(cfg.ServiceAccountJSON)
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		b, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read key file: %v", ports.ErrCredentials, err)
		}
		keyJSON = b
	default:
		return nil, fmt.Errorf("%w: set SERVICE_ACCOUNT_JSON or SERVICE_ACCOUNT_FILE", ports.ErrCredentials)
	}
	return New(ctx, keyJSON, cfg.Scopes)
}

// New creates a client from a service-account key and read-only scopes.
func New(ctx context.Context, keyJSON []byte, scopes []string) (*Client, error) {
	jwtCfg, err := googleauth.JWTConfigFromJSON(keyJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrCredentials, err)
	}

	httpClient := oauth2.NewClient(ctx, jwtCfg.TokenSource(ctx))

	sheetsSvc, err := gsheet.NewService(ctx, goption.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	driveSvc, err := gdrive.NewService(ctx, goption.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &Client{sheets: sheetsSvc, drive: driveSvc}, nil
}

// LoadWorkbook fetches the three ranges in parallel. A failed range is
// absorbed as an empty collection; an invalid session aborts the load so
// the caller can surface a remediation message.
func (c *Client) LoadWorkbook(ctx context.Context, spreadsheetID string) (core.Workbook, error) {
	if c.sheets == nil {
		return core.Workbook{}, errors.New("sheets service not initialized")
	}

	var wb core.Workbook
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		values, err := c.fetchRange(ctx, spreadsheetID, scheduleRange)
		if err != nil {
			return err
		}
		wb.Schedule = gridFromValues(values)
		return nil
	})
	g.Go(func() error {
		values, err := c.fetchRange(ctx, spreadsheetID, catalogRange)
		if err != nil {
			return err
		}
		wb.Catalog = gridFromValues(values)
		return nil
	})
	g.Go(func() error {
		values, err := c.fetchRange(ctx, spreadsheetID, ordersRange)
		if err != nil {
			return err
		}
		wb.Orders = parseOrders(values)
		return nil
	})

	if err := g.Wait(); err != nil {
		return core.Workbook{}, err
	}
	return wb, nil
}

// fetchRange reads one range as strings. Non-auth failures degrade to an
// empty result with a warning, keeping a broken worksheet from taking the
// whole page down.
func (c *Client) fetchRange(ctx context.Context, spreadsheetID, rng string) ([][]string, error) {
	resp, err := c.sheets.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		if isAuthError(err) {
			return nil, fmt.Errorf("%w: check the key JSON and that the sheet is shared with the service account email", ports.ErrAuthRefresh)
		}
		slog.WarnContext(ctx, "Range fetch failed, serving empty range",
			applog.FieldComponent, applog.ComponentSheets,
			applog.FieldSpreadsheetID, spreadsheetID,
			applog.FieldRange, rng,
			applog.FieldError, err)
		return nil, nil
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		out = append(out, toStrings(row))
	}
	return out, nil
}

// LastModified queries Drive metadata for the document's modification
// instant, in UTC.
func (c *Client) LastModified(ctx context.Context, spreadsheetID string) (time.Time, error) {
	if c.drive == nil {
		return time.Time{}, errors.New("drive service not initialized")
	}
	meta, err := c.drive.Files.Get(spreadsheetID).Fields("modifiedTime").Context(ctx).Do()
	if err != nil {
		if isAuthError(err) {
			return time.Time{}, fmt.Errorf("%w: check the key JSON and that the sheet is shared with the service account email", ports.ErrAuthRefresh)
		}
		return time.Time{}, fmt.Errorf("drive metadata for %s: %w", spreadsheetID, err)
	}
	ts, err := time.Parse(time.RFC3339, meta.ModifiedTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse modifiedTime %q: %w", meta.ModifiedTime, err)
	}
	return ts.UTC(), nil
}

// isAuthError reports whether err means the session itself is invalid, as
// opposed to a single range being unavailable.
func isAuthError(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return true
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 401 || apiErr.Code == 403
	}
	return false
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
