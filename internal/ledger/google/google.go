// Package google adapts the ledger ports to a Google Sheets spreadsheet.
// The sheet is the remote source of truth: one row per ledger entry with
// columns Name, Role, Group, Amount, Comment, id, Date.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/McPreacher/MissionTeamMoney/internal/core"
	"github.com/McPreacher/MissionTeamMoney/internal/ledger"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string

	// Numeric sheet id, resolved lazily; required for row deletion.
	// Guarded by sheetIDMu: Apply runs from concurrent handler goroutines
	// when the client is the direct write path.
	sheetIDMu    sync.Mutex
	sheetID      int64
	sheetIDKnown bool
}

var _ ledger.Store = (*Client)(nil)

// NewFromEnv creates a Sheets-backed ledger client.
// Required: GOOGLE_SPREADSHEET_ID. Optional: GOOGLE_SHEET_NAME (default
// "Ledger") and service account credentials via GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Ledger"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Snapshot reads the whole ledger sheet and translates rows into entries.
func (c *Client) Snapshot(ctx context.Context) ([]core.LedgerEntry, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:G", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return parseEntries(resp.Values), nil
}

// Apply executes one mutation against the sheet.
func (c *Client) Apply(ctx context.Context, m ledger.Mutation) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	m = m.Normalize()

	switch m.Action {
	case ledger.ActionAdd:
		return c.appendEntry(ctx, m)
	case ledger.ActionDelete:
		group := m.Group
		if group == "" {
			group = core.DefaultGroup
		}
		return c.deleteRows(ctx, func(e core.LedgerEntry) bool {
			return e.Name == m.Name && e.GroupOrDefault() == group
		})
	case ledger.ActionDeleteTransaction:
		return c.deleteRows(ctx, func(e core.LedgerEntry) bool {
			return e.ID == m.ID
		})
	case ledger.ActionReset:
		rng := fmt.Sprintf("%s!A2:G", c.sheetName)
		_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("clear %s: %w", rng, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown ledger action %q", m.Action)
	}
}

func (c *Client) appendEntry(ctx context.Context, m ledger.Mutation) error {
	rng := fmt.Sprintf("%s!A:G", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{entryRow(m)}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", rng, err)
	}
	slog.InfoContext(ctx, "Ledger entry appended",
		"id", m.ID, "name", m.Name, "group", m.Group, "comment", m.Comment)
	return nil
}

// deleteRows removes every data row whose parsed entry matches. Rows are
// deleted bottom-up so earlier deletions do not shift later indices.
func (c *Client) deleteRows(ctx context.Context, match func(core.LedgerEntry) bool) error {
	rng := fmt.Sprintf("%s!A:G", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}

	rows := matchRows(resp.Values, match)
	if len(rows) == 0 {
		slog.WarnContext(ctx, "Delete matched no rows", "sheet", c.sheetName)
		return nil
	}

	sheetID, err := c.resolveSheetID(ctx)
	if err != nil {
		return err
	}

	sort.Sort(sort.Reverse(sort.IntSlice(rows)))
	reqs := make([]*gsheet.Request, 0, len(rows))
	for _, r := range rows {
		reqs = append(reqs, &gsheet.Request{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(r),
					EndIndex:   int64(r + 1),
				},
			},
		})
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete %d rows from %s: %w", len(rows), c.sheetName, err)
	}
	slog.InfoContext(ctx, "Ledger rows deleted", "sheet", c.sheetName, "count", len(rows))
	return nil
}

func (c *Client) resolveSheetID(ctx context.Context) (int64, error) {
	c.sheetIDMu.Lock()
	defer c.sheetIDMu.Unlock()
	if c.sheetIDKnown {
		return c.sheetID, nil
	}
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.sheetName {
			c.sheetID = sh.Properties.SheetId
			c.sheetIDKnown = true
			return c.sheetID, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", c.sheetName)
}
