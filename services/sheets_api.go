package services

import (
	"context"
	"fmt"

	"tingles_server/utils"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetAPI is the narrow surface SheetsService needs from a spreadsheet.
// The production implementation talks to the Google Sheets API; tests plug
// in an in-memory fake.
type SheetAPI interface {
	// Rows returns every row of a worksheet including the header row,
	// cells flattened to strings. An existing but empty worksheet yields
	// an empty slice.
	Rows(ctx context.Context, sheet string) ([][]string, error)

	// AppendRow appends one row after the last non-empty row.
	AppendRow(ctx context.Context, sheet string, values []string) error

	// UpdateCell writes a single cell, 1-based row and column, row 1
	// being the header.
	UpdateCell(ctx context.Context, sheet string, row, col int, value string) error

	// EnsureSheet creates the worksheet with the given header when it
	// does not exist yet. Idempotent.
	EnsureSheet(ctx context.Context, sheet string, header []string) error
}

// GoogleSheetAPI implements SheetAPI against one spreadsheet through the
// Sheets v4 API with a service account.
type GoogleSheetAPI struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewGoogleSheetAPI builds the Sheets client once; a failure here means the
// backend is unavailable for the rest of the process.
func NewGoogleSheetAPI(ctx context.Context, credsFile, spreadsheetID string) (*GoogleSheetAPI, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("%w: no spreadsheet configured", ErrBackendUnavailable)
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: sheets client init: %v", ErrBackendUnavailable, err)
	}
	return &GoogleSheetAPI{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (g *GoogleSheetAPI) Rows(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", sheet, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (g *GoogleSheetAPI) AppendRow(ctx context.Context, sheet string, values []string) error {
	raw := make([]interface{}, len(values))
	for i, v := range values {
		raw[i] = v
	}
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, sheet, &sheets.ValueRange{
		Values: [][]interface{}{raw},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %q: %w", sheet, err)
	}
	return nil
}

func (g *GoogleSheetAPI) UpdateCell(ctx context.Context, sheet string, row, col int, value string) error {
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, utils.CellRef(sheet, row, col), &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", utils.CellRef(sheet, row, col), err)
	}
	return nil
}

func (g *GoogleSheetAPI) EnsureSheet(ctx context.Context, sheet string, header []string) error {
	meta, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("list worksheets: %w", err)
	}
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title == sheet {
			return nil
		}
	}

	_, err = g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sheet},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create worksheet %q: %w", sheet, err)
	}
	return g.AppendRow(ctx, sheet, header)
}
