package store

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource serves tables from a Google Sheets document. Each game
// table is one sheet tab named after the table constant.
type SheetsSource struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsSource builds a source from an injected service-account
// credential blob. The credential needs the spreadsheet read/write and
// drive scopes.
func NewSheetsSource(ctx context.Context, spreadsheetID string, credentialsJSON []byte) (*SheetsSource, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON,
		sheets.SpreadsheetsScope, sheets.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &SheetsSource{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (s *SheetsSource) ReadTable(ctx context.Context, table string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, table).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", table, err)
	}
	grid := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		grid[i] = cells
	}
	return grid, nil
}

func toAnyRow(cells []string) []any {
	row := make([]any, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func (s *SheetsSource) UpdateRow(ctx context.Context, table string, row int, cells []string) error {
	// data row 0 lives on sheet row 2, after the header
	rng := fmt.Sprintf("%s!A%d", table, row+2)
	vr := &sheets.ValueRange{Values: [][]any{toAnyRow(cells)}}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheet %q row %d: %w", table, row, err)
	}
	return nil
}

func (s *SheetsSource) AppendRow(ctx context.Context, table string, cells []string) error {
	vr := &sheets.ValueRange{Values: [][]any{toAnyRow(cells)}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, table, vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheet %q append: %w", table, err)
	}
	return nil
}
