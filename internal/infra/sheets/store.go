// Row store adapter backed by a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"fmt"

	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/etarang/garba-desk/internal/rowdata"
)

type Store struct {
	Service       *sheetsapi.Service
	SpreadsheetID string
	ReadRange     string // e.g. "Entries!A:H"
	SheetName     string
}

func NewStore(svc *sheetsapi.Service, spreadsheetID, readRange, sheetName string) *Store {
	return &Store{
		Service:       svc,
		SpreadsheetID: spreadsheetID,
		ReadRange:     readRange,
		SheetName:     sheetName,
	}
}

// ReadAll fetches the full rectangular range and maps it through the header
// row. A transport or auth failure is returned as an error, so callers can
// tell "truly empty" from "fetch failed".
func (s *Store) ReadAll(ctx context.Context) (*rowdata.Snapshot, error) {
	resp, err := s.Service.Spreadsheets.Values.Get(s.SpreadsheetID, s.ReadRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %q: %w", s.ReadRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}

	return rowdata.SnapshotFromRows(rows), nil
}

// UpdateCell writes one value at the update's A1 address.
func (s *Store) UpdateCell(ctx context.Context, u rowdata.CellUpdate) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{{u.Value}}}
	_, err := s.Service.Spreadsheets.Values.
		Update(s.SpreadsheetID, s.cellRange(u), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update cell %s: %w", s.cellRange(u), err)
	}
	return nil
}

// BatchUpdate applies all queued cell writes in a single API call.
func (s *Store) BatchUpdate(ctx context.Context, updates []rowdata.CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	data := make([]*sheetsapi.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheetsapi.ValueRange{
			Range:  s.cellRange(u),
			Values: [][]interface{}{{u.Value}},
		})
	}

	req := &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	if _, err := s.Service.Spreadsheets.Values.BatchUpdate(s.SpreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("batch update %d cells: %w", len(updates), err)
	}
	return nil
}

func (s *Store) cellRange(u rowdata.CellUpdate) string {
	a1 := rowdata.ToA1(u.Col, u.Row)
	return fmt.Sprintf("%s!%s:%s", s.SheetName, a1, a1)
}
