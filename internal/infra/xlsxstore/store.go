// Row store adapter backed by a local .xlsx workbook, for running the desk
// offline against an exported copy of the registration sheet.
package xlsxstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/etarang/garba-desk/internal/rowdata"
)

type Store struct {
	Path      string
	SheetName string

	// Serializes access to the on-disk workbook: writes reopen and save the
	// file, and a concurrent read must not observe a half-written save.
	mu sync.Mutex
}

func NewStore(path, sheetName string) *Store {
	return &Store{Path: path, SheetName: sheetName}
}

func (s *Store) ReadAll(ctx context.Context) (*rowdata.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.Path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", s.SheetName, err)
	}

	return rowdata.SnapshotFromRows(rows), nil
}

func (s *Store) UpdateCell(ctx context.Context, u rowdata.CellUpdate) error {
	return s.BatchUpdate(ctx, []rowdata.CellUpdate{u})
}

func (s *Store) BatchUpdate(ctx context.Context, updates []rowdata.CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return fmt.Errorf("open workbook %s: %w", s.Path, err)
	}
	defer f.Close()

	for _, u := range updates {
		cell := rowdata.ToA1(u.Col, u.Row)
		if err := f.SetCellValue(s.SheetName, cell, u.Value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
