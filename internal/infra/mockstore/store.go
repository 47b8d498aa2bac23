// In-memory row store with a small seeded dataset. Keeps the dashboard
// working without Sheets credentials and doubles as the test fake.
package mockstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/etarang/garba-desk/internal/entity"
	"github.com/etarang/garba-desk/internal/rowdata"
)

// Column layout mirrors the live sheet: A..I.
var columns = map[string]int{
	rowdata.ColRegistrationNumber: 0,
	rowdata.ColName:               1,
	rowdata.ColEmail:              2,
	rowdata.ColPhone:              3,
	rowdata.ColResidency:          4,
	rowdata.ColUniqueID:           5,
	rowdata.ColTransaction:        6,
	rowdata.ColDesk:               7,
	rowdata.ColMailSent:           8,
}

type Store struct {
	mu      sync.Mutex
	entries []entity.Entry

	// FailReads forces ReadAll to error, for exercising the fetch-failed path.
	FailReads bool
}

// New seeds the store with the given entries, assigning rowNumber = idx+2 to
// stay consistent with the sheet (header is row 1, data starts at row 2).
// With no arguments it loads the sample dataset.
func New(entries ...entity.Entry) *Store {
	if len(entries) == 0 {
		entries = sampleEntries()
	}
	for i := range entries {
		entries[i].RowNumber = i + 2
	}
	return &Store{entries: entries}
}

// NewEmpty builds a store with no rows at all.
func NewEmpty() *Store {
	return &Store{}
}

func (s *Store) ReadAll(ctx context.Context) (*rowdata.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailReads {
		return nil, fmt.Errorf("mock store: read failure")
	}

	out := make([]entity.Entry, len(s.entries))
	copy(out, s.entries)
	cols := make(map[string]int, len(columns))
	for k, v := range columns {
		cols[k] = v
	}
	return &rowdata.Snapshot{Entries: out, Columns: cols, Total: len(out)}, nil
}

func (s *Store) UpdateCell(ctx context.Context, u rowdata.CellUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(u)
}

func (s *Store) BatchUpdate(ctx context.Context, updates []rowdata.CellUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range updates {
		if err := s.apply(u); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) apply(u rowdata.CellUpdate) error {
	idx := u.Row - 2
	if idx < 0 || idx >= len(s.entries) {
		return fmt.Errorf("mock store: row %d out of range", u.Row)
	}

	e := &s.entries[idx]
	switch u.Col {
	case columns[rowdata.ColUniqueID]:
		e.UniqueID = u.Value
	case columns[rowdata.ColMailSent]:
		e.MailSent = rowdata.ParseSentFlag(u.Value)
	case columns[rowdata.ColDesk]:
		e.Desk = u.Value
	default:
		return fmt.Errorf("mock store: column %d is not writable", u.Col)
	}
	return nil
}

func sampleEntries() []entity.Entry {
	return []entity.Entry{
		{RegistrationNumber: "24BCE1001", Name: "Ravi Sharma", Email: "ravi.sharma@vitstudent.ac.in", PhoneNumber: "9876500011", ResidencyStatus: "Hosteller", UniqueID: "ET-KQ7MWP2X", TransactionID: "UTR883201", Desk: "Desk A", MailSent: true},
		{RegistrationNumber: "24BCE1002", Name: "Meera Iyer", Email: "meera.iyer@vitstudent.ac.in", PhoneNumber: "9876500012", ResidencyStatus: "Day Scholar", UniqueID: "ET-XN4RT8LQ", TransactionID: "UTR883202", Desk: "Desk A"},
		{RegistrationNumber: "24BEE2041", Name: "Arjun Nair", Email: "arjun.nair@vitstudent.ac.in", PhoneNumber: "9876500013", ResidencyStatus: "Hosteller", TransactionID: "UTR883203", Desk: "Desk B"},
		{RegistrationNumber: "24BME3107", Name: "Asha Patel", Email: "asha.patel@vitstudent.ac.in", PhoneNumber: "9876500014", ResidencyStatus: "Day Scholar", TransactionID: "UTR883204"},
		{RegistrationNumber: "24BCS4220", Name: "Karthik Reddy", Email: "karthik.reddy@vitstudent.ac.in", PhoneNumber: "9876500015", ResidencyStatus: "Hosteller", UniqueID: "ET-P9WDH3KM", TransactionID: "UTR883205", Desk: "Desk C"},
		{RegistrationNumber: "24BBA5013", Name: "Sneha Kulkarni", Email: "sneha.kulkarni@vitstudent.ac.in", PhoneNumber: "9876500016", ResidencyStatus: "Day Scholar", TransactionID: "UTR883206"},
	}
}
