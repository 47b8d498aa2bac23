package usecase

import (
	"context"
	"strings"

	"github.com/etarang/garba-desk/internal/rowdata"
)

type IDAssigner struct {
	Store RowStore
}

func NewIDAssigner(store RowStore) *IDAssigner {
	return &IDAssigner{Store: store}
}

// AssignMissing generates an identifier for every row whose unique-id cell is
// blank after trimming and applies all of them as one batched write. Existing
// non-blank identifiers are never overwritten, so a second run with no data
// change updates nothing.
func (a *IDAssigner) AssignMissing(ctx context.Context) (int, error) {
	snap, err := a.Store.ReadAll(ctx)
	if err != nil {
		return 0, &TechnicalError{
			Code:    "STORE_READ_FAILED",
			Message: "read entries: " + err.Error(),
		}
	}

	col, ok := snap.Columns[rowdata.ColUniqueID]
	if !ok {
		return 0, &DomainError{
			Code:    "MISSING_COLUMN",
			Message: "the sheet must contain a 'Unique ID' column",
		}
	}

	var updates []rowdata.CellUpdate
	for _, e := range snap.Entries {
		if strings.TrimSpace(e.UniqueID) != "" {
			continue
		}
		updates = append(updates, rowdata.CellUpdate{
			Col:   col,
			Row:   e.RowNumber,
			Value: generateUniqueID(),
		})
	}

	if len(updates) == 0 {
		return 0, nil
	}

	if err := a.Store.BatchUpdate(ctx, updates); err != nil {
		return 0, &TechnicalError{
			Code:    "STORE_WRITE_FAILED",
			Message: "write identifiers: " + err.Error(),
		}
	}

	return len(updates), nil
}
