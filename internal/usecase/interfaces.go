package usecase

import (
	"context"

	"github.com/etarang/garba-desk/internal/entity"
	"github.com/etarang/garba-desk/internal/infra/queue"
	"github.com/etarang/garba-desk/internal/rowdata"
)

// RowStore is the backing tabular store: Google Sheets in production, a local
// xlsx workbook offline, the seeded mock in tests and demos.
type RowStore interface {
	ReadAll(ctx context.Context) (*rowdata.Snapshot, error)
	UpdateCell(ctx context.Context, update rowdata.CellUpdate) error
	BatchUpdate(ctx context.Context, updates []rowdata.CellUpdate) error
}

// TicketMailer sends one confirmation email with the ticket image inlined.
// Validate reports whether the mail account is usable at all, so a run can
// fail fast before the first dial.
type TicketMailer interface {
	Validate() error
	SendTicket(to, name, registrationNumber, ticketPath string) error
}

// OutcomePublisher emits an event per confirmed send. Optional.
type OutcomePublisher interface {
	PublishMailSent(ctx context.Context, event queue.MailSentEvent) error
}

// EntryMirror keeps an external copy of the entry set. Optional, best effort.
type EntryMirror interface {
	UpsertEntries(ctx context.Context, entries []entity.Entry) error
}
