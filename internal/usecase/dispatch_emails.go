package usecase

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/etarang/garba-desk/internal/entity"
	"github.com/etarang/garba-desk/internal/infra/queue"
	"github.com/etarang/garba-desk/internal/rowdata"
)

const defaultMaxInFlight = 5

type EmailDispatcher struct {
	Store     RowStore
	Mailer    TicketMailer
	Events    OutcomePublisher // optional
	TicketDir string

	// MaxInFlight bounds simultaneous sends across the whole run. It limits
	// load on the mail transport, not memory.
	MaxInFlight int
}

func NewEmailDispatcher(store RowStore, mailer TicketMailer, events OutcomePublisher, ticketDir string, maxInFlight int) *EmailDispatcher {
	if maxInFlight <= 0 {
		maxInFlight = defaultMaxInFlight
	}
	return &EmailDispatcher{
		Store:       store,
		Mailer:      mailer,
		Events:      events,
		TicketDir:   ticketDir,
		MaxInFlight: maxInFlight,
	}
}

// Send dispatches up to maxToSend confirmation emails to pending entries, in
// existing entry order. Tasks are issued in order but may complete in any
// order; each task writes mailSent=true back to its own row only on confirmed
// acceptance. Failures are isolated and counted, never abort the run, and
// there is no retry within a run.
//
// Known limitation: a crash between a confirmed send and its row write-back
// can cause a duplicate on the next run.
func (d *EmailDispatcher) Send(ctx context.Context, maxToSend int) (*entity.DispatchSummary, error) {
	// Missing credentials are a configuration error: one refusal up front,
	// not a transport failure per entry.
	if err := d.Mailer.Validate(); err != nil {
		return nil, &DomainError{
			Code:    "MAIL_NOT_CONFIGURED",
			Message: err.Error(),
		}
	}

	snap, err := d.Store.ReadAll(ctx)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "STORE_READ_FAILED",
			Message: "read entries: " + err.Error(),
		}
	}

	sentCol, ok := snap.Columns[rowdata.ColMailSent]
	if !ok {
		return nil, &DomainError{
			Code:    "MISSING_COLUMN",
			Message: "the sheet must contain a 'Sent' column",
		}
	}

	var pending []entity.Entry
	for _, e := range snap.Entries {
		if e.Pending() {
			pending = append(pending, e)
		}
	}

	if maxToSend <= 0 || maxToSend > len(pending) {
		maxToSend = len(pending)
	}
	toSend := pending[:maxToSend]

	summary := &entity.DispatchSummary{
		RunID:              uuid.New().String(),
		Total:              snap.Total,
		Attempted:          len(toSend),
		SkippedAlreadySent: snap.Total - len(pending),
		Outcomes:           make([]entity.DispatchOutcome, len(toSend)),
	}

	start := time.Now()
	log.Printf("📨 Dispatch run %s: %d pending, sending %d (limit %d in flight)",
		summary.RunID, len(pending), len(toSend), d.MaxInFlight)

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, d.MaxInFlight)
	)

	for i, e := range toSend {
		summary.Outcomes[i] = entity.DispatchOutcome{
			ID:        uuid.New().String(),
			Name:      e.Name,
			Email:     e.Email,
			Status:    entity.DispatchPending,
			Timestamp: time.Now(),
		}

		wg.Add(1)
		go func(i int, e entity.Entry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			d.setStatus(&mu, &summary.Outcomes[i], entity.DispatchSending, "")

			ticketPath := filepath.Join(d.TicketDir, e.RegistrationNumber+".png")
			if err := d.Mailer.SendTicket(e.Email, e.Name, e.RegistrationNumber, ticketPath); err != nil {
				d.setStatus(&mu, &summary.Outcomes[i], entity.DispatchFailed, err.Error())
				mu.Lock()
				summary.Failed++
				mu.Unlock()
				log.Printf("✖ Mail failed for %s (%s): %v", e.Name, e.Email, err)
				return
			}

			// Write-back happens only on confirmed acceptance.
			if err := d.Store.UpdateCell(ctx, rowdata.CellUpdate{
				Col:   sentCol,
				Row:   e.RowNumber,
				Value: "TRUE",
			}); err != nil {
				// The mail left; the sheet is now behind. Surface it loudly.
				log.Printf("⚠️ Mail sent to %s but write-back failed: %v", e.Email, err)
			}

			d.setStatus(&mu, &summary.Outcomes[i], entity.DispatchSuccess, "")
			mu.Lock()
			summary.Sent++
			mu.Unlock()
			log.Printf("✔ Mail sent to %s (%s)", e.Name, e.Email)

			d.publishOutcome(ctx, summary.RunID, e)
		}(i, e)
	}

	wg.Wait()

	summary.DurationSeconds = roundSeconds(time.Since(start))
	log.Printf("📨 Dispatch run %s done: attempted=%d sent=%d failed=%d skipped=%d duration=%.2fs",
		summary.RunID, summary.Attempted, summary.Sent, summary.Failed,
		summary.SkippedAlreadySent, summary.DurationSeconds)
	return summary, nil
}

func (d *EmailDispatcher) setStatus(mu *sync.Mutex, o *entity.DispatchOutcome, status, errText string) {
	mu.Lock()
	defer mu.Unlock()
	o.Status = status
	o.Error = errText
	o.Timestamp = time.Now()
}

func (d *EmailDispatcher) publishOutcome(ctx context.Context, runID string, e entity.Entry) {
	if d.Events == nil {
		return
	}
	event := queue.MailSentEvent{
		RunID:              runID,
		RegistrationNumber: e.RegistrationNumber,
		Name:               e.Name,
		Email:              e.Email,
		UniqueID:           e.UniqueID,
		SentAt:             time.Now(),
	}
	if err := d.Events.PublishMailSent(ctx, event); err != nil {
		log.Printf("⚠️ Outcome event for %s not published: %v", e.RegistrationNumber, err)
	}
}
