package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etarang/garba-desk/internal/entity"
	"github.com/etarang/garba-desk/internal/infra/mockstore"
	"github.com/etarang/garba-desk/internal/infra/queue"
	"github.com/etarang/garba-desk/internal/rowdata"
)

type fakeMailer struct {
	mu            sync.Mutex
	sentTo        []string
	failFor       map[string]bool
	delay         time.Duration
	notConfigured bool
	inFlight      atomic.Int32
	peak          atomic.Int32
}

func (m *fakeMailer) Validate() error {
	if m.notConfigured {
		return errors.New("missing mail environment variables: set GMAIL_USER and GMAIL_APP_PASSWORD")
	}
	return nil
}

func (m *fakeMailer) SendTicket(to, name, registrationNumber, ticketPath string) error {
	cur := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.peak.Load()
		if cur <= peak || m.peak.CompareAndSwap(peak, cur) {
			break
		}
	}

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	if m.failFor[to] {
		return errors.New("smtp: mailbox unavailable")
	}

	m.mu.Lock()
	m.sentTo = append(m.sentTo, to)
	m.mu.Unlock()
	return nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []queue.MailSentEvent
}

func (p *capturingPublisher) PublishMailSent(ctx context.Context, event queue.MailSentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func threeEntryStore() *mockstore.Store {
	return mockstore.New(
		entity.Entry{RegistrationNumber: "R1", Name: "Ravi", Email: "ravi@x.in", MailSent: true},
		entity.Entry{RegistrationNumber: "R2", Name: "Meera", Email: "meera@x.in"},
		entity.Entry{RegistrationNumber: "R3", Name: "Arjun", Email: "arjun@x.in"},
	)
}

func TestSendRespectsMaxToSend(t *testing.T) {
	store := mockstore.New(
		entity.Entry{RegistrationNumber: "R1", Name: "A", Email: "a@x.in"},
		entity.Entry{RegistrationNumber: "R2", Name: "B", Email: "b@x.in"},
		entity.Entry{RegistrationNumber: "R3", Name: "C", Email: "c@x.in"},
	)
	mailer := &fakeMailer{}
	d := NewEmailDispatcher(store, mailer, nil, "ticket", 5)

	summary, err := d.Send(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Attempted)
	assert.Equal(t, 2, summary.Sent)
	assert.Len(t, mailer.sentTo, 2)
	assert.ElementsMatch(t, []string{"a@x.in", "b@x.in"}, mailer.sentTo, "first maxToSend pending entries, in order")
}

func TestSendEndToEndWithOneFailure(t *testing.T) {
	store := threeEntryStore()
	mailer := &fakeMailer{failFor: map[string]bool{"arjun@x.in": true}}
	d := NewEmailDispatcher(store, mailer, nil, "ticket", 5)

	summary, err := d.Send(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Attempted)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.SkippedAlreadySent)
	assert.Equal(t, summary.Attempted+summary.SkippedAlreadySent, summary.Total)

	// Only the successful entry's row is updated.
	snap, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Entries[0].MailSent, "was already sent")
	assert.True(t, snap.Entries[1].MailSent, "confirmed send gets written back")
	assert.False(t, snap.Entries[2].MailSent, "failed send must not be marked")

	statuses := map[string]string{}
	for _, o := range summary.Outcomes {
		statuses[o.Email] = o.Status
	}
	assert.Equal(t, entity.DispatchSuccess, statuses["meera@x.in"])
	assert.Equal(t, entity.DispatchFailed, statuses["arjun@x.in"])
}

func TestSendAllPendingWhenMaxIsZero(t *testing.T) {
	store := threeEntryStore()
	mailer := &fakeMailer{}
	d := NewEmailDispatcher(store, mailer, nil, "ticket", 5)

	summary, err := d.Send(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Attempted)
	assert.Equal(t, 2, summary.Sent)
}

func TestSendBoundsInFlightSends(t *testing.T) {
	store := mockstore.New(seedEntries(20)...)
	mailer := &fakeMailer{delay: 5 * time.Millisecond}
	d := NewEmailDispatcher(store, mailer, nil, "ticket", 3)

	summary, err := d.Send(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 20, summary.Sent)
	assert.LessOrEqual(t, mailer.peak.Load(), int32(3), "no more than MaxInFlight simultaneous sends")
}

func TestSendPublishesOutcomeEvents(t *testing.T) {
	store := threeEntryStore()
	mailer := &fakeMailer{failFor: map[string]bool{"arjun@x.in": true}}
	publisher := &capturingPublisher{}
	d := NewEmailDispatcher(store, mailer, publisher, "ticket", 5)

	summary, err := d.Send(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, publisher.events, 1, "events only for confirmed sends")
	assert.Equal(t, "R2", publisher.events[0].RegistrationNumber)
	assert.Equal(t, summary.RunID, publisher.events[0].RunID)
}

func TestSendFailsFastWithoutMailAccount(t *testing.T) {
	store := threeEntryStore()
	mailer := &fakeMailer{notConfigured: true}
	d := NewEmailDispatcher(store, mailer, nil, "ticket", 5)

	_, err := d.Send(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, IsDomainError(err), "missing credentials are a configuration error, not N transport failures")
	assert.Empty(t, mailer.sentTo, "no dial may be attempted")

	// No row may be touched either.
	snap, readErr := store.ReadAll(context.Background())
	require.NoError(t, readErr)
	assert.False(t, snap.Entries[1].MailSent)
	assert.False(t, snap.Entries[2].MailSent)
}

type noSentColumnStore struct{ *mockstore.Store }

func (s noSentColumnStore) ReadAll(ctx context.Context) (*rowdata.Snapshot, error) {
	snap, err := s.Store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	delete(snap.Columns, rowdata.ColMailSent)
	return snap, nil
}

func TestSendMissingSentColumn(t *testing.T) {
	store := noSentColumnStore{threeEntryStore()}
	d := NewEmailDispatcher(store, &fakeMailer{}, nil, "ticket", 5)

	_, err := d.Send(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, IsDomainError(err))
}
