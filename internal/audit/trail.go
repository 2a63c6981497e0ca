package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/donation-ledger/internal/interfaces"
	"github.com/sheikh-saqib/donation-ledger/internal/models"
	"github.com/sheikh-saqib/donation-ledger/internal/models/events"
)

// ErrNotFound is returned by Get for an id past the end of the trail.
var ErrNotFound = errors.New("audit record not found")

// Trail is the append-only audit log. Only the contract holds a
// reference to its write path; everything else sees the read surface.
// The trail assigns sequential ids itself so the backing store can
// never introduce gaps or reordering.
type Trail struct {
	mu    sync.Mutex
	store interfaces.AuditStore
	next  uint64 // next record id, equals current record count

	publisher interfaces.EventPublisher // nil when no stream is configured
	topic     string
	onPubErr  func(error)

	now func() time.Time
}

// Option configures a Trail.
type Option func(*Trail)

// WithPublisher attaches an event stream for appended records.
func WithPublisher(p interfaces.EventPublisher, topic string) Option {
	return func(t *Trail) {
		t.publisher = p
		t.topic = topic
	}
}

// WithPublishErrorHandler installs a callback for failed publishes.
// The trail itself never fails an append because of the stream.
func WithPublishErrorHandler(fn func(error)) Option {
	return func(t *Trail) { t.onPubErr = fn }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(t *Trail) { t.now = now }
}

// NewTrail creates a trail over the given store, resuming the id
// sequence from whatever the store already holds.
func NewTrail(store interfaces.AuditStore, opts ...Option) (*Trail, error) {
	count, err := store.Count()
	if err != nil {
		return nil, errors.Wrap(err, "count existing records")
	}
	t := &Trail{
		store:    store,
		next:     count,
		onPubErr: func(error) {},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Append records one state change and notifies subscribers. The record
// is durable once Append returns nil; a publish failure is reported to
// the error handler and does not undo the append.
func (t *Trail) Append(ctx context.Context, action models.Action, actor, target models.Principal, amount decimal.Decimal, note string) (models.AuditRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	record := models.AuditRecord{
		ID:        t.next,
		Action:    action,
		Actor:     actor,
		Target:    target,
		Amount:    amount,
		Note:      note,
		Timestamp: t.now(),
		Seq:       t.next,
	}
	if err := t.store.Append(ctx, record); err != nil {
		return models.AuditRecord{}, errors.Wrap(err, "append audit record")
	}
	t.next++

	if t.publisher != nil {
		notification := events.AuditNotification{
			EventID:   uuid.New().String(),
			RecordID:  record.ID,
			Action:    record.Action,
			Actor:     record.Actor,
			Timestamp: record.Timestamp,
		}
		if err := t.publisher.Publish(t.topic, notification); err != nil {
			t.onPubErr(errors.Wrapf(err, "publish notification for record %d", record.ID))
		}
	}
	return record, nil
}

// Get returns the record with the given id.
func (t *Trail) Get(id uint64) (models.AuditRecord, error) {
	record, found, err := t.store.Get(id)
	if err != nil {
		return models.AuditRecord{}, errors.Wrapf(err, "get record %d", id)
	}
	if !found {
		return models.AuditRecord{}, ErrNotFound
	}
	return record, nil
}

// GetAll returns the full trail in chronological order.
func (t *Trail) GetAll() ([]models.AuditRecord, error) {
	return t.store.GetAll()
}

// GetByPrincipal returns every record where p is the actor or the
// target, preserving chronological order.
func (t *Trail) GetByPrincipal(p models.Principal) ([]models.AuditRecord, error) {
	return t.store.GetByPrincipal(p)
}

// GetByAction returns every record of the given kind, in order.
func (t *Trail) GetByAction(action models.Action) ([]models.AuditRecord, error) {
	return t.store.GetByAction(action)
}

// GetLatest returns the last min(n, count) records in chronological
// (not reversed) order.
func (t *Trail) GetLatest(n int) ([]models.AuditRecord, error) {
	if n < 0 {
		n = 0
	}
	return t.store.GetLatest(n)
}

// Count returns the authoritative length of the trail.
func (t *Trail) Count() (uint64, error) {
	return t.store.Count()
}

// Summary is a per-action breakdown of the trail.
type Summary struct {
	Total    uint64                   `json:"total"`
	ByAction map[models.Action]uint64 `json:"by_action"`
	FirstAt  time.Time                `json:"first_at,omitzero"`
	LatestAt time.Time                `json:"latest_at,omitzero"`
}

// Summarize walks the trail once and tallies records per action kind.
func (t *Trail) Summarize() (Summary, error) {
	records, err := t.store.GetAll()
	if err != nil {
		return Summary{}, errors.Wrap(err, "load trail")
	}
	summary := Summary{
		Total:    uint64(len(records)),
		ByAction: make(map[models.Action]uint64),
	}
	for i, record := range records {
		summary.ByAction[record.Action]++
		if i == 0 {
			summary.FirstAt = record.Timestamp
		}
		summary.LatestAt = record.Timestamp
	}
	return summary, nil
}
