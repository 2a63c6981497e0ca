package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/donation-ledger/internal/audit"
	"github.com/sheikh-saqib/donation-ledger/internal/models"
	"github.com/sheikh-saqib/donation-ledger/internal/models/events"
	"github.com/sheikh-saqib/donation-ledger/internal/storage/memory"
)

// fakePublisher captures published notifications, optionally failing.
type fakePublisher struct {
	fail   bool
	topics []string
	events []events.AuditNotification
}

func (p *fakePublisher) Publish(topic string, event any) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event.(events.AuditNotification))
	return nil
}

func appendN(t *testing.T, trail *audit.Trail, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		action := models.ActionDonationReceived
		if i%2 == 1 {
			action = models.ActionWithdrawal
		}
		_, err := trail.Append(context.Background(), action, "0xdonor", "0xalice", decimal.NewFromInt(int64(i)), "")
		require.NoError(t, err)
	}
}

func TestTrailAppend(t *testing.T) {
	t.Run("ids are dense and start at zero", func(t *testing.T) {
		trail, err := audit.NewTrail(memory.NewAuditStore())
		require.NoError(t, err)
		appendN(t, trail, 5)

		records, err := trail.GetAll()
		require.NoError(t, err)
		require.Len(t, records, 5)
		for i, record := range records {
			assert.Equal(t, uint64(i), record.ID)
			assert.Equal(t, uint64(i), record.Seq)
		}

		count, err := trail.Count()
		require.NoError(t, err)
		assert.Equal(t, uint64(5), count)
	})

	t.Run("sequence resumes from a populated store", func(t *testing.T) {
		store := memory.NewAuditStore()
		trail, err := audit.NewTrail(store)
		require.NoError(t, err)
		appendN(t, trail, 3)

		reopened, err := audit.NewTrail(store)
		require.NoError(t, err)
		record, err := reopened.Append(context.Background(), models.ActionContractPaused, "0xowner", "", decimal.Zero, "")
		require.NoError(t, err)
		assert.Equal(t, uint64(3), record.ID)
	})

	t.Run("timestamps come from the clock", func(t *testing.T) {
		at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		trail, err := audit.NewTrail(memory.NewAuditStore(), audit.WithClock(func() time.Time { return at }))
		require.NoError(t, err)

		record, err := trail.Append(context.Background(), models.ActionContractPaused, "0xowner", "", decimal.Zero, "")
		require.NoError(t, err)
		assert.Equal(t, at, record.Timestamp)
	})
}

func TestTrailQueries(t *testing.T) {
	newPopulated := func(t *testing.T) *audit.Trail {
		trail, err := audit.NewTrail(memory.NewAuditStore())
		require.NoError(t, err)
		appendN(t, trail, 6)
		return trail
	}

	t.Run("get by id", func(t *testing.T) {
		trail := newPopulated(t)
		record, err := trail.Get(4)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), record.ID)
	})

	t.Run("get past the end is not found", func(t *testing.T) {
		trail := newPopulated(t)
		_, err := trail.Get(6)
		assert.ErrorIs(t, err, audit.ErrNotFound)
	})

	t.Run("by principal matches actor and target in order", func(t *testing.T) {
		trail, err := audit.NewTrail(memory.NewAuditStore())
		require.NoError(t, err)
		ctx := context.Background()
		_, err = trail.Append(ctx, models.ActionManagerAdded, "0xowner", "0xmanager", decimal.Zero, "")
		require.NoError(t, err)
		_, err = trail.Append(ctx, models.ActionBeneficiaryRegistered, "0xmanager", "0xalice", decimal.Zero, "")
		require.NoError(t, err)
		_, err = trail.Append(ctx, models.ActionWithdrawal, "0xalice", "0xalice", decimal.NewFromInt(5), "")
		require.NoError(t, err)

		records, err := trail.GetByPrincipal("0xmanager")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, uint64(0), records[0].ID)
		assert.Equal(t, uint64(1), records[1].ID)

		records, err = trail.GetByPrincipal("0xalice")
		require.NoError(t, err)
		require.Len(t, records, 2)
	})

	t.Run("by action preserves order", func(t *testing.T) {
		trail := newPopulated(t)
		records, err := trail.GetByAction(models.ActionWithdrawal)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, uint64(1), records[0].ID)
		assert.Equal(t, uint64(3), records[1].ID)
		assert.Equal(t, uint64(5), records[2].ID)
	})

	t.Run("latest returns the tail in chronological order", func(t *testing.T) {
		trail := newPopulated(t)
		records, err := trail.GetLatest(2)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, uint64(4), records[0].ID)
		assert.Equal(t, uint64(5), records[1].ID)
	})

	t.Run("latest is capped at the trail length", func(t *testing.T) {
		trail := newPopulated(t)
		records, err := trail.GetLatest(100)
		require.NoError(t, err)
		assert.Len(t, records, 6)
	})

	t.Run("summary tallies per action", func(t *testing.T) {
		trail := newPopulated(t)
		summary, err := trail.Summarize()
		require.NoError(t, err)
		assert.Equal(t, uint64(6), summary.Total)
		assert.Equal(t, uint64(3), summary.ByAction[models.ActionDonationReceived])
		assert.Equal(t, uint64(3), summary.ByAction[models.ActionWithdrawal])
	})
}

func TestTrailNotifications(t *testing.T) {
	t.Run("each append publishes an envelope", func(t *testing.T) {
		publisher := &fakePublisher{}
		trail, err := audit.NewTrail(memory.NewAuditStore(), audit.WithPublisher(publisher, "audit_notifications"))
		require.NoError(t, err)
		appendN(t, trail, 2)

		require.Len(t, publisher.events, 2)
		assert.Equal(t, []string{"audit_notifications", "audit_notifications"}, publisher.topics)
		assert.Equal(t, uint64(0), publisher.events[0].RecordID)
		assert.Equal(t, uint64(1), publisher.events[1].RecordID)
		assert.NotEmpty(t, publisher.events[0].EventID)
		assert.NotEqual(t, publisher.events[0].EventID, publisher.events[1].EventID)
	})

	t.Run("publish failure does not fail the append", func(t *testing.T) {
		var reported error
		publisher := &fakePublisher{fail: true}
		trail, err := audit.NewTrail(memory.NewAuditStore(),
			audit.WithPublisher(publisher, "audit_notifications"),
			audit.WithPublishErrorHandler(func(err error) { reported = err }))
		require.NoError(t, err)

		record, err := trail.Append(context.Background(), models.ActionContractPaused, "0xowner", "", decimal.Zero, "")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), record.ID)
		assert.Error(t, reported)

		count, err := trail.Count()
		require.NoError(t, err)
		assert.Equal(t, uint64(1), count, "record survives the dropped notification")
	})
}
