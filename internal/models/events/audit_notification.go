package events

import (
	"time"

	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// AuditNotification is the lightweight envelope published for every
// appended audit record. Subscribers that need the full record fetch it
// from the trail by RecordID; the stream itself is advisory.
type AuditNotification struct {
	EventID   string           `json:"event_id"` // uuid, unique per publish attempt
	RecordID  uint64           `json:"record_id"`
	Action    models.Action    `json:"action"`
	Actor     models.Principal `json:"actor"`
	Timestamp time.Time        `json:"timestamp"`
}
