package interfaces

import (
	"context"

	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// AuditStore persists audit records. Append is the only write path and
// the backing storage must be append-only: records are never updated,
// deleted or reordered. All read methods return records in insertion
// order.
type AuditStore interface {
	Append(ctx context.Context, record models.AuditRecord) error
	Get(id uint64) (models.AuditRecord, bool, error)
	GetAll() ([]models.AuditRecord, error)
	GetByPrincipal(p models.Principal) ([]models.AuditRecord, error)
	GetByAction(action models.Action) ([]models.AuditRecord, error)
	GetLatest(n int) ([]models.AuditRecord, error)
	Count() (uint64, error)
}
