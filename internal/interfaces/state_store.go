package interfaces

import (
	"context"

	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// StateStore keeps the latest contract snapshot so state survives a
// restart. Load returns found=false on a fresh store.
type StateStore interface {
	Save(ctx context.Context, snapshot models.ContractSnapshot) error
	Load(ctx context.Context) (models.ContractSnapshot, bool, error)
}
