package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// Treasury moves value out of the contract's custody to a recipient.
// A Transfer call hands control to the recipient's side, so callers
// must have finished their own bookkeeping before invoking it.
type Treasury interface {
	Transfer(ctx context.Context, to models.Principal, amount decimal.Decimal) error
}
