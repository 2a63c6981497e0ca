package contract

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// Pause halts donations, registrations and withdrawals. Owner only.
// Pausing an already-paused contract is not an error; each call writes
// its own audit record whether or not the flag changed.
func (c *Contract) Pause(ctx context.Context, caller models.Principal) error {
	return c.setPaused(ctx, caller, true, models.ActionContractPaused, "contract paused")
}

// Unpause lifts the halt. Owner only; same recording rules as Pause.
func (c *Contract) Unpause(ctx context.Context, caller models.Principal) error {
	return c.setPaused(ctx, caller, false, models.ActionContractUnpaused, "contract unpaused")
}

func (c *Contract) setPaused(ctx context.Context, caller models.Principal, paused bool, action models.Action, note string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.owner {
		return ErrUnauthorized
	}

	previous := c.paused
	c.paused = paused

	if _, err := c.trail.Append(ctx, action, caller, "", decimal.Zero, note); err != nil {
		c.paused = previous
		return err
	}
	return c.persist(ctx)
}
