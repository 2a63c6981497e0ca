package contract

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// Withdraw pays out the caller's entire pending balance.
//
// The pending balance is zeroed and the global counters updated BEFORE
// the treasury transfer runs: the transfer hands control to the
// recipient, and a reentrant Withdraw issued from there finds
// pending == 0 and fails with ErrNoBalance. If the transfer itself
// fails, the zeroing is rolled back additively so a donation that
// landed while the transfer was in flight is not clobbered, and
// ErrTransferFailed is returned with no audit record written.
func (c *Contract) Withdraw(ctx context.Context, caller models.Principal) error {
	c.mu.Lock()
	if c.paused {
		c.mu.Unlock()
		return ErrSystemPaused
	}
	bal, ok := c.balances[caller]
	if !ok {
		c.mu.Unlock()
		return ErrNotEligible
	}
	if !bal.pending.IsPositive() {
		c.mu.Unlock()
		return ErrNoBalance
	}

	amount := bal.pending
	bal.pending = decimal.Zero
	c.totalWithdrawn = c.totalWithdrawn.Add(amount)
	c.poolBalance = c.poolBalance.Sub(amount)
	c.mu.Unlock()

	transferErr := c.treasury.Transfer(ctx, caller, amount)

	c.mu.Lock()
	defer c.mu.Unlock()
	if transferErr != nil {
		bal.pending = bal.pending.Add(amount)
		c.totalWithdrawn = c.totalWithdrawn.Sub(amount)
		c.poolBalance = c.poolBalance.Add(amount)
		return errors.Wrapf(ErrTransferFailed, "withdraw %s for %s: %v", amount, caller, transferErr)
	}
	if _, err := c.trail.Append(ctx, models.ActionWithdrawal, caller, caller, amount, "beneficiary withdrawal"); err != nil {
		// value already left custody; surface the storage fault but keep the state
		return err
	}
	return c.persist(ctx)
}

// EmergencyWithdraw transfers the entire custody pool to the owner.
// Owner only. This is the only path that recovers distribution dust and
// undistributed remainders. It deliberately leaves totalDistributed,
// totalWithdrawn and every pending balance untouched: it is an
// out-of-band safety valve, not a ledger-consistent withdrawal.
func (c *Contract) EmergencyWithdraw(ctx context.Context, caller models.Principal) error {
	c.mu.Lock()
	if caller != c.owner {
		c.mu.Unlock()
		return ErrUnauthorized
	}
	if !c.poolBalance.IsPositive() {
		c.mu.Unlock()
		return ErrNoBalance
	}

	amount := c.poolBalance
	c.poolBalance = decimal.Zero
	c.mu.Unlock()

	transferErr := c.treasury.Transfer(ctx, caller, amount)

	c.mu.Lock()
	defer c.mu.Unlock()
	if transferErr != nil {
		c.poolBalance = c.poolBalance.Add(amount)
		return errors.Wrapf(ErrTransferFailed, "emergency withdraw %s: %v", amount, transferErr)
	}
	if _, err := c.trail.Append(ctx, models.ActionEmergencyWithdrawal, caller, caller, amount, "custody pool drained by owner"); err != nil {
		return err
	}
	return c.persist(ctx)
}
