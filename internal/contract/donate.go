package contract

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// Donate accepts a contribution and splits it equally among the current
// beneficiaries. Open to anyone; rejected while paused, for
// non-positive amounts, and when nobody is registered to receive.
func (c *Contract) Donate(ctx context.Context, from models.Principal, amount decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return ErrSystemPaused
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if len(c.beneficiaryList) == 0 {
		return ErrNoRecipients
	}
	return c.acceptDonation(ctx, from, amount)
}

// Receive is the bare-transfer entry point: value arriving without an
// explicit donate call. Where Donate rejects, Receive silently keeps
// the value in the custody pool without distributing and without
// writing an audit record. In a healthy state it behaves exactly like
// Donate. The asymmetry is deliberate and documented behavior.
func (c *Contract) Receive(ctx context.Context, from models.Principal, amount decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !amount.IsPositive() {
		return nil
	}
	if c.paused || len(c.beneficiaryList) == 0 {
		c.poolBalance = c.poolBalance.Add(amount)
		return c.persist(ctx)
	}
	return c.acceptDonation(ctx, from, amount)
}

// acceptDonation books the contribution and runs the equal split.
// Caller must hold the mutex and have checked the preconditions.
//
// The split is exact floor division: each beneficiary's pending and
// lifetime grow by floor(amount/count), totalDistributed grows by
// count*share, and the remainder (the dust) stays in the custody pool,
// recoverable only through EmergencyWithdraw.
func (c *Contract) acceptDonation(ctx context.Context, from models.Principal, amount decimal.Decimal) error {
	count := int64(len(c.beneficiaryList))
	share, dust := amount.QuoRem(decimal.NewFromInt(count), 0)
	distributed := share.Mul(decimal.NewFromInt(count))

	c.totalDonated = c.totalDonated.Add(amount)
	c.donated[from] = c.donated[from].Add(amount)
	c.poolBalance = c.poolBalance.Add(amount)
	if share.IsPositive() {
		for _, p := range c.beneficiaryList {
			bal := c.balances[p]
			bal.pending = bal.pending.Add(share)
			bal.lifetime = bal.lifetime.Add(share)
		}
		c.totalDistributed = c.totalDistributed.Add(distributed)
	}

	revert := func() {
		c.totalDonated = c.totalDonated.Sub(amount)
		c.donated[from] = c.donated[from].Sub(amount)
		c.poolBalance = c.poolBalance.Sub(amount)
		if share.IsPositive() {
			for _, p := range c.beneficiaryList {
				bal := c.balances[p]
				bal.pending = bal.pending.Sub(share)
				bal.lifetime = bal.lifetime.Sub(share)
			}
			c.totalDistributed = c.totalDistributed.Sub(distributed)
		}
	}

	if _, err := c.trail.Append(ctx, models.ActionDonationReceived, from, "", amount, "donation received"); err != nil {
		revert()
		return err
	}
	note := fmt.Sprintf("split %s among %d beneficiaries, share %s, dust %s", amount, count, share, dust)
	if _, err := c.trail.Append(ctx, models.ActionFundsDistributed, from, "", distributed, note); err != nil {
		revert()
		return err
	}
	return c.persist(ctx)
}
