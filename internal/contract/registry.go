package contract

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// Register adds p to the set of beneficiaries eligible for future
// distributions. Manager only; rejected while paused. Registration
// creates p's balance entry, which is also what marks p as eligible to
// withdraw later even after removal.
func (c *Contract) Register(ctx context.Context, caller, p models.Principal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.managers[caller] {
		return ErrUnauthorized
	}
	if p.Zero() || c.beneficiaries[p] {
		return ErrInvalidTarget
	}
	if c.paused {
		return ErrSystemPaused
	}

	c.beneficiaries[p] = true
	c.beneficiaryList = append(c.beneficiaryList, p)
	hadBalance := true
	if _, ok := c.balances[p]; !ok {
		// re-registration keeps the old entry and its lifetime figures
		c.balances[p] = &balance{}
		hadBalance = false
	}

	if _, err := c.trail.Append(ctx, models.ActionBeneficiaryRegistered, caller, p, decimal.Zero, "beneficiary registered"); err != nil {
		delete(c.beneficiaries, p)
		c.beneficiaryList = c.beneficiaryList[:len(c.beneficiaryList)-1]
		if !hadBalance {
			delete(c.balances, p)
		}
		return err
	}
	return c.persist(ctx)
}

// RemoveBeneficiary takes p out of future distributions. Manager only.
// Removal is allowed while paused so administrative cleanup stays
// possible, and it does NOT forfeit p's pending balance: entitlement
// already earned can still be withdrawn after removal.
func (c *Contract) RemoveBeneficiary(ctx context.Context, caller, p models.Principal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.managers[caller] {
		return ErrUnauthorized
	}
	if !c.beneficiaries[p] {
		return ErrInvalidTarget
	}

	delete(c.beneficiaries, p)
	c.beneficiaryList = removeFromList(c.beneficiaryList, p)

	if _, err := c.trail.Append(ctx, models.ActionBeneficiaryRemoved, caller, p, decimal.Zero, "beneficiary removed"); err != nil {
		c.beneficiaries[p] = true
		c.beneficiaryList = append(c.beneficiaryList, p)
		return err
	}
	return c.persist(ctx)
}
