package contract

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// AddManager grants p the manager role. Owner only.
func (c *Contract) AddManager(ctx context.Context, caller, p models.Principal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.owner {
		return ErrUnauthorized
	}
	if p.Zero() || c.managers[p] {
		return ErrInvalidTarget
	}

	c.managers[p] = true
	c.managerList = append(c.managerList, p)

	if _, err := c.trail.Append(ctx, models.ActionManagerAdded, caller, p, decimal.Zero, "manager added"); err != nil {
		delete(c.managers, p)
		c.managerList = c.managerList[:len(c.managerList)-1]
		return err
	}
	return c.persist(ctx)
}

// RemoveManager revokes p's manager role. Owner only; the owner itself
// can never be removed.
func (c *Contract) RemoveManager(ctx context.Context, caller, p models.Principal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.owner {
		return ErrUnauthorized
	}
	if p == c.owner || !c.managers[p] {
		return ErrInvalidTarget
	}

	delete(c.managers, p)
	c.managerList = removeFromList(c.managerList, p)

	if _, err := c.trail.Append(ctx, models.ActionManagerRemoved, caller, p, decimal.Zero, "manager removed"); err != nil {
		c.managers[p] = true
		c.managerList = append(c.managerList, p)
		return err
	}
	return c.persist(ctx)
}
