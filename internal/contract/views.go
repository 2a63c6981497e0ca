package contract

import (
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// Totals are the global monotonic accumulators plus the custody pool.
// Distributed never exceeds Donated (the gap is undistributed dust) and
// Withdrawn never exceeds Distributed.
type Totals struct {
	Donated     decimal.Decimal `json:"total_donated"`
	Distributed decimal.Decimal `json:"total_distributed"`
	Withdrawn   decimal.Decimal `json:"total_withdrawn"`
	Pool        decimal.Decimal `json:"pool_balance"`
}

// Owner returns the contract owner.
func (c *Contract) Owner() models.Principal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owner
}

// Managers returns the manager list. Order carries no meaning.
func (c *Contract) Managers() []models.Principal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Principal(nil), c.managerList...)
}

// IsManager reports whether p holds the manager role.
func (c *Contract) IsManager(p models.Principal) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.managers[p]
}

// Beneficiaries returns the current beneficiary list.
func (c *Contract) Beneficiaries() []models.Principal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Principal(nil), c.beneficiaryList...)
}

// BeneficiaryCount returns how many principals a donation is split among.
func (c *Contract) BeneficiaryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.beneficiaryList)
}

// IsBeneficiary reports whether p is currently registered.
func (c *Contract) IsBeneficiary(p models.Principal) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.beneficiaries[p]
}

// PendingOf returns p's withdrawable balance.
func (c *Contract) PendingOf(p models.Principal) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	if bal, ok := c.balances[p]; ok {
		return bal.pending
	}
	return decimal.Zero
}

// LifetimeReceivedOf returns everything ever distributed to p.
func (c *Contract) LifetimeReceivedOf(p models.Principal) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	if bal, ok := c.balances[p]; ok {
		return bal.lifetime
	}
	return decimal.Zero
}

// LifetimeDonatedOf returns everything p ever contributed.
func (c *Contract) LifetimeDonatedOf(p models.Principal) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.donated[p]
}

// Totals returns the global counters and the custody pool balance.
func (c *Contract) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Totals{
		Donated:     c.totalDonated,
		Distributed: c.totalDistributed,
		Withdrawn:   c.totalWithdrawn,
		Pool:        c.poolBalance,
	}
}

// Paused reports the halt flag.
func (c *Contract) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// ProjectedShare returns the per-beneficiary share a hypothetical
// donation of the given amount would yield right now, zero when nobody
// is registered.
func (c *Contract) ProjectedShare(amount decimal.Decimal) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.beneficiaryList) == 0 || !amount.IsPositive() {
		return decimal.Zero
	}
	share, _ := amount.QuoRem(decimal.NewFromInt(int64(len(c.beneficiaryList))), 0)
	return share
}

// Snapshot returns a copy of the full persistable state.
func (c *Contract) Snapshot() models.ContractSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}
