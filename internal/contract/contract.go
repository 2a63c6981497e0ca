package contract

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/donation-ledger/internal/audit"
	"github.com/sheikh-saqib/donation-ledger/internal/interfaces"
	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// balance is one beneficiary's ledger entry. pending is zeroed by a
// withdrawal; lifetime only ever grows. A balance entry existing at all
// means the principal was registered at some point, which is what makes
// a former beneficiary still eligible to withdraw accrued funds.
type balance struct {
	pending  decimal.Decimal
	lifetime decimal.Decimal
}

// Contract is the fund-distribution ledger: one aggregate owning the
// role assignments, the beneficiary registry, all balances and global
// counters, and the pause flag. Every operation runs to completion
// under the mutex before the next is considered, so no caller ever
// observes an intermediate state. The only point where control leaves
// the contract mid-operation is an outbound Treasury transfer, which
// happens strictly after the contract's own bookkeeping (see Withdraw).
type Contract struct {
	mu sync.Mutex

	owner models.Principal

	managers    map[models.Principal]bool
	managerList []models.Principal

	beneficiaries   map[models.Principal]bool
	beneficiaryList []models.Principal

	balances map[models.Principal]*balance
	donated  map[models.Principal]decimal.Decimal

	totalDonated     decimal.Decimal
	totalDistributed decimal.Decimal
	totalWithdrawn   decimal.Decimal
	poolBalance      decimal.Decimal

	paused bool

	treasury interfaces.Treasury
	trail    *audit.Trail
	states   interfaces.StateStore // nil when durability is not configured
	now      func() time.Time
}

// Option configures a Contract.
type Option func(*Contract)

// WithStateStore makes the contract snapshot its state after every
// successful mutation so it can be restored after a restart.
func WithStateStore(store interfaces.StateStore) Option {
	return func(c *Contract) { c.states = store }
}

// WithClock overrides the snapshot timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Contract) { c.now = now }
}

// New creates a contract with the given owner. The owner is seeded as
// the sole manager and can never be removed from the manager set.
func New(owner models.Principal, treasury interfaces.Treasury, trail *audit.Trail, opts ...Option) (*Contract, error) {
	if owner.Zero() {
		return nil, errors.Wrap(ErrInvalidTarget, "owner must not be the zero principal")
	}
	c := &Contract{
		owner:         owner,
		managers:      map[models.Principal]bool{owner: true},
		managerList:   []models.Principal{owner},
		beneficiaries: make(map[models.Principal]bool),
		balances:      make(map[models.Principal]*balance),
		donated:       make(map[models.Principal]decimal.Decimal),
		treasury:      treasury,
		trail:         trail,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FromSnapshot rebuilds a contract from a previously saved snapshot.
func FromSnapshot(snapshot models.ContractSnapshot, treasury interfaces.Treasury, trail *audit.Trail, opts ...Option) (*Contract, error) {
	c, err := New(snapshot.Owner, treasury, trail, opts...)
	if err != nil {
		return nil, err
	}
	for _, m := range snapshot.Managers {
		if !c.managers[m] {
			c.managers[m] = true
			c.managerList = append(c.managerList, m)
		}
	}
	for _, b := range snapshot.Beneficiaries {
		if !c.beneficiaries[b] {
			c.beneficiaries[b] = true
			c.beneficiaryList = append(c.beneficiaryList, b)
		}
	}
	for p, bal := range snapshot.Balances {
		c.balances[p] = &balance{pending: bal.Pending, lifetime: bal.LifetimeReceived}
	}
	for p, amount := range snapshot.Donated {
		c.donated[p] = amount
	}
	c.totalDonated = snapshot.TotalDonated
	c.totalDistributed = snapshot.TotalDistributed
	c.totalWithdrawn = snapshot.TotalWithdrawn
	c.poolBalance = snapshot.PoolBalance
	c.paused = snapshot.Paused
	return c, nil
}

// snapshot builds the persistable state. Caller must hold the mutex.
func (c *Contract) snapshot() models.ContractSnapshot {
	snap := models.ContractSnapshot{
		Owner:            c.owner,
		Managers:         append([]models.Principal(nil), c.managerList...),
		Beneficiaries:    append([]models.Principal(nil), c.beneficiaryList...),
		Balances:         make(map[models.Principal]models.BalanceSnapshot, len(c.balances)),
		Donated:          make(map[models.Principal]decimal.Decimal, len(c.donated)),
		TotalDonated:     c.totalDonated,
		TotalDistributed: c.totalDistributed,
		TotalWithdrawn:   c.totalWithdrawn,
		PoolBalance:      c.poolBalance,
		Paused:           c.paused,
		UpdatedAt:        c.now(),
	}
	for p, bal := range c.balances {
		snap.Balances[p] = models.BalanceSnapshot{Pending: bal.pending, LifetimeReceived: bal.lifetime}
	}
	for p, amount := range c.donated {
		snap.Donated[p] = amount
	}
	return snap
}

// persist saves the current snapshot when a state store is configured.
// The in-memory transition and its audit record stand even if saving
// fails; the snapshot catches up on the next successful operation.
// Caller must hold the mutex.
func (c *Contract) persist(ctx context.Context) error {
	if c.states == nil {
		return nil
	}
	if err := c.states.Save(ctx, c.snapshot()); err != nil {
		return errors.Wrap(err, "save contract state")
	}
	return nil
}

// removeFromList deletes p by overwriting it with the last element and
// shrinking the slice. Enumeration order carries no meaning, so the
// reorder is acceptable. Absent p, the list is returned unchanged.
func removeFromList(list []models.Principal, p models.Principal) []models.Principal {
	for i := range list {
		if list[i] == p {
			list[i] = list[len(list)-1]
			return list[:len(list)-1]
		}
	}
	return list
}
