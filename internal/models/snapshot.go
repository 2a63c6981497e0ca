package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSnapshot captures one beneficiary's balance record.
// Pending never exceeds LifetimeReceived.
type BalanceSnapshot struct {
	Pending          decimal.Decimal `json:"pending"`
	LifetimeReceived decimal.Decimal `json:"lifetime_received"`
}

// ContractSnapshot is the full persistable state of the contract,
// written after every successful mutation and loaded at boot.
type ContractSnapshot struct {
	Owner         Principal                     `json:"owner"`
	Managers      []Principal                   `json:"managers"`
	Beneficiaries []Principal                   `json:"beneficiaries"`
	Balances      map[Principal]BalanceSnapshot `json:"balances"`
	Donated       map[Principal]decimal.Decimal `json:"donated"`

	TotalDonated     decimal.Decimal `json:"total_donated"`
	TotalDistributed decimal.Decimal `json:"total_distributed"`
	TotalWithdrawn   decimal.Decimal `json:"total_withdrawn"`
	PoolBalance      decimal.Decimal `json:"pool_balance"`

	Paused    bool      `json:"paused"`
	UpdatedAt time.Time `json:"updated_at"`
}
