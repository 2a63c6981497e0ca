package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action is the kind of state change an audit record describes.
// The set is fixed; records never carry any other value.
type Action string

const (
	ActionManagerAdded          Action = "MANAGER_ADDED"
	ActionManagerRemoved        Action = "MANAGER_REMOVED"
	ActionBeneficiaryRegistered Action = "BENEFICIARY_REGISTERED"
	ActionBeneficiaryRemoved    Action = "BENEFICIARY_REMOVED"
	ActionDonationReceived      Action = "DONATION_RECEIVED"
	ActionFundsDistributed      Action = "FUNDS_DISTRIBUTED"
	ActionWithdrawal            Action = "WITHDRAWAL"
	ActionContractPaused        Action = "CONTRACT_PAUSED"
	ActionContractUnpaused      Action = "CONTRACT_UNPAUSED"
	ActionEmergencyWithdrawal   Action = "EMERGENCY_WITHDRAWAL"
)

// Actions lists every known action kind, in no particular order.
func Actions() []Action {
	return []Action{
		ActionManagerAdded,
		ActionManagerRemoved,
		ActionBeneficiaryRegistered,
		ActionBeneficiaryRemoved,
		ActionDonationReceived,
		ActionFundsDistributed,
		ActionWithdrawal,
		ActionContractPaused,
		ActionContractUnpaused,
		ActionEmergencyWithdrawal,
	}
}

// Valid reports whether a is one of the known action kinds.
func (a Action) Valid() bool {
	for _, known := range Actions() {
		if a == known {
			return true
		}
	}
	return false
}

// AuditRecord is a single immutable entry of the audit trail.
// ID is assigned sequentially starting at 0 and equals the record's
// position in the trail; records are never mutated or deleted.
type AuditRecord struct {
	ID        uint64          `json:"id"`
	Action    Action          `json:"action"`
	Actor     Principal       `json:"actor"`
	Target    Principal       `json:"target,omitempty"` // zero when the action has no affected party
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Seq       uint64          `json:"seq"` // equals ID; kept explicit so consumers never infer order from storage
}
