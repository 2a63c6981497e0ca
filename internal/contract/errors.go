package contract

import "github.com/pkg/errors"

// Error taxonomy for every precondition the contract enforces. A failed
// precondition aborts the whole operation: no state is mutated and no
// audit record is written for the attempt. Callers match with errors.Is.
var (
	// ErrUnauthorized means the caller lacks the role the operation requires.
	ErrUnauthorized = errors.New("caller is not authorized")

	// ErrInvalidTarget means the principal in a membership operation is
	// zero, already present, or missing.
	ErrInvalidTarget = errors.New("invalid target principal")

	// ErrSystemPaused means the operation is disallowed while halted.
	ErrSystemPaused = errors.New("system is paused")

	// ErrInvalidAmount means a non-positive value where positive is required.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrNoRecipients means a distribution was attempted with no
	// registered beneficiaries.
	ErrNoRecipients = errors.New("no beneficiaries registered")

	// ErrNotEligible means the withdrawal caller was never registered.
	ErrNotEligible = errors.New("caller was never a beneficiary")

	// ErrNoBalance means there is nothing to withdraw.
	ErrNoBalance = errors.New("no balance to withdraw")

	// ErrTransferFailed means the outbound value movement was rejected;
	// the ledger mutations that preceded it have been rolled back.
	ErrTransferFailed = errors.New("outbound transfer failed")
)
