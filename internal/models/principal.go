package models

// Principal identifies an external party interacting with the contract
// (analogous to an account address). The empty string is the zero
// principal and is rejected by every membership operation.
type Principal string

// Zero reports whether the principal is the invalid zero value.
func (p Principal) Zero() bool {
	return p == ""
}

func (p Principal) String() string {
	return string(p)
}
