package engine

import "errors"

// Command validation errors. Each one is a local rejection: it is returned to
// the caller, leaves engine state unchanged, and is never fatal.
var (
	// ErrInvalidAmount rejects a bid below the lot's floor price.
	ErrInvalidAmount = errors.New("bid amount below lot floor price")

	// ErrLotUnavailable rejects a bid on a lot that is not offered in the
	// current round's open set.
	ErrLotUnavailable = errors.New("lot not offered in the current round")

	// ErrInsufficientBalance rejects a bid that would push the account's
	// total exposure past its balance.
	ErrInsufficientBalance = errors.New("bid exceeds available balance")

	// ErrRoundFrozen rejects bid placement or removal outside the Open phase.
	ErrRoundFrozen = errors.New("round is not open for bidding")

	// ErrNotFound reports a missing account, lot, or bid.
	ErrNotFound = errors.New("not found")
)
