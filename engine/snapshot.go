package engine

import (
	"fmt"
	"time"

	"github.com/cloudx-io/lotauction/core"
)

// LotStatus is one catalog row projected for a viewing account.
type LotStatus struct {
	ID           string
	Label        string
	FloorPrice   float64
	CurrentPrice float64

	// OwnerID and OwnerName are empty while the lot is unowned.
	OwnerID   string
	OwnerName string

	// HighestBid is the top active bid on the lot, 0 if none.
	HighestBid float64
	// BidCount is the number of active bids on the lot.
	BidCount int

	// ViewerBid is the viewing account's active bid amount, 0 if none.
	ViewerBid float64
	// HasBid reports whether the viewing account has an active bid.
	HasBid bool

	// Available reports whether the lot is in the current round's open set.
	Available bool
}

// CatalogSnapshot is a consistent point-in-time projection over the catalog,
// ledger, and account book, taken under the read lock.
type CatalogSnapshot struct {
	Generation uint64
	Phase      Phase
	Lots       []LotStatus
}

// AccountSnapshot summarizes one account's financial position.
type AccountSnapshot struct {
	ID      string
	Name    string
	Balance float64
	// Exposure is the sum of the account's active bid amounts.
	Exposure float64
	// Available is Balance minus Exposure.
	Available float64
}

// Catalog returns the catalog projection for the given viewing account. An
// empty viewingAccountID uses the currently selected account. Lots appear in
// stable catalog order.
func (e *Engine) Catalog(viewingAccountID string) CatalogSnapshot {
	e.mtx.RLock()
	defer e.mtx.RUnlock()

	if viewingAccountID == "" {
		viewingAccountID = e.viewingID
	}

	snapshot := CatalogSnapshot{
		Lots: make([]LotStatus, 0, e.catalog.Len()),
	}
	if e.round != nil {
		snapshot.Generation = e.round.Generation
		snapshot.Phase = e.round.Phase
	}

	for _, lot := range e.catalog.Lots() {
		status := LotStatus{
			ID:           lot.ID,
			Label:        lot.Label,
			FloorPrice:   lot.FloorPrice,
			CurrentPrice: lot.CurrentPrice,
			OwnerID:      lot.OwnerID,
		}

		if lot.OwnerID != "" {
			if owner, ok := e.accounts.Account(lot.OwnerID); ok {
				status.OwnerName = owner.Name
			}
		}

		bids := e.ledger.BidsForLot(lot.ID)
		status.HighestBid = core.HighestBid(bids)
		status.BidCount = len(bids)

		if bid, ok := e.ledger.Get(viewingAccountID, lot.ID); ok {
			status.ViewerBid = bid.Amount
			status.HasBid = true
		}

		if e.round != nil {
			status.Available = e.round.Offers(lot.ID)
		}

		snapshot.Lots = append(snapshot.Lots, status)
	}

	return snapshot
}

// Account returns the financial snapshot of the currently selected account.
func (e *Engine) Account() AccountSnapshot {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	snapshot, _ := e.accountSnapshot(e.viewingID)
	return snapshot
}

// AccountFor returns the financial snapshot of an explicit account.
func (e *Engine) AccountFor(accountID string) (AccountSnapshot, error) {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	return e.accountSnapshot(accountID)
}

// accountSnapshot assumes at least the read lock is held.
func (e *Engine) accountSnapshot(accountID string) (AccountSnapshot, error) {
	account, ok := e.accounts.Account(accountID)
	if !ok {
		return AccountSnapshot{}, fmt.Errorf("account %q: %w", accountID, ErrNotFound)
	}

	exposure := e.ledger.Exposure(accountID, "")
	return AccountSnapshot{
		ID:        account.ID,
		Name:      account.Name,
		Balance:   account.Balance,
		Exposure:  exposure,
		Available: core.SubAmounts(account.Balance, exposure),
	}, nil
}

// TimeRemaining returns the time until the next phase boundary: the round
// end while open or resolving, the freeze end while frozen. It is a pure
// derived value clamped at zero and never mutates state.
func (e *Engine) TimeRemaining() time.Duration {
	e.mtx.RLock()
	defer e.mtx.RUnlock()

	if e.round == nil {
		return 0
	}

	var remaining time.Duration
	switch e.round.Phase {
	case PhaseOpen, PhaseResolving:
		remaining = time.Until(e.round.End)
	case PhaseFrozen:
		remaining = time.Until(e.round.FreezeEnd)
	default:
		return 0
	}

	if remaining < 0 {
		return 0
	}
	return remaining
}
