package engine

import (
	"github.com/google/uuid"

	"github.com/cloudx-io/lotauction/core"
)

// BidLedger stores the active bids of the current round, at most one per
// (account, lot) pair. Every stored bid carries an engine-wide submission
// sequence number used for earliest-submission tie-breaking. The ledger is
// cleared in full when a round resolves.
type BidLedger struct {
	bids map[bidKey]core.Bid
	seq  uint64
}

type bidKey struct {
	accountID string
	lotID     string
}

// NewBidLedger returns an empty ledger.
func NewBidLedger() *BidLedger {
	return &BidLedger{
		bids: make(map[bidKey]core.Bid),
	}
}

// Put installs or overwrites the (account, lot) bid. A replacement is a new
// submission: it gets a fresh id and sequence number.
func (l *BidLedger) Put(accountID, lotID string, amount float64) core.Bid {
	l.seq++
	bid := core.Bid{
		ID:        uuid.NewString(),
		LotID:     lotID,
		AccountID: accountID,
		Amount:    amount,
		Seq:       l.seq,
	}
	l.bids[bidKey{accountID, lotID}] = bid
	return bid
}

// Remove deletes the (account, lot) bid, reporting whether one existed.
func (l *BidLedger) Remove(accountID, lotID string) bool {
	key := bidKey{accountID, lotID}
	if _, ok := l.bids[key]; !ok {
		return false
	}
	delete(l.bids, key)
	return true
}

// Get returns the account's active bid on the lot.
func (l *BidLedger) Get(accountID, lotID string) (core.Bid, bool) {
	bid, ok := l.bids[bidKey{accountID, lotID}]
	return bid, ok
}

// Exposure sums the amounts of the account's active bids, optionally
// excluding one lot. The exclusion supports replacement solvency checks:
// a new bid on a lot supersedes the old one, so the old amount must not
// count against the balance.
func (l *BidLedger) Exposure(accountID, excludeLotID string) float64 {
	total := 0.0
	for key, bid := range l.bids {
		if key.accountID != accountID || key.lotID == excludeLotID {
			continue
		}
		total = core.AddAmounts(total, bid.Amount)
	}
	return total
}

// BidsForLot returns the active bids on a lot.
func (l *BidLedger) BidsForLot(lotID string) []core.Bid {
	bids := make([]core.Bid, 0)
	for key, bid := range l.bids {
		if key.lotID == lotID {
			bids = append(bids, bid)
		}
	}
	return bids
}

// All returns a snapshot of every active bid. The slice ordering is random.
func (l *BidLedger) All() []core.Bid {
	bids := make([]core.Bid, 0, len(l.bids))
	for _, bid := range l.bids {
		bids = append(bids, bid)
	}
	return bids
}

// Clear drops all bids. The submission counter is not reset, keeping Seq
// strictly increasing across rounds.
func (l *BidLedger) Clear() {
	l.bids = make(map[bidKey]core.Bid)
}

// Len returns the number of active bids.
func (l *BidLedger) Len() int {
	return len(l.bids)
}
