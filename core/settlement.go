package core

// ResolveWinners picks the winning bid for every lot that received at least
// one bid. The highest amount wins; amounts that compare equal at monetary
// precision are broken by the earliest submission sequence, so the first
// bidder to reach the tied amount keeps the lot.
//
// The input is a point-in-time snapshot of the ledger; the function performs
// no mutation and is safe to call repeatedly with the same snapshot.
func ResolveWinners(bids []Bid) map[string]LotResult {
	results := make(map[string]LotResult)

	for _, bid := range bids {
		current, exists := results[bid.LotID]
		if !exists {
			results[bid.LotID] = LotResult{
				LotID:    bid.LotID,
				Winner:   bid,
				BidCount: 1,
			}
			continue
		}

		current.BidCount++

		cmp := CompareAmounts(bid.Amount, current.Winner.Amount)
		if cmp > 0 || (cmp == 0 && bid.Seq < current.Winner.Seq) {
			current.Winner = bid
		}

		results[bid.LotID] = current
	}

	return results
}

// HighestBid returns the highest amount among the given bids, or 0 if the
// slice is empty. Used for display; ordering of equal amounts is irrelevant.
func HighestBid(bids []Bid) float64 {
	highest := 0.0
	for _, bid := range bids {
		if CompareAmounts(bid.Amount, highest) > 0 {
			highest = bid.Amount
		}
	}
	return highest
}
