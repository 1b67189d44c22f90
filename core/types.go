package core

// Bid represents one account's active offer on a lot during the current round.
type Bid struct {
	ID        string  `json:"id"`
	LotID     string  `json:"lot_id"`
	AccountID string  `json:"account_id"`
	Amount    float64 `json:"amount"`
	// Seq orders bids by submission time across the whole engine. Replacing
	// a bid assigns a fresh Seq, so a re-submitted amount counts as a new
	// submission for tie-breaking purposes.
	Seq uint64 `json:"seq"`
}

// LotResult contains the outcome of a single lot after winner resolution.
type LotResult struct {
	LotID string
	// Winner is the highest bid on the lot; ties at the same amount go to
	// the earliest submission.
	Winner Bid
	// BidCount is the number of active bids the lot received.
	BidCount int
}
