package engine

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestBidLedger_PutReplaces(t *testing.T) {
	ledger := NewBidLedger()

	first := ledger.Put("acc-1", "lot-1", 150)
	second := ledger.Put("acc-1", "lot-1", 200)

	check.Equal(t, 1, ledger.Len())

	bid, ok := ledger.Get("acc-1", "lot-1")
	check.True(t, ok)
	check.Equal(t, 200.0, bid.Amount)

	// A replacement is a fresh submission.
	check.True(t, second.Seq > first.Seq)
	check.NotEqual(t, first.ID, second.ID)
}

func TestBidLedger_OneBidPerPair(t *testing.T) {
	ledger := NewBidLedger()

	ledger.Put("acc-1", "lot-1", 150)
	ledger.Put("acc-1", "lot-2", 100)
	ledger.Put("acc-2", "lot-1", 120)

	check.Equal(t, 3, ledger.Len())
	check.Equal(t, 2, len(ledger.BidsForLot("lot-1")))
	check.Equal(t, 1, len(ledger.BidsForLot("lot-2")))
	check.Equal(t, 0, len(ledger.BidsForLot("lot-3")))
}

func TestBidLedger_Remove(t *testing.T) {
	ledger := NewBidLedger()
	ledger.Put("acc-1", "lot-1", 150)

	check.True(t, ledger.Remove("acc-1", "lot-1"))
	check.False(t, ledger.Remove("acc-1", "lot-1"))
	check.Equal(t, 0, ledger.Len())
}

func TestBidLedger_Exposure(t *testing.T) {
	ledger := NewBidLedger()
	ledger.Put("acc-1", "lot-1", 150)
	ledger.Put("acc-1", "lot-2", 100)
	ledger.Put("acc-2", "lot-1", 75)

	check.Equal(t, 250.0, ledger.Exposure("acc-1", ""))
	check.Equal(t, 100.0, ledger.Exposure("acc-1", "lot-1"))
	check.Equal(t, 150.0, ledger.Exposure("acc-1", "lot-2"))
	check.Equal(t, 75.0, ledger.Exposure("acc-2", ""))
	check.Equal(t, 0.0, ledger.Exposure("acc-3", ""))
}

func TestBidLedger_ClearKeepsSequence(t *testing.T) {
	ledger := NewBidLedger()
	before := ledger.Put("acc-1", "lot-1", 150)

	ledger.Clear()
	check.Equal(t, 0, ledger.Len())

	after := ledger.Put("acc-1", "lot-1", 150)
	check.True(t, after.Seq > before.Seq)
}
