// Package hostapi defines the wire types exchanged between the auction host
// and its clients, plus the conversions from engine snapshots. The HTTP API
// speaks JSON; the websocket state stream carries the same structures as
// binary CBOR frames.
package hostapi

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/cloudx-io/lotauction/engine"
	"github.com/cloudx-io/lotauction/treemap"
)

// LotView is one catalog row as seen by the viewing account.
type LotView struct {
	ID           string  `json:"id" cbor:"id"`
	Label        string  `json:"label" cbor:"label"`
	FloorPrice   float64 `json:"floor_price" cbor:"floor_price"`
	CurrentPrice float64 `json:"current_price" cbor:"current_price"`
	OwnerName    string  `json:"owner_name,omitempty" cbor:"owner_name,omitempty"`
	HighestBid   float64 `json:"highest_bid" cbor:"highest_bid"`
	BidCount     int     `json:"bid_count" cbor:"bid_count"`
	OwnBid       float64 `json:"own_bid" cbor:"own_bid"`
	HasBid       bool    `json:"has_bid" cbor:"has_bid"`
	Available    bool    `json:"available" cbor:"available"`
}

// CatalogView is the full catalog projection.
type CatalogView struct {
	Generation uint64    `json:"generation" cbor:"generation"`
	Phase      string    `json:"phase" cbor:"phase"`
	Lots       []LotView `json:"lots" cbor:"lots"`
}

// AccountView summarizes the viewing account's position.
type AccountView struct {
	ID        string  `json:"id" cbor:"id"`
	Name      string  `json:"name" cbor:"name"`
	Balance   float64 `json:"balance" cbor:"balance"`
	Exposure  float64 `json:"exposure" cbor:"exposure"`
	Available float64 `json:"available" cbor:"available"`
}

// StateUpdate is one frame of the websocket state stream.
type StateUpdate struct {
	Phase       string      `json:"phase" cbor:"phase"`
	Generation  uint64      `json:"generation" cbor:"generation"`
	RemainingMS int64       `json:"remaining_ms" cbor:"remaining_ms"`
	Catalog     CatalogView `json:"catalog" cbor:"catalog"`
	Account     AccountView `json:"account" cbor:"account"`
}

// PlaceBidRequest is the body of a bid placement command.
type PlaceBidRequest struct {
	Amount float64 `json:"amount"`
}

// ErrorResponse is the body of every rejected command.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// CatalogViewOf converts an engine catalog snapshot to its wire form.
func CatalogViewOf(snapshot engine.CatalogSnapshot) CatalogView {
	view := CatalogView{
		Generation: snapshot.Generation,
		Phase:      snapshot.Phase.String(),
		Lots:       make([]LotView, 0, len(snapshot.Lots)),
	}
	for _, lot := range snapshot.Lots {
		view.Lots = append(view.Lots, LotView{
			ID:           lot.ID,
			Label:        lot.Label,
			FloorPrice:   lot.FloorPrice,
			CurrentPrice: lot.CurrentPrice,
			OwnerName:    lot.OwnerName,
			HighestBid:   lot.HighestBid,
			BidCount:     lot.BidCount,
			OwnBid:       lot.ViewerBid,
			HasBid:       lot.HasBid,
			Available:    lot.Available,
		})
	}
	return view
}

// AccountViewOf converts an engine account snapshot to its wire form.
func AccountViewOf(snapshot engine.AccountSnapshot) AccountView {
	return AccountView{
		ID:        snapshot.ID,
		Name:      snapshot.Name,
		Balance:   snapshot.Balance,
		Exposure:  snapshot.Exposure,
		Available: snapshot.Available,
	}
}

// SortedByPrice returns the lots ordered by current price descending, the
// ordering the list presentation uses. Ties keep catalog order.
func (v CatalogView) SortedByPrice() []LotView {
	lots := make([]LotView, len(v.Lots))
	copy(lots, v.Lots)
	sort.SliceStable(lots, func(i, j int) bool {
		return lots[i].CurrentPrice > lots[j].CurrentPrice
	})
	return lots
}

// LayoutItems projects the catalog onto treemap inputs, weighing each lot by
// its current price.
func (v CatalogView) LayoutItems() []treemap.Item {
	items := make([]treemap.Item, 0, len(v.Lots))
	for _, lot := range v.Lots {
		items = append(items, treemap.Item{
			ID:     lot.ID,
			Label:  lot.Label,
			Weight: lot.CurrentPrice,
		})
	}
	return items
}

// EncodeStateUpdate serializes a state update to its CBOR frame.
func EncodeStateUpdate(update StateUpdate) ([]byte, error) {
	data, err := cbor.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("encode state update: %w", err)
	}
	return data, nil
}

// DecodeStateUpdate parses a CBOR state update frame.
func DecodeStateUpdate(data []byte) (StateUpdate, error) {
	var update StateUpdate
	if err := cbor.Unmarshal(data, &update); err != nil {
		return StateUpdate{}, fmt.Errorf("decode state update: %w", err)
	}
	return update, nil
}

// ErrorCode maps an engine command error to its wire code. Unrecognized
// errors map to "internal".
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, engine.ErrLotUnavailable):
		return "lot_unavailable"
	case errors.Is(err, engine.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, engine.ErrRoundFrozen):
		return "round_frozen"
	case errors.Is(err, engine.ErrNotFound):
		return "not_found"
	}
	return "internal"
}
