package engine

import (
	"fmt"

	"github.com/cloudx-io/lotauction/core"
)

// Lot is a tradable item in the catalog. Identity, label, and floor price are
// fixed at construction; CurrentPrice and OwnerID change only at settlement.
type Lot struct {
	ID         string
	Label      string
	FloorPrice float64

	// CurrentPrice starts at FloorPrice and never drops below it.
	CurrentPrice float64

	// OwnerID is empty until a round resolves with at least one bid on the lot.
	OwnerID string
}

// Catalog holds the full lot list in a stable order. It is not safe for
// concurrent use on its own; the Engine serializes all access.
type Catalog struct {
	lots  map[string]*Lot
	order []string
}

// NewCatalog builds a catalog from the given lot definitions. Floor prices
// must be non-negative and ids unique. CurrentPrice is initialized to the
// floor price regardless of the input value.
func NewCatalog(lots []Lot) (*Catalog, error) {
	if len(lots) == 0 {
		return nil, fmt.Errorf("catalog requires at least one lot")
	}

	c := &Catalog{
		lots:  make(map[string]*Lot, len(lots)),
		order: make([]string, 0, len(lots)),
	}

	for _, lot := range lots {
		if lot.ID == "" {
			return nil, fmt.Errorf("lot with empty id")
		}
		if _, dup := c.lots[lot.ID]; dup {
			return nil, fmt.Errorf("duplicate lot id %q", lot.ID)
		}
		if lot.FloorPrice < 0 {
			return nil, fmt.Errorf("lot %q: negative floor price %v", lot.ID, lot.FloorPrice)
		}

		stored := lot
		stored.CurrentPrice = lot.FloorPrice
		stored.OwnerID = ""

		c.lots[lot.ID] = &stored
		c.order = append(c.order, lot.ID)
	}

	return c, nil
}

// Lot returns the stored lot for id. The pointer is owned by the catalog and
// must only be touched while the engine lock is held.
func (c *Catalog) Lot(id string) (*Lot, bool) {
	lot, ok := c.lots[id]
	return lot, ok
}

// IDs returns a copy of the lot ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Len returns the number of lots in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Lots returns value copies of every lot in catalog order.
func (c *Catalog) Lots() []Lot {
	lots := make([]Lot, 0, len(c.order))
	for _, id := range c.order {
		lots = append(lots, *c.lots[id])
	}
	return lots
}

// settle applies a winning bid to the lot: the clearing price becomes the
// bid amount and ownership transfers to the bidder.
func (c *Catalog) settle(lotID string, winner core.Bid) {
	lot := c.lots[lotID]
	lot.CurrentPrice = winner.Amount
	lot.OwnerID = winner.AccountID
}
