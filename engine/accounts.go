package engine

import (
	"fmt"

	"github.com/cloudx-io/lotauction/core"
)

// Account is a funded bidder. Balance only ever decreases, and only at
// settlement for the account's winning bids.
type Account struct {
	ID      string
	Name    string
	Balance float64
}

// AccountBook tracks account balances. Like Catalog it relies on the Engine
// for serialization.
type AccountBook struct {
	accounts map[string]*Account
	order    []string
}

// NewAccountBook builds the account book. Balances must be non-negative and
// ids unique.
func NewAccountBook(accounts []Account) (*AccountBook, error) {
	if len(accounts) == 0 {
		return nil, fmt.Errorf("account book requires at least one account")
	}

	b := &AccountBook{
		accounts: make(map[string]*Account, len(accounts)),
		order:    make([]string, 0, len(accounts)),
	}

	for _, account := range accounts {
		if account.ID == "" {
			return nil, fmt.Errorf("account with empty id")
		}
		if _, dup := b.accounts[account.ID]; dup {
			return nil, fmt.Errorf("duplicate account id %q", account.ID)
		}
		if account.Balance < 0 {
			return nil, fmt.Errorf("account %q: negative balance %v", account.ID, account.Balance)
		}

		stored := account
		b.accounts[account.ID] = &stored
		b.order = append(b.order, account.ID)
	}

	return b, nil
}

// Account returns the stored account for id.
func (b *AccountBook) Account(id string) (*Account, bool) {
	account, ok := b.accounts[id]
	return account, ok
}

// First returns the id of the first configured account, the default viewing
// perspective.
func (b *AccountBook) First() string {
	return b.order[0]
}

// debit reduces the account balance by amount using decimal arithmetic.
// Solvency is enforced at bid placement, so the result cannot go negative
// for amounts that passed validation.
func (b *AccountBook) debit(id string, amount float64) {
	account := b.accounts[id]
	account.Balance = core.SubAmounts(account.Balance, amount)
}
