package engine

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cloudx-io/lotauction/core"
)

// Config carries everything needed to construct an Engine.
type Config struct {
	// Lots defines the catalog. CurrentPrice and OwnerID are ignored;
	// every lot starts at its floor price, unowned.
	Lots []Lot

	// Accounts defines the funded bidders. The first account is the
	// initial viewing perspective.
	Accounts []Account

	// RoundDuration is the length of the Open phase.
	RoundDuration time.Duration

	// FreezeDuration is the pause between settlement and the next round.
	FreezeDuration time.Duration

	// LotsPerRound is the size of the random lot subset drawn each round.
	// Must not exceed the catalog size.
	LotsPerRound int

	// Rand is the random source for the lot draw. Nil selects the
	// crypto/rand default; tests inject deterministic sequences.
	Rand core.RandSource
}

// Event reports a phase transition to subscribers. Events are delivered on a
// buffered channel and dropped for slow consumers; they are advisory
// notifications, not state.
type Event struct {
	Generation uint64
	Phase      Phase
}

// Engine is the single authority over the auction state: catalog, account
// book, bid ledger, and the active round. All mutation is serialized through
// one RWMutex; timer callbacks re-enter through the same lock and verify the
// round generation before acting, which makes late or duplicated timer
// firings harmless. Snapshot queries take the read side only.
type Engine struct {
	mtx sync.RWMutex

	catalog  *Catalog
	accounts *AccountBook
	ledger   *BidLedger
	round    *Round

	generation uint64
	viewingID  string
	stopped    bool

	roundDuration  time.Duration
	freezeDuration time.Duration
	lotsPerRound   int
	randSource     core.RandSource

	endTimer    *time.Timer
	freezeTimer *time.Timer

	events chan Event
}

// New constructs an Engine from cfg. The engine is idle until Start is
// called; no timers run and no round is open.
func New(cfg Config) (*Engine, error) {
	catalog, err := NewCatalog(cfg.Lots)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	accounts, err := NewAccountBook(cfg.Accounts)
	if err != nil {
		return nil, fmt.Errorf("invalid account book: %w", err)
	}
	if cfg.RoundDuration <= 0 {
		return nil, fmt.Errorf("round duration must be positive, got %v", cfg.RoundDuration)
	}
	if cfg.FreezeDuration <= 0 {
		return nil, fmt.Errorf("freeze duration must be positive, got %v", cfg.FreezeDuration)
	}
	if cfg.LotsPerRound <= 0 {
		return nil, fmt.Errorf("lots per round must be positive, got %d", cfg.LotsPerRound)
	}
	if cfg.LotsPerRound > catalog.Len() {
		return nil, fmt.Errorf("lots per round %d exceeds catalog size %d",
			cfg.LotsPerRound, catalog.Len())
	}

	return &Engine{
		catalog:        catalog,
		accounts:       accounts,
		ledger:         NewBidLedger(),
		viewingID:      accounts.First(),
		roundDuration:  cfg.RoundDuration,
		freezeDuration: cfg.FreezeDuration,
		lotsPerRound:   cfg.LotsPerRound,
		randSource:     cfg.Rand,
		events:         make(chan Event, 16),
	}, nil
}

// Start opens the first round. Calling Start on a running or stopped engine
// is a no-op.
func (e *Engine) Start() {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.stopped || e.round != nil {
		return
	}
	e.openRound()
}

// Stop cancels all timers and puts the engine into the terminal Stopped
// phase. Commands fail with ErrRoundFrozen afterwards; snapshots keep working.
func (e *Engine) Stop() {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.stopped {
		return
	}
	e.stopped = true

	if e.endTimer != nil {
		e.endTimer.Stop()
	}
	if e.freezeTimer != nil {
		e.freezeTimer.Stop()
	}
	if e.round != nil {
		e.round.Phase = PhaseStopped
	}
	log.Infof("engine stopped at generation %d", e.generation)
}

// Events returns the phase transition notification channel.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// SelectAccount switches the viewing perspective used by snapshot queries.
// It has no effect on auction state.
func (e *Engine) SelectAccount(accountID string) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if _, ok := e.accounts.Account(accountID); !ok {
		return fmt.Errorf("account %q: %w", accountID, ErrNotFound)
	}
	e.viewingID = accountID
	return nil
}

// PlaceBid places a bid for the currently selected account.
func (e *Engine) PlaceBid(lotID string, amount float64) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.placeBid(e.viewingID, lotID, amount)
}

// PlaceBidFor places a bid on behalf of an explicit account.
func (e *Engine) PlaceBidFor(accountID, lotID string, amount float64) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.placeBid(accountID, lotID, amount)
}

// RemoveBid withdraws the selected account's bid on the lot.
func (e *Engine) RemoveBid(lotID string) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.removeBid(e.viewingID, lotID)
}

// RemoveBidFor withdraws an explicit account's bid on the lot.
func (e *Engine) RemoveBidFor(accountID, lotID string) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.removeBid(accountID, lotID)
}

// placeBid validates and installs a bid. Caller holds the write lock.
//
// Validation order: phase, account, lot availability, floor, solvency. The
// solvency check excludes the account's existing bid on the same lot, since
// a replacement supersedes it.
func (e *Engine) placeBid(accountID, lotID string, amount float64) error {
	if !e.roundAcceptsCommands() {
		return ErrRoundFrozen
	}

	account, ok := e.accounts.Account(accountID)
	if !ok {
		return fmt.Errorf("account %q: %w", accountID, ErrNotFound)
	}

	lot, ok := e.catalog.Lot(lotID)
	if !ok || !e.round.Offers(lotID) {
		return fmt.Errorf("lot %q: %w", lotID, ErrLotUnavailable)
	}

	if !core.MeetsFloor(amount, lot.FloorPrice) {
		return fmt.Errorf("bid %v below floor %v: %w", amount, lot.FloorPrice, ErrInvalidAmount)
	}

	exposure := e.ledger.Exposure(accountID, lotID)
	if core.CompareAmounts(core.AddAmounts(exposure, amount), account.Balance) > 0 {
		return fmt.Errorf("bid %v plus exposure %v exceeds balance %v: %w",
			amount, exposure, account.Balance, ErrInsufficientBalance)
	}

	bid := e.ledger.Put(accountID, lotID, amount)
	log.Debugf("bid %s: %s offered %v on %s (round %d)",
		bid.ID, accountID, amount, lotID, e.round.Generation)
	return nil
}

// removeBid deletes a bid. Caller holds the write lock.
func (e *Engine) removeBid(accountID, lotID string) error {
	if !e.roundAcceptsCommands() {
		return ErrRoundFrozen
	}
	if !e.ledger.Remove(accountID, lotID) {
		return fmt.Errorf("no bid by %q on %q: %w", accountID, lotID, ErrNotFound)
	}
	log.Debugf("bid removed: %s on %s (round %d)", accountID, lotID, e.round.Generation)
	return nil
}

// roundAcceptsCommands reports whether bid commands may mutate the ledger.
// The phase check alone is not enough: the end-of-round timer can be
// delivered late, so the end time itself is the authority. A command landing
// at or after round.End is rejected even while the phase still reads Open.
// Caller holds at least the read lock.
func (e *Engine) roundAcceptsCommands() bool {
	return e.round != nil && e.round.Phase == PhaseOpen && time.Now().Before(e.round.End)
}

// openRound draws a fresh lot subset and arms the end-of-round timer.
// Caller holds the write lock.
func (e *Engine) openRound() {
	e.generation++
	generation := e.generation

	lotIDs := core.DrawSubset(e.catalog.IDs(), e.lotsPerRound, e.randSource)
	e.round = newRound(generation, lotIDs, time.Now(), e.roundDuration)

	e.endTimer = time.AfterFunc(e.roundDuration, func() {
		e.handleRoundEnd(generation)
	})

	log.Infof("round %d open: %d lots on offer for %v", generation, len(lotIDs), e.roundDuration)
	e.notify(Event{Generation: generation, Phase: PhaseOpen})
}

// handleRoundEnd is the end-of-round timer callback. It resolves the round
// and enters the freeze window. A firing for a superseded generation, or a
// duplicate firing for a round that already left Open, is a no-op.
func (e *Engine) handleRoundEnd(generation uint64) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.stopped || e.round == nil ||
		e.round.Generation != generation || e.round.Phase != PhaseOpen {
		log.Debugf("ignoring stale round-end for generation %d", generation)
		return
	}

	e.round.Phase = PhaseResolving
	e.notify(Event{Generation: generation, Phase: PhaseResolving})

	e.settle()

	e.round.Phase = PhaseFrozen
	e.round.FreezeEnd = time.Now().Add(e.freezeDuration)

	e.freezeTimer = time.AfterFunc(e.freezeDuration, func() {
		e.handleFreezeEnd(generation)
	})

	log.Infof("round %d frozen for %v", generation, e.freezeDuration)
	e.notify(Event{Generation: generation, Phase: PhaseFrozen})
}

// handleFreezeEnd is the freeze timer callback. It opens the next round,
// superseding the frozen one. Stale generations are ignored.
func (e *Engine) handleFreezeEnd(generation uint64) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.stopped || e.round == nil ||
		e.round.Generation != generation || e.round.Phase != PhaseFrozen {
		log.Debugf("ignoring stale freeze-end for generation %d", generation)
		return
	}

	e.openRound()
}

// settlementDelta is one fully computed mutation of the settlement plan.
type settlementDelta struct {
	lotID  string
	winner core.Bid
}

// settle resolves the round: snapshot the ledger, compute every winner and
// debit up front, then apply and clear. Computing the full plan before the
// first mutation keeps a retried settlement from double-charging; the phase
// and generation guards in handleRoundEnd ensure it runs once per round.
// Caller holds the write lock.
func (e *Engine) settle() {
	snapshot := e.ledger.All()
	results := core.ResolveWinners(snapshot)

	deltas := make([]settlementDelta, 0, len(results))
	for lotID, result := range results {
		deltas = append(deltas, settlementDelta{lotID: lotID, winner: result.Winner})
	}
	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].lotID < deltas[j].lotID
	})

	for _, delta := range deltas {
		e.catalog.settle(delta.lotID, delta.winner)
		e.accounts.debit(delta.winner.AccountID, delta.winner.Amount)
		log.Infof("round %d: lot %s sold to %s for %v",
			e.round.Generation, delta.lotID, delta.winner.AccountID, delta.winner.Amount)
	}

	cleared := e.ledger.Len()
	e.ledger.Clear()
	log.Debugf("round %d settled: %d lots sold, %d bids cleared",
		e.round.Generation, len(deltas), cleared)
}

// notify delivers an event without blocking. Slow consumers miss updates and
// are expected to re-query snapshots.
func (e *Engine) notify(event Event) {
	select {
	case e.events <- event:
	default:
	}
}
