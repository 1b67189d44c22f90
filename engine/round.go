package engine

import "time"

// Phase is the lifecycle state of the round cycle.
type Phase int

const (
	// PhaseIdle means no round has been started yet.
	PhaseIdle Phase = iota

	// PhaseOpen accepts bid placement and removal for the open lot set.
	PhaseOpen

	// PhaseResolving is the transient settlement window. No commands are
	// accepted; the phase is only observable from a concurrent reader
	// between the round-end boundary and the freeze.
	PhaseResolving

	// PhaseFrozen is the pause between settlement and the next round.
	PhaseFrozen

	// PhaseStopped is terminal, entered only on shutdown.
	PhaseStopped
)

// String returns the lowercase phase name used on the wire and in logs.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseOpen:
		return "open"
	case PhaseResolving:
		return "resolving"
	case PhaseFrozen:
		return "frozen"
	case PhaseStopped:
		return "stopped"
	}
	return "unknown"
}

// Round is one time-boxed bidding window over a randomly drawn lot subset.
// Exactly one Round is active at a time; the Generation tag distinguishes it
// from superseded instances so that stale timer callbacks can be ignored.
type Round struct {
	// Generation increases by one for every round opened by the engine.
	Generation uint64

	// openLots is the drawn subset offered this round.
	openLots map[string]struct{}

	// Start and End bound the Open phase as [Start, End).
	Start, End time.Time

	// FreezeEnd is zero until the round enters PhaseFrozen.
	FreezeEnd time.Time

	Phase Phase
}

func newRound(generation uint64, lotIDs []string, start time.Time, duration time.Duration) *Round {
	open := make(map[string]struct{}, len(lotIDs))
	for _, id := range lotIDs {
		open[id] = struct{}{}
	}
	return &Round{
		Generation: generation,
		openLots:   open,
		Start:      start,
		End:        start.Add(duration),
		Phase:      PhaseOpen,
	}
}

// Offers reports whether the lot is part of this round's open set.
func (r *Round) Offers(lotID string) bool {
	_, ok := r.openLots[lotID]
	return ok
}

// OpenLotIDs returns a copy of the open lot set. The slice ordering is random.
func (r *Round) OpenLotIDs() []string {
	ids := make([]string, 0, len(r.openLots))
	for id := range r.openLots {
		ids = append(ids, id)
	}
	return ids
}
