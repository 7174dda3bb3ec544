package game

import (
	"log/slog"
	"sync"

	"github.com/frankint/battleship-cli/internal/model"
)

// Events are the signals the view model emits as snapshots are applied.
// Nil handlers are skipped.
type Events struct {
	// MatchEnded fires exactly once per transition into FINISHED, with
	// whether this player won
	MatchEnded func(won bool)

	// OpponentShipSunk fires at most once per applied snapshot, when the
	// opponent's sunk-ship count strictly increased
	OpponentShipSunk func()

	// SnapshotApplied fires after every accepted snapshot replacement
	SnapshotApplied func(*model.MatchSnapshot)
}

// ViewModel mirrors the authoritative server state of one match. It is
// updated only by transport pushes or REST responses, always by replacing
// the whole snapshot: there is no merge logic, because every snapshot is
// total and self-consistent. Whichever update arrives last wins.
type ViewModel struct {
	events Events
	logger *slog.Logger

	mu           sync.RWMutex
	identity     model.PlayerID
	matchID      model.MatchID
	snap         *model.MatchSnapshot
	sunk         SunkDetector
	finishedSeen bool
}

// NewViewModel creates a view model for the given player identity
func NewViewModel(identity model.PlayerID, events Events, logger *slog.Logger) *ViewModel {
	return &ViewModel{
		identity: identity,
		events:   events,
		logger:   logger,
	}
}

// SetIdentity binds the view model to the logged-in player. The identity
// decides which winner id counts as a win.
func (v *ViewModel) SetIdentity(identity model.PlayerID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.identity = identity
}

// Enter resets the view model for a new match. The sunk counter restarts
// and the finish signal re-arms.
func (v *ViewModel) Enter(matchID model.MatchID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.matchID = matchID
	v.snap = nil
	v.sunk.Reset()
	v.finishedSeen = false
}

// Leave clears the current match
func (v *ViewModel) Leave() {
	v.Enter("")
}

// MatchID returns the match this view model currently mirrors
func (v *ViewModel) MatchID() model.MatchID {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.matchID
}

// Snapshot returns the latest applied snapshot, or nil before the first
// update arrives
func (v *ViewModel) Snapshot() *model.MatchSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap
}

// Apply replaces the stored snapshot. Every response and push is tagged
// with the match it was issued for; a snapshot for any other match is
// stale (the player has navigated away) and is discarded. Applying a
// duplicate identical snapshot is harmless.
//
// Apply reports whether the snapshot was accepted.
func (v *ViewModel) Apply(matchID model.MatchID, snap *model.MatchSnapshot) bool {
	if snap == nil {
		return false
	}

	v.mu.Lock()
	if matchID != v.matchID {
		current := v.matchID
		v.mu.Unlock()
		v.logger.Info("discarding stale snapshot",
			slog.String("for_match", string(matchID)),
			slog.String("current_match", string(current)),
		)
		return false
	}

	v.snap = snap
	sunkSignal := v.sunk.Observe(snap.Opponent)

	endedSignal := false
	won := false
	if snap.Phase == model.PhaseFinished && !v.finishedSeen {
		v.finishedSeen = true
		endedSignal = true
		won = snap.WinnerID == v.identity
	}
	v.mu.Unlock()

	if sunkSignal && v.events.OpponentShipSunk != nil {
		v.events.OpponentShipSunk()
	}
	if endedSignal && v.events.MatchEnded != nil {
		v.events.MatchEnded(won)
	}
	if v.events.SnapshotApplied != nil {
		v.events.SnapshotApplied(snap)
	}
	return true
}

// CellState classifies one cell of the latest snapshot; see
// DeriveCellState
func (v *ViewModel) CellState(overlay *Overlay, x, y int, opponentBoard bool) CellView {
	return DeriveCellState(v.Snapshot(), overlay, x, y, opponentBoard)
}
