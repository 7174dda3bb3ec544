package model

// PlayerID uniquely identifies a player
type PlayerID string

// MatchID uniquely identifies a match
type MatchID string

// Phase represents the current stage of a match
type Phase string

const (
	PhaseSetup              Phase = "SETUP"
	PhaseWaitingForOpponent Phase = "WAITING_FOR_OPPONENT"
	PhaseActive             Phase = "ACTIVE"
	PhaseFinished           Phase = "FINISHED"
)

// PlayerView is one player's board as visible to the requesting player.
// Hits and misses are shots fired *at* this player.
type PlayerView struct {
	PlayerID  PlayerID     `json:"playerId"`
	Ships     []Ship       `json:"ships"`
	SunkShips []Ship       `json:"sunkShips"`
	Hits      []Coordinate `json:"hits"`
	Misses    []Coordinate `json:"misses"`
}

// HasShip reports whether a ship of the given type id is already placed
func (p *PlayerView) HasShip(typeID string) bool {
	if p == nil {
		return false
	}
	for _, s := range p.Ships {
		if s.ID == typeID {
			return true
		}
	}
	return false
}

// OccupiedCells returns the set of cells covered by this player's ships
func (p *PlayerView) OccupiedCells() map[Coordinate]bool {
	occupied := make(map[Coordinate]bool)
	if p == nil {
		return occupied
	}
	for _, s := range p.Ships {
		for _, c := range s.Coordinates {
			occupied[c] = true
		}
	}
	return occupied
}

// MatchSnapshot is a complete, self-consistent description of one match
// from a single player's perspective. It is always replaced wholesale,
// never field-patched: every push or REST response carries a full snapshot.
type MatchSnapshot struct {
	MatchID             MatchID     `json:"gameId"`
	Phase               Phase       `json:"state"`
	CurrentTurnPlayerID PlayerID    `json:"currentTurnPlayerId"`
	WinnerID            PlayerID    `json:"winnerId"`
	Self                *PlayerView `json:"self"`
	Opponent            *PlayerView `json:"opponent"`
}

// InSetup reports whether ships may still be placed
func (m *MatchSnapshot) InSetup() bool {
	return m != nil && (m.Phase == PhaseSetup || m.Phase == PhaseWaitingForOpponent)
}
