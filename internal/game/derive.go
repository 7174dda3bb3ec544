package game

import "github.com/frankint/battleship-cli/internal/model"

// CellView is the layered classification of one board cell. Several layers
// can hold at once (a sunk ship's cells are both Hit and Sunk); renderers
// apply precedence Sunk over Revealed over Ship, with Hit/Miss drawn as an
// independent layer.
type CellView struct {
	Ship     bool // one of the viewer's own ships occupies the cell
	Revealed bool // an opponent ship revealed after the match finished
	Sunk     bool // part of a sunk opponent ship
	Hit      bool
	Miss     bool

	// Overlay layer: the speculative placement under the cursor or staged
	// for confirmation. Never set on the opponent board.
	Preview      bool
	PreviewLegal bool
}

// Overlay is the speculative placement state composed over the
// authoritative snapshot at derivation time. It is never merged into the
// snapshot itself.
type Overlay struct {
	Cells []model.Coordinate
	Legal bool
}

// DeriveCellState classifies one cell of either board from the current
// snapshot plus the placement overlay. It is a pure function: it reads
// nothing but its arguments and mutates neither.
func DeriveCellState(snap *model.MatchSnapshot, overlay *Overlay, x, y int, opponentBoard bool) CellView {
	var view CellView
	if snap == nil {
		return view
	}

	cell := model.Coordinate{X: x, Y: y}
	var board *model.PlayerView
	if opponentBoard {
		board = snap.Opponent
	} else {
		board = snap.Self
	}
	if board == nil {
		return view
	}

	for _, ship := range board.Ships {
		if containsCoordinate(ship.Coordinates, cell) {
			if opponentBoard {
				// Opponent ships carry coordinates only post-FINISHED
				view.Revealed = true
			} else {
				view.Ship = true
			}
			break
		}
	}

	if opponentBoard {
		for _, ship := range board.SunkShips {
			if containsCoordinate(ship.Coordinates, cell) {
				view.Sunk = true
				break
			}
		}
	}

	// Hits and misses are mutually exclusive by the server's invariant
	if containsCoordinate(board.Hits, cell) {
		view.Hit = true
	} else if containsCoordinate(board.Misses, cell) {
		view.Miss = true
	}

	if !opponentBoard && overlay != nil && containsCoordinate(overlay.Cells, cell) {
		view.Preview = true
		view.PreviewLegal = overlay.Legal
	}

	return view
}

func containsCoordinate(cells []model.Coordinate, c model.Coordinate) bool {
	for _, cell := range cells {
		if cell == c {
			return true
		}
	}
	return false
}
