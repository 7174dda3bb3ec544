package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/frankint/battleship-cli/internal/api"
	"github.com/frankint/battleship-cli/internal/model"
)

// PlacementState is the placement interaction's finite state
type PlacementState int

const (
	PlacementIdle PlacementState = iota
	PlacementShipSelected
	PlacementPreviewing
	PlacementStaged
)

func (s PlacementState) String() string {
	switch s {
	case PlacementShipSelected:
		return "ship-selected"
	case PlacementPreviewing:
		return "previewing"
	case PlacementStaged:
		return "staged"
	default:
		return "idle"
	}
}

// PendingPlacement is a placement the player has staged but not yet
// submitted. It is client-local speculative state layered over the
// snapshot, never part of it, and at most one exists at a time.
type PendingPlacement struct {
	Type        model.ShipType
	Start       model.Coordinate
	Orientation model.Orientation
}

// PlacementPreview is the advisory result of hovering a candidate anchor:
// the full coordinate run and whether it is legal locally. The server
// remains authoritative; an illegal preview only disables confirmation in
// the UI, it does not prevent a forced submission.
type PlacementPreview struct {
	Cells []model.Coordinate
	Legal bool
}

// Placer submits confirmed placements. *api.Client satisfies this.
type Placer interface {
	PlaceShip(ctx context.Context, matchID model.MatchID, req api.PlaceShipRequest) (*model.MatchSnapshot, error)
}

// PlacementController drives the select/preview/stage/confirm interaction
// for ship placement during setup. Transitions:
//
//	IDLE -> SHIP_SELECTED -> PREVIEWING <-> SHIP_SELECTED -> STAGED -> IDLE
//
// A staged placement must be confirmed or cancelled before anything else;
// it is never silently replaced.
type PlacementController struct {
	view   *ViewModel
	placer Placer
	logger *slog.Logger

	mu         sync.Mutex
	state      PlacementState
	selected   *model.ShipType
	pending    *PendingPlacement
	confirming bool
}

// NewPlacementController creates a controller bound to a view model
func NewPlacementController(view *ViewModel, placer Placer, logger *slog.Logger) *PlacementController {
	return &PlacementController{
		view:   view,
		placer: placer,
		logger: logger,
	}
}

// State returns the interaction state
func (p *PlacementController) State() PlacementState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Selected returns the currently selected ship type, if any
func (p *PlacementController) Selected() (model.ShipType, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		return model.ShipType{}, false
	}
	return *p.selected, true
}

// Pending returns the staged placement, if any
func (p *PlacementController) Pending() (PendingPlacement, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return PendingPlacement{}, false
	}
	return *p.pending, true
}

// Reset returns the controller to IDLE, dropping any selection or staged
// placement. Called on match entry and exit.
func (p *PlacementController) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = PlacementIdle
	p.selected = nil
	p.pending = nil
	p.confirming = false
}

// SelectShip selects a fleet ship type for placement. Selecting a type
// that is already placed, or selecting anything while a placement is
// staged, is deliberately a no-op: confirmation or cancellation gates all
// further edits.
func (p *PlacementController) SelectShip(typeID string) error {
	shipType, ok := model.ShipTypeByID(typeID)
	if !ok {
		return model.ErrNoShipSelected
	}

	snap := p.view.Snapshot()
	if !snap.InSetup() {
		return model.ErrWrongPhase
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending != nil {
		p.logger.Debug("selection ignored while a placement is staged",
			slog.String("ship", typeID))
		return nil
	}
	if snap.Self.HasShip(shipType.ID) {
		p.logger.Debug("selection ignored, ship already placed",
			slog.String("ship", typeID))
		return nil
	}

	p.selected = &shipType
	p.state = PlacementShipSelected
	return nil
}

// Preview computes the coordinate run for the selected ship anchored at
// (x,y) and its local legality. It is cursor-driven and purely advisory:
// no server call, no mutation of snapshot or staged state.
func (p *PlacementController) Preview(x, y int, orientation model.Orientation) (PlacementPreview, error) {
	snap := p.view.Snapshot()
	if !snap.InSetup() {
		return PlacementPreview{}, model.ErrWrongPhase
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending != nil {
		return PlacementPreview{}, model.ErrPlacementPending
	}
	if p.selected == nil {
		return PlacementPreview{}, model.ErrNoShipSelected
	}

	preview := previewRun(snap.Self, *p.selected, model.Coordinate{X: x, Y: y}, orientation)
	p.state = PlacementPreviewing
	return preview, nil
}

// ClearPreview returns from PREVIEWING to SHIP_SELECTED, e.g. when the
// cursor leaves the board
func (p *PlacementController) ClearPreview() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == PlacementPreviewing {
		p.state = PlacementShipSelected
	}
}

// Stage records the candidate placement locally without contacting the
// server. Further previews are disabled until the placement is confirmed
// or cancelled.
func (p *PlacementController) Stage(x, y int, orientation model.Orientation) error {
	snap := p.view.Snapshot()
	if !snap.InSetup() {
		return model.ErrWrongPhase
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending != nil {
		return model.ErrPlacementPending
	}
	if p.selected == nil {
		return model.ErrNoShipSelected
	}

	p.pending = &PendingPlacement{
		Type:        *p.selected,
		Start:       model.Coordinate{X: x, Y: y},
		Orientation: orientation,
	}
	p.state = PlacementStaged
	return nil
}

// Overlay returns the render overlay for the current interaction: the
// staged run if one exists, else nothing
func (p *PlacementController) Overlay() *Overlay {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending == nil {
		return nil
	}
	preview := previewRun(p.view.Snapshot().Self, p.pending.Type, p.pending.Start, p.pending.Orientation)
	return &Overlay{Cells: preview.Cells, Legal: preview.Legal}
}

// Confirm submits the staged placement. On acceptance the server's
// response snapshot (which includes the new ship) replaces the view
// model's state, the pending placement is cleared, and the next unplaced
// ship type in canonical order is auto-selected; with the fleet complete
// the controller returns to IDLE. On rejection the pending placement is
// cleared and the controller returns to IDLE without retrying: the
// server's validation is authoritative and the local check was only
// advisory.
func (p *PlacementController) Confirm(ctx context.Context) (*model.MatchSnapshot, error) {
	p.mu.Lock()
	if p.pending == nil {
		p.mu.Unlock()
		return nil, model.ErrNothingStaged
	}
	if p.confirming {
		p.mu.Unlock()
		return nil, model.ErrConfirmInFlight
	}
	p.confirming = true
	pending := *p.pending
	p.mu.Unlock()

	matchID := p.view.MatchID()
	snap, err := p.placer.PlaceShip(ctx, matchID, api.PlaceShipRequest{
		ShipType:    pending.Type.ID,
		Start:       pending.Start,
		Orientation: pending.Orientation,
	})

	p.mu.Lock()
	p.confirming = false
	p.pending = nil
	if err != nil {
		p.selected = nil
		p.state = PlacementIdle
		p.mu.Unlock()
		p.logger.Warn("placement rejected",
			slog.String("ship", pending.Type.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	p.mu.Unlock()

	p.view.Apply(matchID, snap)

	p.mu.Lock()
	if next, ok := nextUnplaced(snap.Self); ok {
		p.selected = &next
		p.state = PlacementShipSelected
	} else {
		p.selected = nil
		p.state = PlacementIdle
	}
	p.mu.Unlock()

	p.logger.Info("ship placed",
		slog.String("ship", pending.Type.ID),
		slog.String("start", pending.Start.String()),
		slog.String("orientation", string(pending.Orientation)),
	)
	return snap, nil
}

// Cancel discards the staged placement without contacting the server
func (p *PlacementController) Cancel() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending == nil {
		return model.ErrNothingStaged
	}
	p.pending = nil
	p.selected = nil
	p.state = PlacementIdle
	return nil
}

// previewRun builds the coordinate run and checks local legality: every
// cell in bounds and disjoint from every already-placed ship
func previewRun(self *model.PlayerView, shipType model.ShipType, start model.Coordinate, orientation model.Orientation) PlacementPreview {
	cells := model.Run(start, orientation, shipType.Size)
	occupied := self.OccupiedCells()

	legal := true
	for _, c := range cells {
		if !c.InBounds() || occupied[c] {
			legal = false
			break
		}
	}
	return PlacementPreview{Cells: cells, Legal: legal}
}

// nextUnplaced returns the first fleet type, largest first, that the
// player has not placed yet
func nextUnplaced(self *model.PlayerView) (model.ShipType, bool) {
	for _, t := range model.Fleet {
		if !self.HasShip(t.ID) {
			return t, true
		}
	}
	return model.ShipType{}, false
}
