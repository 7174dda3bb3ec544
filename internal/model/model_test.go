package model

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ModelSuite struct {
	suite.Suite
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelSuite))
}

// Coordinate tests

func (s *ModelSuite) TestInBounds() {
	s.True(Coordinate{X: 0, Y: 0}.InBounds())
	s.True(Coordinate{X: BoardSize - 1, Y: BoardSize - 1}.InBounds())
	s.False(Coordinate{X: -1, Y: 0}.InBounds())
	s.False(Coordinate{X: 0, Y: -1}.InBounds())
	s.False(Coordinate{X: BoardSize, Y: 0}.InBounds())
	s.False(Coordinate{X: 0, Y: BoardSize}.InBounds())
}

func (s *ModelSuite) TestRunHorizontal() {
	cells := Run(Coordinate{X: 2, Y: 3}, Horizontal, 3)
	s.Equal([]Coordinate{{X: 2, Y: 3}, {X: 3, Y: 3}, {X: 4, Y: 3}}, cells)
}

func (s *ModelSuite) TestRunVertical() {
	cells := Run(Coordinate{X: 2, Y: 3}, Vertical, 3)
	s.Equal([]Coordinate{{X: 2, Y: 3}, {X: 2, Y: 4}, {X: 2, Y: 5}}, cells)
}

func (s *ModelSuite) TestRunIsNotBoundsChecked() {
	cells := Run(Coordinate{X: 8, Y: 0}, Horizontal, 4)
	s.Len(cells, 4)
	s.Equal(Coordinate{X: 11, Y: 0}, cells[3])
}

// Fleet tests

func (s *ModelSuite) TestFleetCanonicalOrder() {
	s.Require().Len(Fleet, 5)
	for i := 1; i < len(Fleet); i++ {
		s.LessOrEqual(Fleet[i].Size, Fleet[i-1].Size)
	}
	s.Equal("Carrier", Fleet[0].ID)
	s.Equal(5, Fleet[0].Size)
	s.Equal("Destroyer", Fleet[4].ID)
	s.Equal(2, Fleet[4].Size)
}

func (s *ModelSuite) TestShipTypeByIDIsCaseInsensitive() {
	t, ok := ShipTypeByID("cruiser")
	s.Require().True(ok)
	s.Equal("Cruiser", t.ID)
	s.Equal(3, t.Size)

	_, ok = ShipTypeByID("Frigate")
	s.False(ok)
}

// PlayerView tests

func (s *ModelSuite) TestHasShip() {
	view := &PlayerView{Ships: []Ship{{ID: "Carrier", Size: 5}}}
	s.True(view.HasShip("Carrier"))
	s.False(view.HasShip("Destroyer"))

	var nilView *PlayerView
	s.False(nilView.HasShip("Carrier"))
}

func (s *ModelSuite) TestOccupiedCells() {
	view := &PlayerView{Ships: []Ship{
		{ID: "Destroyer", Size: 2, Coordinates: []Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}}},
	}}
	occupied := view.OccupiedCells()
	s.True(occupied[Coordinate{X: 0, Y: 0}])
	s.True(occupied[Coordinate{X: 1, Y: 0}])
	s.False(occupied[Coordinate{X: 2, Y: 0}])

	var nilView *PlayerView
	s.Empty(nilView.OccupiedCells())
}

// MatchSnapshot tests

func (s *ModelSuite) TestInSetup() {
	s.True((&MatchSnapshot{Phase: PhaseSetup}).InSetup())
	s.True((&MatchSnapshot{Phase: PhaseWaitingForOpponent}).InSetup())
	s.False((&MatchSnapshot{Phase: PhaseActive}).InSetup())
	s.False((&MatchSnapshot{Phase: PhaseFinished}).InSetup())

	var nilSnap *MatchSnapshot
	s.False(nilSnap.InSetup())
}
