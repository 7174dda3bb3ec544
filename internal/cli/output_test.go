package cli

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/frankint/battleship-cli/internal/game"
	"github.com/frankint/battleship-cli/internal/model"
)

type RenderSuite struct {
	suite.Suite
}

func TestRenderSuite(t *testing.T) {
	suite.Run(t, new(RenderSuite))
}

func (s *RenderSuite) TestOwnBoardGlyphs() {
	s.EqualValues('.', renderCell(game.CellView{}, false))
	s.EqualValues('#', renderCell(game.CellView{Ship: true}, false))
	s.EqualValues('X', renderCell(game.CellView{Ship: true, Hit: true}, false))
	s.EqualValues('o', renderCell(game.CellView{Miss: true}, false))
}

func (s *RenderSuite) TestOpponentBoardGlyphs() {
	s.EqualValues('.', renderCell(game.CellView{}, true))
	s.EqualValues('X', renderCell(game.CellView{Hit: true}, true))
	s.EqualValues('*', renderCell(game.CellView{Hit: true, Sunk: true}, true))
	s.EqualValues('#', renderCell(game.CellView{Revealed: true}, true))
	s.EqualValues('o', renderCell(game.CellView{Miss: true}, true))
}

func (s *RenderSuite) TestPreviewTakesPrecedence() {
	s.EqualValues('+', renderCell(game.CellView{Ship: true, Preview: true, PreviewLegal: true}, false))
	s.EqualValues('!', renderCell(game.CellView{Preview: true}, false))
}

func (s *RenderSuite) TestStatusSuffix() {
	s.Equal("  your turn", statusSuffix(&model.MatchSnapshot{
		Phase:               model.PhaseActive,
		CurrentTurnPlayerID: "alice",
	}, "alice"))
	s.Equal("  opponent's turn", statusSuffix(&model.MatchSnapshot{
		Phase:               model.PhaseActive,
		CurrentTurnPlayerID: "bob",
	}, "alice"))
	s.Equal("  you won", statusSuffix(&model.MatchSnapshot{
		Phase:    model.PhaseFinished,
		WinnerID: "alice",
	}, "alice"))
	s.Equal("", statusSuffix(&model.MatchSnapshot{Phase: model.PhaseSetup}, "alice"))
}

func (s *RenderSuite) TestPlacementArgParsing() {
	x, y, orientation, err := parsePlacementArgs([]string{"3", "7", "h"})
	s.Require().NoError(err)
	s.Equal(3, x)
	s.Equal(7, y)
	s.Equal(model.Horizontal, orientation)

	_, _, orientation, err = parsePlacementArgs([]string{"0", "0", "vertical"})
	s.Require().NoError(err)
	s.Equal(model.Vertical, orientation)

	_, _, _, err = parsePlacementArgs([]string{"0", "0"})
	s.Error(err)
	_, _, _, err = parsePlacementArgs([]string{"a", "0", "h"})
	s.Error(err)
	_, _, _, err = parsePlacementArgs([]string{"0", "0", "diagonal"})
	s.Error(err)
}
