package movement

import (
	"testing"

	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type EngineSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

type grid = [model.BoardSize][model.BoardSize]int

func (s *EngineSuite) apply(in grid, dir model.Direction) Result {
	result, err := Apply(testutil.BuildBoard(in), dir)
	s.Require().NoError(err)
	return result
}

// assertConsistent checks every grid cell has a record at the matching
// position and that no stale records remain
func (s *EngineSuite) assertConsistent(b model.Board) {
	live := 0
	for row := 0; row < model.BoardSize; row++ {
		for col := 0; col < model.BoardSize; col++ {
			pos := model.Position{Col: col, Row: row}
			id := b.Grid.At(pos)
			if id == "" {
				continue
			}
			live++
			tile, ok := b.Tiles[id]
			s.Require().True(ok, "missing record for %s", id)
			s.Equal(pos, tile.Position)
		}
	}
	s.Len(b.Tiles, live)
	s.Len(b.Order, live)
}

// Merging

func (s *EngineSuite) TestMergePairLeft() {
	result := s.apply(grid{{2, 2, 0, 0}}, model.DirectionLeft)

	s.Equal(grid{{4, 0, 0, 0}}, testutil.ValuesOf(result.Board))
	s.Len(result.Board.Tiles, 1)
	s.Equal([]model.TileID{"t1"}, result.MovedTileIDs)
	s.Equal(4, result.ScoreGained)
	s.True(result.Changed)
	s.assertConsistent(result.Board)
}

func (s *EngineSuite) TestSurvivorIsFirstInTraversalOrder() {
	result := s.apply(grid{{2, 2, 0, 0}}, model.DirectionRight)

	s.Equal(grid{{0, 0, 0, 4}}, testutil.ValuesOf(result.Board))
	s.Equal([]model.TileID{"t2"}, result.MovedTileIDs)
	s.Equal(model.TileID("t2"), result.Board.Grid.At(model.Position{Col: 3, Row: 0}))
}

func (s *EngineSuite) TestNoFalseMerge() {
	result := s.apply(grid{{2, 4, 0, 0}}, model.DirectionLeft)

	s.Equal(grid{{2, 4, 0, 0}}, testutil.ValuesOf(result.Board))
	s.Equal(model.Position{Col: 0, Row: 0}, result.Board.Tiles["t1"].Position)
	s.Equal(model.Position{Col: 1, Row: 0}, result.Board.Tiles["t2"].Position)
	s.False(result.Changed)
	s.Equal(0, result.ScoreGained)
}

func (s *EngineSuite) TestSlideAcrossGaps() {
	result := s.apply(grid{{0, 2, 0, 4}}, model.DirectionLeft)

	s.Equal(grid{{2, 4, 0, 0}}, testutil.ValuesOf(result.Board))
	s.True(result.Changed)
	s.assertConsistent(result.Board)
}

func (s *EngineSuite) TestThreeInARowMergesFirstPair() {
	result := s.apply(grid{{2, 2, 2, 0}}, model.DirectionLeft)
	s.Equal(grid{{4, 2, 0, 0}}, testutil.ValuesOf(result.Board))

	result = s.apply(grid{{2, 2, 2, 0}}, model.DirectionRight)
	s.Equal(grid{{0, 0, 2, 4}}, testutil.ValuesOf(result.Board))
}

func (s *EngineSuite) TestMergedTileDoesNotChain() {
	result := s.apply(grid{{2, 2, 4, 0}}, model.DirectionLeft)

	s.Equal(grid{{4, 4, 0, 0}}, testutil.ValuesOf(result.Board))
	s.Equal(4, result.ScoreGained)
}

func (s *EngineSuite) TestFourEqualMergeIntoTwoPairs() {
	result := s.apply(grid{{2, 2, 2, 2}}, model.DirectionLeft)

	s.Equal(grid{{4, 4, 0, 0}}, testutil.ValuesOf(result.Board))
	s.Equal(8, result.ScoreGained)
	s.Len(result.Board.Tiles, 2)
	s.assertConsistent(result.Board)
}

// Directions

func (s *EngineSuite) TestEachDirection() {
	in := grid{
		{2, 0, 0, 2},
		{0, 4, 0, 0},
		{0, 4, 0, 0},
		{8, 0, 0, 0},
	}

	tests := []struct {
		dir  model.Direction
		want grid
	}{
		{model.DirectionUp, grid{
			{2, 8, 0, 2},
			{8, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}},
		{model.DirectionDown, grid{
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{2, 0, 0, 0},
			{8, 8, 0, 2},
		}},
		{model.DirectionLeft, grid{
			{4, 0, 0, 0},
			{4, 0, 0, 0},
			{4, 0, 0, 0},
			{8, 0, 0, 0},
		}},
		{model.DirectionRight, grid{
			{0, 0, 0, 4},
			{0, 0, 0, 4},
			{0, 0, 0, 4},
			{0, 0, 0, 8},
		}},
	}

	for _, tt := range tests {
		s.Run(string(tt.dir), func() {
			result := s.apply(in, tt.dir)
			s.Equal(tt.want, testutil.ValuesOf(result.Board))
			s.assertConsistent(result.Board)
		})
	}
}

func (s *EngineSuite) TestInvalidDirection() {
	_, err := Apply(model.NewBoard(), model.Direction("sideways"))
	s.ErrorIs(err, model.ErrInvalidDirection)
}

// Properties

func (s *EngineSuite) TestDoesNotMutateInput() {
	board := testutil.BuildBoard(grid{
		{2, 2, 0, 0},
		{0, 0, 4, 4},
	})
	before := board.Clone()

	_, err := Apply(board, model.DirectionLeft)
	s.Require().NoError(err)

	s.Equal(before, board)
}

func (s *EngineSuite) TestDeterministic() {
	board := testutil.BuildBoard(grid{
		{2, 2, 4, 8},
		{0, 4, 4, 0},
		{16, 0, 16, 2},
		{2, 0, 0, 2},
	})
	for _, dir := range model.Directions {
		first, err := Apply(board, dir)
		s.Require().NoError(err)
		second, err := Apply(board, dir)
		s.Require().NoError(err)
		s.Equal(first, second)
	}
}

func (s *EngineSuite) TestSettledBoardIsIdempotent() {
	board := testutil.BuildBoard(grid{
		{2, 2, 4, 8},
		{0, 4, 4, 0},
		{16, 0, 16, 2},
		{2, 0, 0, 2},
	})
	for _, dir := range model.Directions {
		once, err := Apply(board, dir)
		s.Require().NoError(err)

		// a second application may still merge tiles created this move, so
		// settle until nothing changes and then check stability
		settled := once.Board
		for i := 0; i < model.BoardSize; i++ {
			next, err := Apply(settled, dir)
			s.Require().NoError(err)
			settled = next.Board
		}

		again, err := Apply(settled, dir)
		s.Require().NoError(err)
		s.False(again.Changed, string(dir))
		s.Equal(settled.Grid, again.Board.Grid)
	}
}

func (s *EngineSuite) TestEmptyBoardIsNoOp() {
	for _, dir := range model.Directions {
		result, err := Apply(model.NewBoard(), dir)
		s.Require().NoError(err)
		s.False(result.Changed)
		s.Empty(result.MovedTileIDs)
	}
}
