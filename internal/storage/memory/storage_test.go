package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/testutil"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func newGame(id model.GameID) *model.Game {
	return &model.Game{
		ID:     id,
		Status: model.StatusNew,
		Board:  testutil.BuildBoard([4][4]int{{2, 0, 0, 2}}),
	}
}

func (s *StorageSuite) TestSaveAndGetGame() {
	game := newGame("game-1")

	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game, retrieved)
	s.Equal(1, s.storage.Count())
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGame() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, newGame("game-1")))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))

	_, err := s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestSavedGameIsIsolatedFromCaller() {
	game := newGame("game-1")
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	game.Score = 100
	game.Board.Grid.Set(model.Position{Col: 2, Row: 2}, "x")

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(0, retrieved.Score)
	s.True(retrieved.Board.Grid.IsEmpty(model.Position{Col: 2, Row: 2}))

	retrieved.Status = model.StatusLost
	again, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.StatusNew, again.Status)
}
