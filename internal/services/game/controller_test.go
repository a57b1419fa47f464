package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/game2048/internal/dependencies/mocks"
	"github.com/mcoot/game2048/internal/dependencies/random"
	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/services/auth"
	"github.com/mcoot/game2048/internal/services/tiles"
	"github.com/mcoot/game2048/internal/storage/memory"
	"github.com/mcoot/game2048/internal/testutil"
)

type grid = [model.BoardSize][model.BoardSize]int

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	suggester  *mocks.MockSuggester
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.suggester = mocks.NewMockSuggester("LEFT", "Merge the twos.")
	s.controller = s.newController(s.suggester)
	s.ctx = context.Background()
}

func (s *ControllerSuite) newController(suggester Suggester) *Controller {
	authService := auth.New(random.New(), auth.Config{Cost: bcrypt.MinCost})
	return NewController(
		s.storage,
		tiles.New(s.random),
		authService,
		suggester,
		s.clock,
		s.random,
		testutil.NopLogger(),
		Config{},
	)
}

// startGame creates a game and replaces its board with the given values
func (s *ControllerSuite) startGame(rows grid) (*model.Game, string) {
	game, token, err := s.controller.StartGame(s.ctx)
	s.Require().NoError(err)

	game.Board = testutil.BuildBoard(rows)
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	return game, token
}

func (s *ControllerSuite) load(id model.GameID) *model.Game {
	game, err := s.storage.GetGame(s.ctx, id)
	s.Require().NoError(err)
	return game
}

// StartGame tests

func (s *ControllerSuite) TestStartGameSucceeds() {
	s.random.QueueString("GAME12345678")

	game, token, err := s.controller.StartGame(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.GameID("GAME12345678"), game.ID)
	s.Equal(model.StatusNew, game.Status)
	s.Equal(0, game.Score)
	s.Equal(0, game.MoveCount)
	s.False(game.Locked)
	s.Nil(game.PreviousGrid)
	s.Equal(s.clock.Now(), game.CreatedAt)
	s.NotEmpty(token)
	s.NotEqual(token, game.PlayTokenHash)

	// No Intn results queued: two tiles at the first empty cells
	s.Equal(grid{{2, 2, 0, 0}}, testutil.ValuesOf(game.Board))
}

func (s *ControllerSuite) TestStartGamePersists() {
	game, _, err := s.controller.StartGame(s.ctx)
	s.Require().NoError(err)

	stored := s.load(game.ID)
	s.Equal(game.Board, stored.Board)
}

func (s *ControllerSuite) TestStartGameSeedsUpToSixteenTiles() {
	s.random.QueueIntn(14)

	game, _, err := s.controller.StartGame(s.ctx)
	s.Require().NoError(err)

	s.True(game.Board.IsFull())
	values := game.Board.Values()
	for _, row := range values {
		for _, cell := range row {
			s.Require().NotNil(cell)
			s.Equal(2.0, *cell)
		}
	}
}

func (s *ControllerSuite) TestStartGameRetriesIDCollision() {
	s.random.QueueString("DUPLICATE000", "DUPLICATE000", "UNIQUE000000")

	first, _, err := s.controller.StartGame(s.ctx)
	s.Require().NoError(err)
	second, _, err := s.controller.StartGame(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.GameID("DUPLICATE000"), first.ID)
	s.Equal(model.GameID("UNIQUE000000"), second.ID)
}

func (s *ControllerSuite) TestAuthorize() {
	game, token, err := s.controller.StartGame(s.ctx)
	s.Require().NoError(err)

	s.NoError(s.controller.Authorize(s.ctx, game.ID, token))
	s.ErrorIs(s.controller.Authorize(s.ctx, game.ID, "pt_wrong"), auth.ErrInvalidToken)
	s.ErrorIs(s.controller.Authorize(s.ctx, "missing", token), model.ErrGameNotFound)
}

// Move tests

func (s *ControllerSuite) TestMoveMergesAndSpawns() {
	game, _ := s.startGame(grid{{2, 2, 0, 0}})
	before := game.Board.Grid

	updated, err := s.controller.Move(s.ctx, game.ID, model.DirectionLeft)
	s.Require().NoError(err)

	// Merged 4 at (0,0); spawn takes the first empty cell with value 2
	s.Equal(grid{{4, 2, 0, 0}}, testutil.ValuesOf(updated.Board))
	s.Equal(model.StatusPlaying, updated.Status)
	s.Equal(4, updated.Score)
	s.Equal(1, updated.MoveCount)
	s.False(updated.Moved)
	s.Require().NotNil(updated.PreviousGrid)
	s.Equal(before, *updated.PreviousGrid)

	s.Equal(updated.Board, s.load(game.ID).Board)
}

func (s *ControllerSuite) TestSpawnUsesRandomValue() {
	game, _ := s.startGame(grid{{0, 2}})
	s.random.QueueIntn(3, 1)

	updated, err := s.controller.Move(s.ctx, game.ID, model.DirectionLeft)
	s.Require().NoError(err)

	// After the slide the empty cells start (1,0),(2,0),(3,0),(0,1)...
	s.Equal(grid{{2, 0, 0, 0}, {4, 0, 0, 0}}, testutil.ValuesOf(updated.Board))
}

func (s *ControllerSuite) TestNoOpMoveStillStartsPlaying() {
	game, _ := s.startGame(grid{{2, 4, 0, 0}})

	updated, err := s.controller.Move(s.ctx, game.ID, model.DirectionUp)
	s.Require().NoError(err)

	s.Equal(model.StatusPlaying, updated.Status)
	s.Equal(1, updated.MoveCount)
	s.Len(updated.Board.Tiles, 2, "no tile spawns after a no-op move")
	s.Equal(grid{{2, 4, 0, 0}}, testutil.ValuesOf(updated.Board))
}

func (s *ControllerSuite) TestMoveWins() {
	game, _ := s.startGame(grid{{1024, 1024, 0, 0}})

	updated, err := s.controller.Move(s.ctx, game.ID, model.DirectionLeft)
	s.Require().NoError(err)

	s.Equal(model.StatusWon, updated.Status)
	s.Equal(2048, updated.Score)

	_, err = s.controller.Move(s.ctx, game.ID, model.DirectionRight)
	s.ErrorIs(err, model.ErrGameOver)
}

func (s *ControllerSuite) TestMoveLoses() {
	game, _ := s.startGame(grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{8, 16, 8, 0},
	})
	// The only empty cell after sliding right is (0,3); spawn a 4 there
	s.random.QueueIntn(0, 1)

	updated, err := s.controller.Move(s.ctx, game.ID, model.DirectionRight)
	s.Require().NoError(err)

	s.Equal(grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 8, 16, 8},
	}, testutil.ValuesOf(updated.Board))
	s.Equal(model.StatusLost, updated.Status)

	_, err = s.controller.Move(s.ctx, game.ID, model.DirectionLeft)
	s.ErrorIs(err, model.ErrGameOver)
}

func (s *ControllerSuite) TestMoveRejectsInvalidDirection() {
	game, _ := s.startGame(grid{{2}})

	_, err := s.controller.Move(s.ctx, game.ID, model.Direction("diagonal"))
	s.ErrorIs(err, model.ErrInvalidDirection)
}

func (s *ControllerSuite) TestMoveUnknownGame() {
	_, err := s.controller.Move(s.ctx, "missing", model.DirectionLeft)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestMoveClearsSuggestion() {
	game, _ := s.startGame(grid{{2, 2}})
	game = s.load(game.ID)
	game.Suggestion = &model.Suggestion{Recommended: "LEFT"}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	updated, err := s.controller.Move(s.ctx, game.ID, model.DirectionLeft)
	s.Require().NoError(err)
	s.Nil(updated.Suggestion)
}

func (s *ControllerSuite) TestConcurrentMovesAreSerialised() {
	game, _ := s.startGame(grid{{2, 4, 8, 16}})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.controller.Move(s.ctx, game.ID, model.DirectionUp)
			s.NoError(err)
		}()
	}
	wg.Wait()

	s.Equal(20, s.load(game.ID).MoveCount)
	s.Equal(0, s.controller.locks.size())
}

// Input lock tests

func (s *ControllerSuite) lockGame(id model.GameID) {
	game := s.load(id)
	game.Locked = true
	game.LockedAt = s.clock.Now()
	game.LockSeq++
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
}

func (s *ControllerSuite) TestLockedGameRejectsMoveAndReset() {
	game, _ := s.startGame(grid{{2, 2}})
	s.lockGame(game.ID)

	_, err := s.controller.Move(s.ctx, game.ID, model.DirectionLeft)
	s.ErrorIs(err, model.ErrInputLocked)

	_, err = s.controller.ResetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrInputLocked)

	s.Equal(0, s.load(game.ID).MoveCount)
}

func (s *ControllerSuite) TestAbandonedLockExpires() {
	game, _ := s.startGame(grid{{2, 2}})
	s.lockGame(game.ID)

	s.clock.Advance(DefaultLockTimeout + time.Second)

	_, err := s.controller.Move(s.ctx, game.ID, model.DirectionLeft)
	s.NoError(err)
}

// RequestSuggestion tests

func (s *ControllerSuite) TestRequestSuggestionStoresResult() {
	game, _ := s.startGame(grid{{2, 2}})

	s.suggester.OnSuggest = func(ctx context.Context) {
		locked := s.load(game.ID)
		s.True(locked.Locked, "lock must be held while the request is outstanding")

		_, err := s.controller.Move(ctx, game.ID, model.DirectionLeft)
		s.ErrorIs(err, model.ErrInputLocked)
	}

	updated, err := s.controller.RequestSuggestion(s.ctx, game.ID)
	s.Require().NoError(err)

	s.False(updated.Locked)
	s.Require().NotNil(updated.Suggestion)
	s.Equal("LEFT", updated.Suggestion.Recommended)
	s.Equal("Merge the twos.", updated.Suggestion.Reasoning)
	s.Equal(0, updated.Suggestion.MoveCount)

	s.Require().Equal(1, s.suggester.CallCount())
	s.Equal(game.Board.Values(), s.suggester.Calls[0])
}

func (s *ControllerSuite) TestRequestSuggestionFailureReleasesLock() {
	game, _ := s.startGame(grid{{2, 2}})
	upstream := errors.New("upstream down")
	s.suggester.Err = upstream

	_, err := s.controller.RequestSuggestion(s.ctx, game.ID)
	s.ErrorIs(err, upstream)

	stored := s.load(game.ID)
	s.False(stored.Locked)
	s.Nil(stored.Suggestion)

	_, err = s.controller.Move(s.ctx, game.ID, model.DirectionLeft)
	s.NoError(err)
}

func (s *ControllerSuite) TestRequestSuggestionWhileLocked() {
	game, _ := s.startGame(grid{{2, 2}})
	s.lockGame(game.ID)

	_, err := s.controller.RequestSuggestion(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrInputLocked)
	s.Equal(0, s.suggester.CallCount())
}

func (s *ControllerSuite) TestRequestSuggestionReleasesLockAfterCancel() {
	game, _ := s.startGame(grid{{2, 2}})
	ctx, cancel := context.WithCancel(s.ctx)
	s.suggester.OnSuggest = func(context.Context) { cancel() }

	_, err := s.controller.RequestSuggestion(ctx, game.ID)
	s.Require().NoError(err)

	s.False(s.load(game.ID).Locked)
}

func (s *ControllerSuite) TestRequestSuggestionDisabled() {
	controller := s.newController(nil)
	game, _ := s.startGame(grid{{2, 2}})

	_, err := controller.RequestSuggestion(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrSuggestionsDisabled)
}

func (s *ControllerSuite) TestRequestSuggestionUnknownGame() {
	_, err := s.controller.RequestSuggestion(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
	s.Equal(0, s.suggester.CallCount())
}

func (s *ControllerSuite) TestExpiredLockCanBeRetaken() {
	game, _ := s.startGame(grid{{2, 2}})
	s.lockGame(game.ID)
	s.clock.Advance(DefaultLockTimeout + time.Second)

	updated, err := s.controller.RequestSuggestion(s.ctx, game.ID)
	s.Require().NoError(err)
	s.False(updated.Locked)
	s.Require().NotNil(updated.Suggestion)
	s.Equal("LEFT", updated.Suggestion.Recommended)
}

func (s *ControllerSuite) TestLateReplyLeavesNewerLockAlone() {
	game, _ := s.startGame(grid{{2, 2}})

	// The first request outlives its lock and a second request takes over
	s.suggester.OnSuggest = func(context.Context) {
		s.clock.Advance(DefaultLockTimeout + time.Second)
		s.lockGame(game.ID)
	}

	updated, err := s.controller.RequestSuggestion(s.ctx, game.ID)
	s.Require().NoError(err)
	s.True(updated.Locked)
	s.Nil(updated.Suggestion)

	stored := s.load(game.ID)
	s.True(stored.Locked, "the second request still holds the lock")
	s.Nil(stored.Suggestion)

	_, err = s.controller.Move(s.ctx, game.ID, model.DirectionLeft)
	s.ErrorIs(err, model.ErrInputLocked)
}

func (s *ControllerSuite) TestLateFailureLeavesNewerLockAlone() {
	game, _ := s.startGame(grid{{2, 2}})
	upstream := errors.New("upstream timed out")
	s.suggester.Err = upstream
	s.suggester.OnSuggest = func(context.Context) {
		s.clock.Advance(DefaultLockTimeout + time.Second)
		s.lockGame(game.ID)
	}

	_, err := s.controller.RequestSuggestion(s.ctx, game.ID)
	s.ErrorIs(err, upstream)
	s.True(s.load(game.ID).Locked)
}

func (s *ControllerSuite) TestLateReplyAfterResetIsDropped() {
	game, _ := s.startGame(grid{{2, 2}})

	s.suggester.OnSuggest = func(ctx context.Context) {
		s.clock.Advance(DefaultLockTimeout + time.Second)
		_, err := s.controller.ResetGame(ctx, game.ID)
		s.Require().NoError(err)
	}

	updated, err := s.controller.RequestSuggestion(s.ctx, game.ID)
	s.Require().NoError(err)
	s.False(updated.Locked)
	s.Nil(updated.Suggestion, "a suggestion for the old board must not survive a reset")
	s.Equal(model.StatusNew, updated.Status)
}

// Reset and delete tests

func (s *ControllerSuite) TestResetGame() {
	game, _ := s.startGame(grid{{1024, 1024}})
	_, err := s.controller.Move(s.ctx, game.ID, model.DirectionLeft)
	s.Require().NoError(err)
	s.Equal(model.StatusWon, s.load(game.ID).Status)

	reset, err := s.controller.ResetGame(s.ctx, game.ID)
	s.Require().NoError(err)

	s.Equal(model.StatusNew, reset.Status)
	s.Equal(0, reset.Score)
	s.Equal(0, reset.MoveCount)
	s.Nil(reset.PreviousGrid)
	s.Nil(reset.Suggestion)
	s.Equal(grid{{2, 2, 0, 0}}, testutil.ValuesOf(reset.Board))

	_, err = s.controller.Move(s.ctx, game.ID, model.DirectionLeft)
	s.NoError(err)
}

func (s *ControllerSuite) TestDeleteGame() {
	game, _ := s.startGame(grid{{2}})

	s.Require().NoError(s.controller.DeleteGame(s.ctx, game.ID))

	_, err := s.controller.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
	s.ErrorIs(s.controller.DeleteGame(s.ctx, game.ID), model.ErrGameNotFound)
}
