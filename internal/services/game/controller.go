// Package game runs the 2048 state machine for individual game sessions.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/game2048/internal/dependencies/clock"
	"github.com/mcoot/game2048/internal/dependencies/random"
	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/services/auth"
	"github.com/mcoot/game2048/internal/services/movement"
	"github.com/mcoot/game2048/internal/services/outcome"
	"github.com/mcoot/game2048/internal/services/tiles"
	"github.com/mcoot/game2048/internal/storage"
)

const (
	gameIDLength   = 12
	gameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	gameIDAttempts = 5

	// DefaultLockTimeout bounds how long an abandoned suggestion request can
	// hold a game's input lock
	DefaultLockTimeout = 2 * time.Minute
)

// errLockLost means the lock expired and was cleared or retaken while a
// suggestion request was outstanding
var errLockLost = errors.New("suggestion lock lost")

// Suggester produces a move suggestion for a board
type Suggester interface {
	Suggest(ctx context.Context, values model.BoardValues) (model.Suggestion, error)
}

// Config holds controller settings
type Config struct {
	LockTimeout time.Duration
}

// Controller manages the game state machine: start, move, reset and the
// input lock held while a suggestion is outstanding
type Controller struct {
	storage   storage.Storage
	tiles     *tiles.Manager
	auth      *auth.Service
	suggester Suggester
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger

	locks       *gameLocks
	lockTimeout time.Duration
}

// NewController creates a new game Controller. suggester may be nil, in
// which case suggestion requests fail with model.ErrSuggestionsDisabled.
func NewController(
	storage storage.Storage,
	tileManager *tiles.Manager,
	authService *auth.Service,
	suggester Suggester,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = DefaultLockTimeout
	}
	return &Controller{
		storage:     storage,
		tiles:       tileManager,
		auth:        authService,
		suggester:   suggester,
		clock:       clock,
		random:      random,
		logger:      logger.With(slog.String("component", "game")),
		locks:       newGameLocks(),
		lockTimeout: cfg.LockTimeout,
	}
}

// StartGame creates and seeds a new game. The returned play token is the
// only copy; the game stores its hash.
func (c *Controller) StartGame(ctx context.Context) (*model.Game, string, error) {
	gameID, err := c.newGameID(ctx)
	if err != nil {
		return nil, "", err
	}

	token, hash, err := c.auth.IssueToken()
	if err != nil {
		return nil, "", err
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:            gameID,
		Status:        model.StatusNew,
		Board:         c.tiles.NewSeededBoard(),
		PlayTokenHash: hash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, "", err
	}

	c.logger.Info("game started",
		slog.String("game_id", string(gameID)),
		slog.Int("tile_count", len(game.Board.Tiles)),
	)

	return game, token, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// Authorize checks a play token against the game's stored hash
func (c *Controller) Authorize(ctx context.Context, gameID model.GameID, token string) error {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	return c.auth.Verify(game.PlayTokenHash, token)
}

// ResetGame replaces the board with a freshly seeded one and returns the
// game to new. It is refused while a suggestion is outstanding.
func (c *Controller) ResetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	game, err := c.update(ctx, gameID, func(game *model.Game) error {
		if c.isLocked(game) {
			return model.ErrInputLocked
		}

		// An expired lock goes with the old board
		game.Locked = false
		game.LockedAt = time.Time{}

		game.Status = model.StatusNew
		game.Board = c.tiles.NewSeededBoard()
		game.PreviousGrid = nil
		game.Moved = false
		game.Score = 0
		game.MoveCount = 0
		game.Suggestion = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("game reset",
		slog.String("game_id", string(gameID)),
		slog.Int("tile_count", len(game.Board.Tiles)),
	)
	return game, nil
}

// Move slides the board in the given direction. A move that changes
// nothing still counts: the game becomes playing, but no tile spawns.
func (c *Controller) Move(ctx context.Context, gameID model.GameID, dir model.Direction) (*model.Game, error) {
	if !dir.IsValid() {
		return nil, model.ErrInvalidDirection
	}

	return c.update(ctx, gameID, func(game *model.Game) error {
		if game.Status.IsTerminal() {
			return model.ErrGameOver
		}
		if c.isLocked(game) {
			return model.ErrInputLocked
		}

		result, err := movement.Apply(game.Board, dir)
		if err != nil {
			return err
		}

		previous := game.Board.Grid
		game.PreviousGrid = &previous
		game.Board = result.Board
		game.Score += result.ScoreGained
		game.Status = model.StatusPlaying
		game.MoveCount++
		game.Moved = true
		game.Suggestion = nil

		c.reconcile(game)

		c.logger.Debug("move applied",
			slog.String("game_id", string(game.ID)),
			slog.String("direction", string(dir)),
			slog.Bool("changed", result.Changed),
			slog.Int("score", game.Score),
			slog.String("status", string(game.Status)),
		)
		return nil
	})
}

// reconcile is the post-move step: spawn a tile if the grid changed, then
// settle won or lost
func (c *Controller) reconcile(game *model.Game) {
	if !game.Moved {
		return
	}

	if game.PreviousGrid != nil && !game.Board.Grid.Equal(*game.PreviousGrid) {
		game.Board, _ = c.tiles.SpawnRandomTile(game.Board)
	}

	if outcome.HasWinningTile(game.Board) {
		game.Status = model.StatusWon
	} else if game.Board.IsFull() && !outcome.HasAnyLegalMove(game.Board) {
		game.Status = model.StatusLost
	}

	if game.Status.IsTerminal() {
		c.logger.Info("game finished",
			slog.String("game_id", string(game.ID)),
			slog.String("status", string(game.Status)),
			slog.Int("score", game.Score),
			slog.Int("move_count", game.MoveCount),
		)
	}

	game.Moved = false
}

// RequestSuggestion takes the input lock, asks the suggester about the
// current board and releases the lock whatever the outcome. The suggestion
// is stored only if no move happened in between. A request that outlives
// the lock timeout no longer owns the lock: it neither releases it nor
// stores its result.
func (c *Controller) RequestSuggestion(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	if c.suggester == nil {
		return nil, model.ErrSuggestionsDisabled
	}

	var values model.BoardValues
	var moveCount, lockSeq int
	_, err := c.update(ctx, gameID, func(game *model.Game) error {
		if c.isLocked(game) {
			return model.ErrInputLocked
		}
		game.Locked = true
		game.LockedAt = c.clock.Now()
		game.LockSeq++
		lockSeq = game.LockSeq
		values = game.Board.Values()
		moveCount = game.MoveCount
		return nil
	})
	if err != nil {
		return nil, err
	}

	suggestion, suggestErr := c.suggester.Suggest(ctx, values)

	// The lock must be released even if the caller has gone away
	releaseCtx := context.WithoutCancel(ctx)
	game, err := c.update(releaseCtx, gameID, func(game *model.Game) error {
		if !game.Locked || game.LockSeq != lockSeq {
			return errLockLost
		}
		game.Locked = false
		game.LockedAt = time.Time{}
		if suggestErr == nil && game.MoveCount == moveCount {
			s := suggestion
			s.MoveCount = moveCount
			game.Suggestion = &s
		}
		return nil
	})
	if errors.Is(err, errLockLost) {
		c.logger.Warn("suggestion lock expired before the reply arrived",
			slog.String("game_id", string(gameID)),
		)
		if suggestErr != nil {
			return nil, fmt.Errorf("requesting suggestion: %w", suggestErr)
		}
		return c.storage.GetGame(releaseCtx, gameID)
	}
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) && suggestErr != nil {
			return nil, suggestErr
		}
		return nil, err
	}

	if suggestErr != nil {
		c.logger.Warn("suggestion failed",
			slog.String("game_id", string(gameID)),
			slog.String("error", suggestErr.Error()),
		)
		return nil, fmt.Errorf("requesting suggestion: %w", suggestErr)
	}

	c.logger.Info("suggestion received",
		slog.String("game_id", string(gameID)),
		slog.String("recommended", suggestion.Recommended),
	)
	return game, nil
}

// DeleteGame removes a game
func (c *Controller) DeleteGame(ctx context.Context, gameID model.GameID) error {
	unlock := c.locks.lock(gameID)
	defer unlock()

	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		return err
	}
	if err := c.storage.DeleteGame(ctx, gameID); err != nil {
		return err
	}

	c.logger.Info("game deleted", slog.String("game_id", string(gameID)))
	return nil
}

// update loads a game under its mutex, applies fn and saves the result.
// Nothing is saved if fn fails.
func (c *Controller) update(ctx context.Context, gameID model.GameID, fn func(*model.Game) error) (*model.Game, error) {
	unlock := c.locks.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err := fn(game); err != nil {
		return nil, err
	}

	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return game, nil
}

// isLocked reports whether a suggestion request holds the input lock.
// A lock older than the timeout is treated as released.
func (c *Controller) isLocked(game *model.Game) bool {
	if !game.Locked {
		return false
	}
	return c.clock.Now().Sub(game.LockedAt) < c.lockTimeout
}

// IsLocked is the exported form of isLocked for presentation layers
func (c *Controller) IsLocked(game *model.Game) bool {
	return c.isLocked(game)
}

func (c *Controller) newGameID(ctx context.Context) (model.GameID, error) {
	for i := 0; i < gameIDAttempts; i++ {
		id := model.GameID(c.random.String(gameIDLength, gameIDAlphabet))
		_, err := c.storage.GetGame(ctx, id)
		if errors.Is(err, model.ErrGameNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("could not allocate a unique game id")
}
