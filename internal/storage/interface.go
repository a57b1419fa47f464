package storage

import (
	"context"

	"github.com/mcoot/game2048/internal/model"
)

// Storage defines the interface for game persistence
type Storage interface {
	// SaveGame stores a snapshot of the game; later changes to the passed
	// value are not visible to the store
	SaveGame(ctx context.Context, game *model.Game) error
	// GetGame returns model.ErrGameNotFound for unknown or expired games
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
}
