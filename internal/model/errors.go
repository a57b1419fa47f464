package model

import "errors"

// Common errors used across the application
var (
	// Game errors
	ErrGameNotFound     = errors.New("game not found")
	ErrGameOver         = errors.New("game is over")
	ErrInputLocked      = errors.New("input is locked while a suggestion is pending")
	ErrInvalidDirection = errors.New("invalid direction")

	// Board errors
	ErrInvalidPosition = errors.New("invalid board position")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrInvalidBoard    = errors.New("board must be a 4x4 grid of numbers or null")
	ErrInvalidValue    = errors.New("tile value must be a power of two of at least 2")

	// Suggestion errors
	ErrSuggestionsDisabled = errors.New("suggestions are not configured")
)
