// Package outcome decides whether a board is won, lost or still in play.
package outcome

import (
	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/services/movement"
)

// HasAnyLegalMove reports whether some direction changes the grid.
// The board is only ever applied speculatively; it is never modified.
func HasAnyLegalMove(board model.Board) bool {
	for _, dir := range model.Directions {
		result, err := movement.Apply(board, dir)
		if err != nil {
			continue
		}
		if !result.Board.Grid.Equal(board.Grid) {
			return true
		}
	}
	return false
}

// LegalMoves returns every direction that changes the grid
func LegalMoves(board model.Board) []model.Direction {
	var moves []model.Direction
	for _, dir := range model.Directions {
		result, err := movement.Apply(board, dir)
		if err == nil && result.Changed {
			moves = append(moves, dir)
		}
	}
	return moves
}

// HasWinningTile reports whether any live tile has reached the winning value
func HasWinningTile(board model.Board) bool {
	return board.MaxValue() >= model.WinningValue
}

// Evaluate returns the status a board in play should move to after a move:
// won if a winning tile exists, lost if the board is full with no legal
// move, otherwise playing
func Evaluate(board model.Board) model.GameStatus {
	if HasWinningTile(board) {
		return model.StatusWon
	}
	if board.IsFull() && !HasAnyLegalMove(board) {
		return model.StatusLost
	}
	return model.StatusPlaying
}
