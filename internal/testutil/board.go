package testutil

import (
	"github.com/mcoot/game2048/internal/model"
)

// BuildBoard creates a board from row-major values, 0 meaning an empty cell.
// Tiles are created in row-major order, so IDs run t1, t2, ...
func BuildBoard(rows [model.BoardSize][model.BoardSize]int) model.Board {
	board := model.NewBoard()
	for row := 0; row < model.BoardSize; row++ {
		for col := 0; col < model.BoardSize; col++ {
			if rows[row][col] == 0 {
				continue
			}
			board.AddTile(model.Tile{
				ID:       board.NextTileID(),
				Position: model.Position{Col: col, Row: row},
				Value:    rows[row][col],
			})
		}
	}
	return board
}

// ValuesOf resolves a board to row-major values, 0 meaning an empty cell
func ValuesOf(board model.Board) [model.BoardSize][model.BoardSize]int {
	var out [model.BoardSize][model.BoardSize]int
	for row := 0; row < model.BoardSize; row++ {
		for col := 0; col < model.BoardSize; col++ {
			if t, ok := board.TileAt(model.Position{Col: col, Row: row}); ok {
				out[row][col] = t.Value
			}
		}
	}
	return out
}

// ValuePtr returns a pointer to v, for building BoardValues literals
func ValuePtr(v float64) *float64 {
	return &v
}
