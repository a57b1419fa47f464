// Package movement implements the slide-and-merge transformation of a board.
//
// Every direction is the same per-line compaction applied along rows
// (left/right) or columns (up/down), traversed from the edge the tiles move
// towards. Apply never mutates its input.
package movement

import (
	"github.com/mcoot/game2048/internal/model"
)

// Result is the outcome of applying a direction to a board
type Result struct {
	Board model.Board
	// MovedTileIDs lists the surviving tile IDs in traversal order
	MovedTileIDs []model.TileID
	// ScoreGained is the sum of the values produced by merges
	ScoreGained int
	// Changed is true if any cell of the grid differs from the input
	Changed bool
}

// Apply slides and merges every line of the board in the given direction
func Apply(board model.Board, dir model.Direction) (Result, error) {
	if !dir.IsValid() {
		return Result{}, model.ErrInvalidDirection
	}

	next := board.Clone()
	next.Grid = model.Grid{}

	var surviving []model.TileID
	score := 0

	for index := 0; index < model.BoardSize; index++ {
		line := linePositions(dir, index)
		ids, gained := compactLine(board, &next, line)
		surviving = append(surviving, ids...)
		score += gained
	}

	next.Sanitize()

	return Result{
		Board:        next,
		MovedTileIDs: surviving,
		ScoreGained:  score,
		Changed:      !next.Grid.Equal(board.Grid),
	}, nil
}

// compactLine moves the tiles of one line towards line[0], merging equal
// neighbours. A tile produced by a merge cannot merge again in the same move.
func compactLine(src model.Board, dst *model.Board, line [model.BoardSize]model.Position) ([]model.TileID, int) {
	var placed []model.TileID
	var lastID model.TileID
	slot := 0
	score := 0

	for _, pos := range line {
		id := src.Grid.At(pos)
		if id == "" {
			continue
		}
		current := src.Tiles[id]

		if lastID != "" {
			last := dst.Tiles[lastID]
			if last.Value == current.Value {
				last.Value *= 2
				dst.Tiles[lastID] = last

				// The absorbed tile shares the survivor's slot until Sanitize drops it
				current.Position = last.Position
				dst.Tiles[id] = current

				score += last.Value
				lastID = ""
				continue
			}
		}

		target := line[slot]
		dst.Grid.Set(target, id)
		current.Position = target
		dst.Tiles[id] = current
		placed = append(placed, id)
		lastID = id
		slot++
	}

	return placed, score
}

// linePositions returns the cells of a row or column in traversal order,
// starting at the edge the tiles move towards
func linePositions(dir model.Direction, index int) [model.BoardSize]model.Position {
	var line [model.BoardSize]model.Position
	last := model.BoardSize - 1
	for i := 0; i < model.BoardSize; i++ {
		switch dir {
		case model.DirectionUp:
			line[i] = model.Position{Col: index, Row: i}
		case model.DirectionDown:
			line[i] = model.Position{Col: index, Row: last - i}
		case model.DirectionLeft:
			line[i] = model.Position{Col: i, Row: index}
		case model.DirectionRight:
			line[i] = model.Position{Col: last - i, Row: index}
		}
	}
	return line
}
