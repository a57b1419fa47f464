// Package tiles creates tiles on a board: the initial seeding of a game and
// the random spawn that follows every move that changes the grid.
package tiles

import (
	"github.com/mcoot/game2048/internal/dependencies/random"
	"github.com/mcoot/game2048/internal/model"
)

const (
	// MinInitialTiles and MaxInitialTiles bound the seed count, inclusive
	MinInitialTiles = 2
	MaxInitialTiles = 16

	seedValue = 2
)

// Manager places tiles using an injected random source
type Manager struct {
	random random.Random
}

// New creates a new tile manager
func New(rnd random.Random) *Manager {
	return &Manager{random: rnd}
}

// CreateTile returns a copy of the board with a new tile at pos.
// The new tile gets an identifier never issued before on this board.
func (m *Manager) CreateTile(board model.Board, pos model.Position, value int) (model.Board, error) {
	if !pos.IsValid() {
		return board, model.ErrInvalidPosition
	}
	if !board.Grid.IsEmpty(pos) {
		return board, model.ErrCellOccupied
	}
	if !isTileValue(value) {
		return board, model.ErrInvalidValue
	}

	next := board.Clone()
	next.AddTile(model.Tile{
		ID:       next.NextTileID(),
		Position: pos,
		Value:    value,
	})
	return next, nil
}

// SpawnRandomTile places a 2 or a 4, with equal probability, on an empty
// cell chosen uniformly. It returns false and the board unchanged when
// there is no empty cell.
func (m *Manager) SpawnRandomTile(board model.Board) (model.Board, bool) {
	empties := board.EmptyPositions()
	if len(empties) == 0 {
		return board, false
	}

	pos := empties[m.random.Intn(len(empties))]
	value := 2
	if m.random.Intn(2) == 1 {
		value = 4
	}

	next, err := m.CreateTile(board, pos, value)
	if err != nil {
		return board, false
	}
	return next, true
}

// InitialTileCount draws a seed count uniformly from [MinInitialTiles, MaxInitialTiles]
func (m *Manager) InitialTileCount() int {
	return MinInitialTiles + m.random.Intn(MaxInitialTiles-MinInitialTiles+1)
}

// SeedInitialTiles places count tiles of value 2 on distinct empty cells.
// The count is capped by the number of empty cells.
func (m *Manager) SeedInitialTiles(board model.Board, count int) model.Board {
	next := board
	for i := 0; i < count; i++ {
		empties := next.EmptyPositions()
		if len(empties) == 0 {
			break
		}
		pos := empties[m.random.Intn(len(empties))]
		placed, err := m.CreateTile(next, pos, seedValue)
		if err != nil {
			break
		}
		next = placed
	}
	return next
}

// NewSeededBoard creates an empty board and seeds it with a random count of tiles
func (m *Manager) NewSeededBoard() model.Board {
	return m.SeedInitialTiles(model.NewBoard(), m.InitialTileCount())
}

func isTileValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}
