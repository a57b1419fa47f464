package model

import "strconv"

const (
	// BoardSize is the dimension of the square grid
	BoardSize = 4
	// WinningValue is the tile value that wins the game
	WinningValue = 2048
)

// TileID uniquely identifies a tile within a game session
type TileID string

// Position identifies a cell on the board
type Position struct {
	Col int // 0-indexed from left
	Row int // 0-indexed from top
}

// IsValid returns true if the position is within bounds
func (p Position) IsValid() bool {
	return p.Col >= 0 && p.Col < BoardSize && p.Row >= 0 && p.Row < BoardSize
}

// Tile is a single numbered square on the board
type Tile struct {
	ID       TileID
	Position Position
	Value    int
}

// Grid is the row-major arrangement of cells: Grid[row][col]. An empty
// TileID means the cell is empty.
type Grid [BoardSize][BoardSize]TileID

// At returns the tile ID at the given position, or "" if empty or out of bounds
func (g Grid) At(pos Position) TileID {
	if !pos.IsValid() {
		return ""
	}
	return g[pos.Row][pos.Col]
}

// Set stores a tile ID at the given position
func (g *Grid) Set(pos Position, id TileID) {
	if pos.IsValid() {
		g[pos.Row][pos.Col] = id
	}
}

// IsEmpty returns true if the cell at the given position is empty
func (g Grid) IsEmpty(pos Position) bool {
	return g.At(pos) == ""
}

// Equal reports whether both grids hold the same identifier in every cell
func (g Grid) Equal(other Grid) bool {
	return g == other
}

// EmptyPositions returns the empty cells in row-major order
func (g Grid) EmptyPositions() []Position {
	var positions []Position
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if g[row][col] == "" {
				positions = append(positions, Position{Col: col, Row: row})
			}
		}
	}
	return positions
}

// IsFull returns true if no cell is empty
func (g Grid) IsFull() bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if g[row][col] == "" {
				return false
			}
		}
	}
	return true
}

// Contains returns true if the identifier occupies any cell
func (g Grid) Contains(id TileID) bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if g[row][col] == id {
				return true
			}
		}
	}
	return false
}

// Board is the canonical game board: the grid of tile identifiers plus the
// records of every live tile.
type Board struct {
	Grid  Grid
	Tiles map[TileID]Tile
	// Order holds live tile IDs in creation order
	Order []TileID
	// Issued counts the tile IDs handed out for this board
	Issued int
}

// NewBoard creates an empty board
func NewBoard() Board {
	return Board{
		Tiles: make(map[TileID]Tile),
	}
}

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	tiles := make(map[TileID]Tile, len(b.Tiles))
	for id, t := range b.Tiles {
		tiles[id] = t
	}
	var order []TileID
	if b.Order != nil {
		order = make([]TileID, len(b.Order))
		copy(order, b.Order)
	}
	return Board{
		Grid:   b.Grid,
		Tiles:  tiles,
		Order:  order,
		Issued: b.Issued,
	}
}

// NextTileID reserves a new identifier that has never been issued on this board
func (b *Board) NextTileID() TileID {
	b.Issued++
	return TileID("t" + strconv.Itoa(b.Issued))
}

// AddTile places a tile record on the board and records it in creation order.
// The caller must ensure the target cell is empty.
func (b *Board) AddTile(t Tile) {
	if b.Tiles == nil {
		b.Tiles = make(map[TileID]Tile)
	}
	b.Grid.Set(t.Position, t.ID)
	b.Tiles[t.ID] = t
	b.Order = append(b.Order, t.ID)
}

// Sanitize drops every tile record not referenced by the grid
func (b *Board) Sanitize() {
	for id := range b.Tiles {
		if !b.Grid.Contains(id) {
			delete(b.Tiles, id)
		}
	}
	live := make([]TileID, 0, len(b.Order))
	for _, id := range b.Order {
		if _, ok := b.Tiles[id]; ok {
			live = append(live, id)
		}
	}
	b.Order = live
}

// TileList returns the live tiles in creation order
func (b Board) TileList() []Tile {
	tiles := make([]Tile, 0, len(b.Order))
	for _, id := range b.Order {
		if t, ok := b.Tiles[id]; ok {
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// TileAt returns the tile occupying the given position
func (b Board) TileAt(pos Position) (Tile, bool) {
	id := b.Grid.At(pos)
	if id == "" {
		return Tile{}, false
	}
	t, ok := b.Tiles[id]
	return t, ok
}

// EmptyPositions returns the empty cells in row-major order
func (b Board) EmptyPositions() []Position {
	return b.Grid.EmptyPositions()
}

// IsFull returns true if every cell holds a tile
func (b Board) IsFull() bool {
	return b.Grid.IsFull()
}

// MaxValue returns the highest tile value on the board
func (b Board) MaxValue() int {
	maxVal := 0
	for _, t := range b.Tiles {
		if t.Value > maxVal {
			maxVal = t.Value
		}
	}
	return maxVal
}

// Values resolves every cell to its tile value (nil when empty)
func (b Board) Values() BoardValues {
	values := make(BoardValues, BoardSize)
	for row := 0; row < BoardSize; row++ {
		values[row] = make([]*float64, BoardSize)
		for col := 0; col < BoardSize; col++ {
			if t, ok := b.TileAt(Position{Col: col, Row: row}); ok {
				v := float64(t.Value)
				values[row][col] = &v
			}
		}
	}
	return values
}

// BoardValues is the row-major value view of a board; nil cells are empty.
// It serialises to (number|null)[][]. Cells are float64 so any JSON number a
// client sends (2.0, 1e3) decodes; tile values always encode as integers.
type BoardValues [][]*float64

// Validate checks the values form a BoardSize x BoardSize grid
func (v BoardValues) Validate() error {
	if len(v) != BoardSize {
		return ErrInvalidBoard
	}
	for _, row := range v {
		if len(row) != BoardSize {
			return ErrInvalidBoard
		}
	}
	return nil
}

// Count returns the number of non-empty cells
func (v BoardValues) Count() int {
	n := 0
	for _, row := range v {
		for _, cell := range row {
			if cell != nil {
				n++
			}
		}
	}
	return n
}
