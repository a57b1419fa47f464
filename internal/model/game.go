package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the current phase of a game
type GameStatus string

const (
	StatusNew     GameStatus = "new"     // Seeded, no move made yet
	StatusPlaying GameStatus = "playing" // At least one move made
	StatusWon     GameStatus = "won"     // A tile reached WinningValue
	StatusLost    GameStatus = "lost"    // Board full and no direction changes it
)

// IsTerminal returns true for won and lost
func (s GameStatus) IsTerminal() bool {
	return s == StatusWon || s == StatusLost
}

// Suggestion is a recommended move returned by the suggestion service
type Suggestion struct {
	Recommended string `json:"recommended"`
	Reasoning   string `json:"reasoning"`
	// MoveCount is the game's move count when the suggestion was requested
	MoveCount int `json:"move_count,omitempty"`
}

// Game is a single 2048 session
type Game struct {
	ID     GameID
	Status GameStatus
	Board  Board

	// PreviousGrid is the grid immediately before the most recent move
	PreviousGrid *Grid
	// Moved is set by a move and cleared once the post-move step has run
	Moved bool

	Score     int
	MoveCount int

	// Locked is held while a suggestion request is outstanding. LockSeq is
	// bumped on every acquisition and identifies the holder.
	Locked     bool
	LockedAt   time.Time
	LockSeq    int
	Suggestion *Suggestion

	PlayTokenHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	c := *g
	c.Board = g.Board.Clone()
	if g.PreviousGrid != nil {
		prev := *g.PreviousGrid
		c.PreviousGrid = &prev
	}
	if g.Suggestion != nil {
		s := *g.Suggestion
		c.Suggestion = &s
	}
	return &c
}
