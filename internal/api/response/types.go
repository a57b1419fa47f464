package response

import (
	"time"

	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/services/outcome"
	"github.com/mcoot/game2048/internal/services/suggestion"
)

// Health is the body of GET /health
type Health struct {
	OK bool `json:"ok"`
}

// SimpleError is the flat error body used by /prompt
type SimpleError struct {
	Error string `json:"error"`
}

// Prompt is the body of a successful POST /prompt
type Prompt struct {
	Recommended string `json:"recommended"`
	Reasoning   string `json:"reasoning"`
}

// Tile represents a tile in API responses
type Tile struct {
	ID    string `json:"id"`
	Col   int    `json:"col"`
	Row   int    `json:"row"`
	Value int    `json:"value"`
}

// Suggestion represents the stored move suggestion
type Suggestion struct {
	Recommended string `json:"recommended"`
	Reasoning   string `json:"reasoning"`
	DisplayText string `json:"display_text"`
	MoveCount   int    `json:"move_count"`
}

// Game represents a game in API responses
type Game struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	Score       int               `json:"score"`
	MoveCount   int               `json:"move_count"`
	Locked      bool              `json:"locked"`
	Tiles       []Tile            `json:"tiles"`
	BoardValues model.BoardValues `json:"board_values"`
	LegalMoves  []string          `json:"legal_moves"`
	Suggestion  *Suggestion       `json:"suggestion,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// GameFromModel converts a model.Game. locked is passed in because an
// abandoned lock expires on read.
func GameFromModel(g *model.Game, locked bool) Game {
	tiles := make([]Tile, 0, len(g.Board.Order))
	for _, t := range g.Board.TileList() {
		tiles = append(tiles, Tile{
			ID:    string(t.ID),
			Col:   t.Position.Col,
			Row:   t.Position.Row,
			Value: t.Value,
		})
	}

	legal := []string{}
	if !g.Status.IsTerminal() {
		for _, d := range outcome.LegalMoves(g.Board) {
			legal = append(legal, string(d))
		}
	}

	resp := Game{
		ID:          string(g.ID),
		Status:      string(g.Status),
		Score:       g.Score,
		MoveCount:   g.MoveCount,
		Locked:      locked,
		Tiles:       tiles,
		BoardValues: g.Board.Values(),
		LegalMoves:  legal,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}

	if g.Suggestion != nil {
		resp.Suggestion = &Suggestion{
			Recommended: g.Suggestion.Recommended,
			Reasoning:   g.Suggestion.Reasoning,
			DisplayText: suggestion.DisplayText(g.Suggestion.Recommended),
			MoveCount:   g.Suggestion.MoveCount,
		}
	}

	return resp
}

// CreateGame is the response for POST /api/v1/games. The play token is
// only ever returned here.
type CreateGame struct {
	Game      Game   `json:"game"`
	PlayToken string `json:"play_token"`
}
