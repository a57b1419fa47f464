// Package components holds the pieces of the play page.
package components

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate -path ..

import (
	"strconv"

	"github.com/mcoot/game2048/internal/model"
)

// SuggestionView is the last suggestion as shown to the player
type SuggestionView struct {
	DisplayText string
	Reasoning   string
}

// GameView is everything the board partial needs
type GameView struct {
	ID         string
	Status     model.GameStatus
	Score      int
	MoveCount  int
	Locked     bool
	Values     [model.BoardSize][model.BoardSize]int
	Suggestion *SuggestionView
}

// InputDisabled reports whether the arrow buttons should be greyed out
func (v GameView) InputDisabled() bool {
	return v.Locked || v.Status.IsTerminal()
}

type controlKey struct {
	code  string
	label string
}

var controlKeys = []controlKey{
	{"ArrowUp", "↑"},
	{"ArrowLeft", "←"},
	{"ArrowDown", "↓"},
	{"ArrowRight", "→"},
}

func keyPath(gameID string) string {
	return "/play/" + gameID + "/key"
}

func suggestPath(gameID string) string {
	return "/play/" + gameID + "/suggest"
}

func eventsPath(gameID string) string {
	return "/play/" + gameID + "/events"
}

func tileClass(value int) string {
	return "tile-" + strconv.Itoa(value)
}

func statusLabel(s model.GameStatus) string {
	switch s {
	case model.StatusNew:
		return "New game"
	case model.StatusPlaying:
		return "Playing"
	case model.StatusWon:
		return "Won"
	case model.StatusLost:
		return "Lost"
	default:
		return string(s)
	}
}
