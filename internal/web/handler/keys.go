package handler

import "github.com/mcoot/game2048/internal/model"

// KeyAction is what a key press asks the game to do
type KeyAction int

const (
	KeyIgnore KeyAction = iota
	KeyMove
	KeyReset
)

var keyDirections = map[string]model.Direction{
	"ArrowUp":    model.DirectionUp,
	"KeyW":       model.DirectionUp,
	"ArrowDown":  model.DirectionDown,
	"KeyS":       model.DirectionDown,
	"ArrowLeft":  model.DirectionLeft,
	"KeyA":       model.DirectionLeft,
	"ArrowRight": model.DirectionRight,
	"KeyD":       model.DirectionRight,
}

// InterpretKey maps a KeyboardEvent.code onto a game action.
// Nothing happens while a suggestion holds the lock. Space and Enter only
// restart a finished game, and movement keys only act while it is in progress.
func InterpretKey(code string, status model.GameStatus, locked bool) (KeyAction, model.Direction) {
	if locked {
		return KeyIgnore, ""
	}

	if code == "Space" || code == "Enter" {
		if status.IsTerminal() {
			return KeyReset, ""
		}
		return KeyIgnore, ""
	}

	dir, ok := keyDirections[code]
	if !ok || status.IsTerminal() {
		return KeyIgnore, ""
	}
	return KeyMove, dir
}
