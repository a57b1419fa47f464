package suggestion

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mcoot/game2048/internal/model"
)

// Recommended moves
const (
	MoveUp      = "UP"
	MoveDown    = "DOWN"
	MoveLeft    = "LEFT"
	MoveRight   = "RIGHT"
	MoveNoMoves = "NO MOVES"
)

var (
	jsonFence  = regexp.MustCompile("```json\\n?")
	plainFence = regexp.MustCompile("```\\n?")
)

// SanitizeAndParse strips optional markdown code fences from a model answer
// and decodes the remaining JSON object
func SanitizeAndParse(raw string) (model.Suggestion, error) {
	sanitized := jsonFence.ReplaceAllString(raw, "")
	sanitized = plainFence.ReplaceAllString(sanitized, "")
	sanitized = strings.TrimSpace(sanitized)

	var s model.Suggestion
	if err := json.Unmarshal([]byte(sanitized), &s); err != nil {
		return model.Suggestion{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return s, nil
}

// ValidateBoardValues decodes a client-submitted board, which must be a 4x4
// array whose cells are numbers or null
func ValidateBoardValues(raw json.RawMessage) (model.BoardValues, error) {
	if len(raw) == 0 {
		return nil, model.ErrInvalidBoard
	}
	var values model.BoardValues
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, model.ErrInvalidBoard
	}
	if err := values.Validate(); err != nil {
		return nil, err
	}
	return values, nil
}

// Direction maps a recommendation onto a move direction. NO MOVES and
// unknown values report false.
func Direction(recommended string) (model.Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(recommended)) {
	case MoveUp:
		return model.DirectionUp, true
	case MoveDown:
		return model.DirectionDown, true
	case MoveLeft:
		return model.DirectionLeft, true
	case MoveRight:
		return model.DirectionRight, true
	default:
		return "", false
	}
}

// DisplayText is the player-facing label for a recommendation
func DisplayText(recommended string) string {
	switch strings.ToUpper(strings.TrimSpace(recommended)) {
	case MoveUp:
		return "⬆️ Move Up!"
	case MoveDown:
		return "⬇️ Move Down!"
	case MoveLeft:
		return "⬅️ Move Left!"
	case MoveRight:
		return "➡️ Move Right!"
	case MoveNoMoves:
		return "☹️ No Moves Available"
	default:
		return recommended
	}
}
