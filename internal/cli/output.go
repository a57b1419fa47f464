package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const cellWidth = 6

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintf(o.w, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case GameState:
		o.printGameState(v)
	case CreateResult:
		o.printGameState(v.Game)
		o.printf("Play token saved for game %s\n", v.Game.ID)
	case PromptResult:
		o.printPrompt(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

// GameState response type (matches API)
type GameState struct {
	ID          string           `json:"id"`
	Status      string           `json:"status"`
	Score       int              `json:"score"`
	MoveCount   int              `json:"move_count"`
	Locked      bool             `json:"locked"`
	BoardValues [][]*int         `json:"board_values"`
	LegalMoves  []string         `json:"legal_moves"`
	Suggestion  *SuggestionState `json:"suggestion,omitempty"`
}

// SuggestionState response type
type SuggestionState struct {
	Recommended string `json:"recommended"`
	Reasoning   string `json:"reasoning"`
	DisplayText string `json:"display_text"`
	MoveCount   int    `json:"move_count"`
}

// CreateResult combines a new game and its play token
type CreateResult struct {
	Game      GameState `json:"game"`
	PlayToken string    `json:"play_token"`
}

// PromptResult response type for /prompt
type PromptResult struct {
	Recommended string `json:"recommended"`
	Reasoning   string `json:"reasoning"`
}

// HealthResult response type
type HealthResult struct {
	OK bool `json:"ok"`
}

func (o *Output) printGameState(g GameState) {
	o.printf("Game: %s\n", g.ID)
	o.printf("Status: %s\n", g.Status)
	o.printf("Score: %d\n", g.Score)
	o.printf("Moves: %d\n", g.MoveCount)
	if g.Locked {
		o.printf("Waiting for a suggestion\n")
	}

	o.printf("\n")
	o.printBoard(g.BoardValues)

	switch g.Status {
	case "won":
		o.printf("\nYou reached 2048!\n")
	case "lost":
		o.printf("\nNo moves left.\n")
	default:
		if len(g.LegalMoves) > 0 {
			o.printf("\nLegal moves: %s\n", strings.Join(g.LegalMoves, ", "))
		}
	}

	if g.Suggestion != nil {
		o.printf("\nSuggestion: %s\n", g.Suggestion.DisplayText)
		if g.Suggestion.Reasoning != "" {
			o.printf("  %s\n", g.Suggestion.Reasoning)
		}
	}
}

func (o *Output) printBoard(values [][]*int) {
	if len(values) == 0 {
		return
	}

	border := "+" + strings.Repeat(strings.Repeat("-", cellWidth)+"+", len(values[0])) + "\n"

	o.printf("%s", border)
	for _, row := range values {
		o.printf("|")
		for _, v := range row {
			cell := "."
			if v != nil {
				cell = strconv.Itoa(*v)
			}
			o.printf("%*s |", cellWidth-1, cell)
		}
		o.printf("\n%s", border)
	}
}

func (o *Output) printPrompt(p PromptResult) {
	o.printf("Recommended: %s\n", p.Recommended)
	if p.Reasoning != "" {
		o.printf("Reasoning: %s\n", p.Reasoning)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	status := "ok"
	if !h.OK {
		status = "unhealthy"
	}
	o.printf("Status: %s\n", status)
}
