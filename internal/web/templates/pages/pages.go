// Package pages holds the full web pages.
package pages

import (
	"github.com/mcoot/game2048/internal/web/templates/components"
	"github.com/mcoot/game2048/internal/web/templates/layout"
)

// HomeData is the data for the landing page
type HomeData struct {
	layout.PageData
	// ResumeID is the game the visitor last played, if any
	ResumeID string
}

// PlayData is the data for the board page
type PlayData struct {
	layout.PageData
	Game components.GameView
}
