package sse

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/web/templates/components"
)

// GameUpdateEvent carries a re-rendered #game fragment
const GameUpdateEvent = "game-update"

// Broadcaster pushes game updates to every page watching the game
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// RenderGame renders the game fragment as HTML
func RenderGame(ctx context.Context, view components.GameView) (string, error) {
	var buf bytes.Buffer
	if err := components.Game(view).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BroadcastGame sends the current game state to watchers. Does nothing if
// no page is watching.
func (b *Broadcaster) BroadcastGame(ctx context.Context, view components.GameView) {
	hub := b.hubManager.GetHub(model.GameID(view.ID))
	if hub == nil {
		return
	}

	html, err := RenderGame(ctx, view)
	if err != nil {
		b.logger.Error("sse failed to render game",
			slog.String("game_id", view.ID),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(GameUpdateEvent, html)
}
