package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/services/game"
	"github.com/mcoot/game2048/internal/services/suggestion"
	"github.com/mcoot/game2048/internal/web/middleware"
	"github.com/mcoot/game2048/internal/web/sse"
	"github.com/mcoot/game2048/internal/web/templates/components"
	"github.com/mcoot/game2048/internal/web/templates/layout"
	"github.com/mcoot/game2048/internal/web/templates/pages"
)

// GameHandler handles the play page and its actions
type GameHandler struct {
	gameController *game.Controller
	hubManager     *sse.HubManager
	broadcaster    *sse.Broadcaster
	logger         *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gameController *game.Controller, hubManager *sse.HubManager, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		hubManager:     hubManager,
		broadcaster:    sse.NewBroadcaster(hubManager, logger),
		logger:         logger.With(slog.String("component", "web-game")),
	}
}

func playPath(id model.GameID) string {
	return "/play/" + string(id)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// gameView flattens a game into what the templates render
func (h *GameHandler) gameView(g *model.Game) components.GameView {
	view := components.GameView{
		ID:        string(g.ID),
		Status:    g.Status,
		Score:     g.Score,
		MoveCount: g.MoveCount,
		Locked:    h.gameController.IsLocked(g),
	}
	for _, t := range g.Board.TileList() {
		view.Values[t.Position.Row][t.Position.Col] = t.Value
	}
	if g.Suggestion != nil {
		view.Suggestion = &components.SuggestionView{
			DisplayText: suggestion.DisplayText(g.Suggestion.Recommended),
			Reasoning:   g.Suggestion.Reasoning,
		}
	}
	return view
}

// Start handles POST /play: creates a game and hands its token to this browser
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	g, token, err := h.gameController.StartGame(r.Context())
	if err != nil {
		h.logger.Error("failed to start game", slog.String("error", err.Error()))
		middleware.SetFlash(w, "error", "Could not start a new game")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	middleware.SetPlayToken(w, g.ID, token)
	middleware.SetLastGame(w, g.ID)
	http.Redirect(w, r, playPath(g.ID), http.StatusSeeOther)
}

// View renders the board page
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	gameID := middleware.GetGameID(r.Context())

	g, err := h.gameController.GetGame(r.Context(), gameID)
	if err != nil {
		middleware.SetFlash(w, "error", "Game not found")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := pages.PlayData{
		PageData: layout.PageData{
			Title: "Play",
			Flash: middleware.GetFlash(r.Context()),
		},
		Game: h.gameView(g),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Play(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Key handles POST /play/{id}/key with the KeyboardEvent.code in the "code" field
func (h *GameHandler) Key(w http.ResponseWriter, r *http.Request) {
	gameID := middleware.GetGameID(r.Context())

	if err := r.ParseForm(); err != nil {
		h.fail(w, r, gameID, "Invalid form data")
		return
	}

	g, err := h.gameController.GetGame(r.Context(), gameID)
	if err != nil {
		h.fail(w, r, gameID, "Game not found")
		return
	}

	action, dir := InterpretKey(r.FormValue("code"), g.Status, h.gameController.IsLocked(g))
	switch action {
	case KeyMove:
		g, err = h.gameController.Move(r.Context(), gameID, dir)
	case KeyReset:
		g, err = h.gameController.ResetGame(r.Context(), gameID)
	}
	if err != nil {
		// the lock or the game state may have changed since the read; treat
		// the key as ignored
		if !errors.Is(err, model.ErrInputLocked) && !errors.Is(err, model.ErrGameOver) {
			h.logger.Error("key action failed",
				slog.String("game_id", string(gameID)),
				slog.String("error", err.Error()))
		}
		if g, err = h.gameController.GetGame(r.Context(), gameID); err != nil {
			h.fail(w, r, gameID, "Game not found")
			return
		}
		action = KeyIgnore
	}

	view := h.gameView(g)
	if action != KeyIgnore {
		h.broadcaster.BroadcastGame(r.Context(), view)
	}
	h.respond(w, r, view)
}

// Suggest handles POST /play/{id}/suggest
func (h *GameHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	gameID := middleware.GetGameID(r.Context())

	g, err := h.gameController.RequestSuggestion(r.Context(), gameID)
	if err != nil {
		msg := "Could not get a suggestion, please try again"
		switch {
		case errors.Is(err, model.ErrInputLocked):
			msg = "A suggestion is already on its way"
		case errors.Is(err, model.ErrSuggestionsDisabled):
			msg = "Suggestions are not available"
		}
		h.fail(w, r, gameID, msg)
		return
	}

	view := h.gameView(g)
	h.broadcaster.BroadcastGame(r.Context(), view)
	h.respond(w, r, view)
}

// Events handles GET /play/{id}/events, streaming game updates to the page
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	hub := h.hubManager.GetOrCreateHub(middleware.GetGameID(r.Context()))
	sse.ServeSSE(w, r, hub)
}

// respond renders the game fragment for HTMX requests and redirects back to
// the board otherwise
func (h *GameHandler) respond(w http.ResponseWriter, r *http.Request, view components.GameView) {
	if !isHTMX(r) {
		http.Redirect(w, r, playPath(model.GameID(view.ID)), http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.Game(view).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *GameHandler) fail(w http.ResponseWriter, r *http.Request, gameID model.GameID, msg string) {
	middleware.SetFlash(w, "error", msg)
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", playPath(gameID))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, playPath(gameID), http.StatusSeeOther)
}
