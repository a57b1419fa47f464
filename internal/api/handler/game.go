package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/game2048/internal/api/middleware"
	"github.com/mcoot/game2048/internal/api/request"
	"github.com/mcoot/game2048/internal/api/response"
	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/services/game"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	controller *game.Controller
	logger     *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(controller *game.Controller, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		controller: controller,
		logger:     logger,
	}
}

func (h *GameHandler) writeGame(w http.ResponseWriter, status int, g *model.Game) {
	response.JSON(w, status, response.GameFromModel(g, h.controller.IsLocked(g)))
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	g, token, err := h.controller.StartGame(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreateGame{
		Game:      response.GameFromModel(g, false),
		PlayToken: token,
	})
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.controller.GetGame(r.Context(), middleware.MustGetGameID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeGame(w, http.StatusOK, g)
}

// Move handles POST /api/v1/games/{id}/move
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	dir, err := model.ParseDirection(req.Direction)
	if err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.controller.Move(r.Context(), middleware.MustGetGameID(r.Context()), dir)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeGame(w, http.StatusOK, g)
}

// Reset handles POST /api/v1/games/{id}/reset
func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	g, err := h.controller.ResetGame(r.Context(), middleware.MustGetGameID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeGame(w, http.StatusOK, g)
}

// Suggest handles POST /api/v1/games/{id}/suggestion
func (h *GameHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	g, err := h.controller.RequestSuggestion(r.Context(), middleware.MustGetGameID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeGame(w, http.StatusOK, g)
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.DeleteGame(r.Context(), middleware.MustGetGameID(r.Context())); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
