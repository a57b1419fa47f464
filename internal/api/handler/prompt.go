package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/game2048/internal/api/request"
	"github.com/mcoot/game2048/internal/api/response"
	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/services/suggestion"
)

const (
	maxPromptBody = 100 << 10

	invalidPromptMessage = "Invalid request: body must contain boardValues as a 4x4 array of numbers or null"
	failedPromptMessage  = "Failed to generate prompt response"
)

// Suggester answers a board with a move suggestion
type Suggester interface {
	Suggest(ctx context.Context, values model.BoardValues) (model.Suggestion, error)
}

// PromptHandler serves the stateless suggestion endpoint
type PromptHandler struct {
	suggester Suggester
	logger    *slog.Logger
}

// NewPromptHandler creates a new prompt handler
func NewPromptHandler(suggester Suggester, logger *slog.Logger) *PromptHandler {
	return &PromptHandler{
		suggester: suggester,
		logger:    logger,
	}
}

// Post handles POST /prompt
func (h *PromptHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req request.PromptRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPromptBody)).Decode(&req); err != nil {
		writeSimpleError(w, http.StatusBadRequest, invalidPromptMessage)
		return
	}

	values, err := suggestion.ValidateBoardValues(req.BoardValues)
	if err != nil {
		writeSimpleError(w, http.StatusBadRequest, invalidPromptMessage)
		return
	}

	result, err := h.suggester.Suggest(r.Context(), values)
	if err != nil {
		h.logger.Error("error generating prompt response", slog.String("error", err.Error()))
		writeSimpleError(w, http.StatusInternalServerError, failedPromptMessage)
		return
	}

	response.JSON(w, http.StatusOK, response.Prompt{
		Recommended: result.Recommended,
		Reasoning:   result.Reasoning,
	})
}
