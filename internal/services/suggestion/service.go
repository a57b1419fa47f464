package suggestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/game2048/internal/model"
)

// Service answers suggestion requests by prompting a chat model.
// It holds no per-request state.
type Service struct {
	model  Model
	logger *slog.Logger
}

// New creates a new suggestion Service
func New(m Model, logger *slog.Logger) *Service {
	return &Service{
		model:  m,
		logger: logger.With(slog.String("component", "suggestion")),
	}
}

// Suggest asks the model for a move for the given board
func (s *Service) Suggest(ctx context.Context, values model.BoardValues) (model.Suggestion, error) {
	if err := values.Validate(); err != nil {
		return model.Suggestion{}, err
	}

	user, err := UserPrompt(values)
	if err != nil {
		return model.Suggestion{}, err
	}

	raw, err := s.model.Complete(ctx, SystemPrompt, user)
	if err != nil {
		s.logger.Error("model call failed", slog.String("error", err.Error()))
		return model.Suggestion{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	suggestion, err := SanitizeAndParse(raw)
	if err != nil {
		s.logger.Error("unparseable model response", slog.String("error", err.Error()), slog.Int("length", len(raw)))
		return model.Suggestion{}, err
	}

	s.logger.Debug("suggestion generated",
		slog.String("recommended", suggestion.Recommended),
		slog.Int("tiles", values.Count()))
	return suggestion, nil
}
