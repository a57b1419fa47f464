package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/services/auth"
	"github.com/mcoot/game2048/internal/services/suggestion"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidDirection    = "INVALID_DIRECTION"
	CodeInvalidBoard        = "INVALID_BOARD"
	CodeInvalidPosition     = "INVALID_POSITION"
	CodeInvalidValue        = "INVALID_VALUE"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeGameOver            = "GAME_OVER"
	CodeInputLocked         = "INPUT_LOCKED"
	CodeCellOccupied        = "CELL_OCCUPIED"
	CodeSuggestionsDisabled = "SUGGESTIONS_DISABLED"
	CodeSuggestionFailed    = "SUGGESTION_FAILED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Game errors
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrGameOver):
		return &httpError{http.StatusConflict, APIError{CodeGameOver, "Game is over; reset to play again"}}
	case errors.Is(err, model.ErrInputLocked):
		return &httpError{http.StatusConflict, APIError{CodeInputLocked, "Input is locked while a suggestion is pending"}}
	case errors.Is(err, model.ErrInvalidDirection):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDirection, "Direction must be one of up, down, left, right"}}

	// Board errors
	case errors.Is(err, model.ErrInvalidBoard):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidBoard, "Board must be a 4x4 array of numbers or null"}}
	case errors.Is(err, model.ErrInvalidPosition):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPosition, "Invalid board position"}}
	case errors.Is(err, model.ErrInvalidValue):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidValue, "Tile value must be a power of two of at least 2"}}
	case errors.Is(err, model.ErrCellOccupied):
		return &httpError{http.StatusConflict, APIError{CodeCellOccupied, "Cell is already occupied"}}

	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or missing play token"}}

	// Suggestion errors
	case errors.Is(err, model.ErrSuggestionsDisabled):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeSuggestionsDisabled, "Suggestions are not configured"}}
	case errors.Is(err, suggestion.ErrUpstream),
		errors.Is(err, suggestion.ErrMalformedResponse),
		errors.Is(err, suggestion.ErrRemote),
		errors.Is(err, suggestion.ErrMissingAPIKey):
		return &httpError{http.StatusBadGateway, APIError{CodeSuggestionFailed, "Failed to generate a suggestion"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Play token required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
