package handler

import (
	"net/http"

	"github.com/mcoot/game2048/internal/api/apierr"
	"github.com/mcoot/game2048/internal/api/response"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// writeSimpleError writes the flat {"error": "..."} shape used by /prompt
func writeSimpleError(w http.ResponseWriter, status int, message string) {
	response.JSON(w, status, response.SimpleError{Error: message})
}
