package handler

import (
	"net/http"

	"github.com/scopecreep/projectgame/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest   = apierr.CodeInvalidRequest
	CodeContentNotLoaded = apierr.CodeContentNotLoaded
	CodeSpaceNotFound    = apierr.CodeSpaceNotFound
	CodeCardNotFound     = apierr.CodeCardNotFound
	CodeMalformedContent = apierr.CodeMalformedContent
	CodeSessionNotFound  = apierr.CodeSessionNotFound
	CodeNoPlayers        = apierr.CodeNoPlayers
	CodeGameComplete     = apierr.CodeGameComplete
	CodeGameNotStarted   = apierr.CodeGameNotStarted
	CodePlayerNotFound   = apierr.CodePlayerNotFound
	CodeCardNotInHand    = apierr.CodeCardNotInHand
	CodeNotYourTurn      = apierr.CodeNotYourTurn
	CodeInvalidAction    = apierr.CodeInvalidAction
	CodeNoMoveSelected   = apierr.CodeNoMoveSelected
	CodeInvalidMove      = apierr.CodeInvalidMove
	CodeInvalidRoll      = apierr.CodeInvalidRoll
	CodeInternalError    = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
