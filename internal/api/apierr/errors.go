package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scopecreep/projectgame/internal/model"
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
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeContentNotLoaded = "CONTENT_NOT_LOADED"
	CodeSpaceNotFound    = "SPACE_NOT_FOUND"
	CodeCardNotFound     = "CARD_NOT_FOUND"
	CodeMalformedContent = "MALFORMED_CONTENT"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeNoPlayers        = "NO_PLAYERS"
	CodeGameComplete     = "GAME_COMPLETE"
	CodeGameNotStarted   = "GAME_NOT_STARTED"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeCardNotInHand    = "CARD_NOT_IN_HAND"
	CodeNotYourTurn      = "NOT_YOUR_TURN"
	CodeInvalidAction    = "INVALID_ACTION"
	CodeNoMoveSelected   = "NO_MOVE_SELECTED"
	CodeInvalidMove      = "INVALID_MOVE"
	CodeInvalidRoll      = "INVALID_ROLL"
	CodeInternalError    = "INTERNAL_ERROR"
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

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrContentNotLoaded):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeContentNotLoaded, "Game content has not been loaded"}}
	case errors.Is(err, model.ErrSpaceNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSpaceNotFound, "Space not found"}}
	case errors.Is(err, model.ErrCardNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCardNotFound, "Card not found"}}
	case errors.Is(err, model.ErrMalformedContent):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeMalformedContent, "Card content is malformed"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrNoPlayers):
		return &httpError{http.StatusBadRequest, APIError{CodeNoPlayers, "At least one player is required"}}
	case errors.Is(err, model.ErrGameComplete):
		return &httpError{http.StatusConflict, APIError{CodeGameComplete, "Game is already complete"}}
	case errors.Is(err, model.ErrGameNotStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameNotStarted, "No game in progress"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrCardNotInHand):
		return &httpError{http.StatusConflict, APIError{CodeCardNotInHand, "Card is not in the player's hand"}}
	case errors.Is(err, model.ErrNotPlayerTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrInvalidAction):
		return &httpError{http.StatusConflict, APIError{CodeInvalidAction, "Action not allowed right now"}}
	case errors.Is(err, model.ErrNoMoveSelected):
		return &httpError{http.StatusBadRequest, APIError{CodeNoMoveSelected, "No move selected"}}
	case errors.Is(err, model.ErrInvalidMove):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidMove, "Destination is not a legal move"}}
	case errors.Is(err, model.ErrInvalidRoll):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRoll, "Roll must be between 1 and 6"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
