package model

import "errors"

// Common errors used across the application
var (
	// Content repository errors
	ErrContentNotLoaded = errors.New("game content not loaded")
	ErrSpaceNotFound    = errors.New("space not found")
	ErrCardNotFound     = errors.New("card not found")
	ErrMalformedContent = errors.New("content row is missing required fields")

	// Session errors
	ErrSessionNotFound = errors.New("game session not found")
	ErrNoPlayers       = errors.New("at least one player is required")
	ErrGameComplete    = errors.New("game is already complete")
	ErrGameNotStarted  = errors.New("game has not started")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrCardNotInHand  = errors.New("card is not in the player's hand")

	// Turn errors
	ErrNotPlayerTurn  = errors.New("not this player's turn")
	ErrInvalidAction  = errors.New("action not allowed in the current phase")
	ErrNoMoveSelected = errors.New("no destination selected")
	ErrInvalidMove    = errors.New("destination is not a legal move")
	ErrInvalidRoll    = errors.New("dice roll must be between 1 and 6")
)
