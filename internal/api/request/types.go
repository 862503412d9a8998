package request

// CreateGameRequest is the request body for creating a game session
type CreateGameRequest struct {
	PlayerNames []string `json:"player_names"`
}

// MoveRequest is the request body for moving to a destination space
type MoveRequest struct {
	PlayerID    string `json:"player_id"`
	Destination string `json:"destination"`
}

// RollRequest is the request body for rolling the dice
type RollRequest struct {
	PlayerID string `json:"player_id"`
}

// PlayCardRequest is the request body for playing a card from hand
type PlayCardRequest struct {
	PlayerID string `json:"player_id"`
	CardID   string `json:"card_id"`
}

// EndTurnRequest is the request body for ending the current turn
type EndTurnRequest struct {
	PlayerID string `json:"player_id"`
}
