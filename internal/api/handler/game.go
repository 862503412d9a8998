package handler

import (
	"encoding/json"
	"net/http"

	"github.com/scopecreep/projectgame/internal/api/request"
	"github.com/scopecreep/projectgame/internal/api/response"
	"github.com/scopecreep/projectgame/internal/api/sse"
	"github.com/scopecreep/projectgame/internal/engine/movement"
	"github.com/scopecreep/projectgame/internal/engine/turn"
	"github.com/scopecreep/projectgame/internal/model"
	"github.com/scopecreep/projectgame/internal/state"
	"github.com/scopecreep/projectgame/internal/storage"
)

// GameHandler handles game session API requests
type GameHandler struct {
	store        *state.Store
	orchestrator *turn.Orchestrator
	movement     *movement.Service
	storage      storage.Storage
	hubManager   *sse.HubManager
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(
	gameStore *state.Store,
	orchestrator *turn.Orchestrator,
	movementEngine *movement.Service,
	store storage.Storage,
	hubManager *sse.HubManager,
) *GameHandler {
	return &GameHandler{
		store:        gameStore,
		orchestrator: orchestrator,
		movement:     movementEngine,
		storage:      store,
		hubManager:   hubManager,
	}
}

// Create handles POST /games
// Initializes a new session and starts the first turn
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid JSON body"))
		return
	}
	if len(req.PlayerNames) == 0 {
		WriteError(w, NewInvalidRequestError("player_names is required"))
		return
	}

	session, err := h.store.InitializeGame(r.Context(), req.PlayerNames)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Open the SSE hub before the first turn so no notification is lost
	h.hubManager.GetOrCreateHub(session.ID)

	if err := h.orchestrator.Begin(r.Context()); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(h.store.Snapshot()))
}

// Get handles GET /games/current
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := h.store.Snapshot()
	if session == nil {
		WriteError(w, model.ErrGameNotStarted)
		return
	}
	response.JSON(w, http.StatusOK, response.GameFromModel(session))
}

// Delete handles DELETE /games/current
// Abandons the current session
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := h.store.Snapshot()
	if session == nil {
		WriteError(w, model.ErrGameNotStarted)
		return
	}

	if err := h.store.Reset(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	h.hubManager.RemoveHub(session.ID)
	response.NoContent(w)
}

// Moves handles GET /games/current/moves?player_id=...
// Read-only view of a player's legal moves; defaults to the active player
func (h *GameHandler) Moves(w http.ResponseWriter, r *http.Request) {
	session := h.store.Snapshot()
	if session == nil {
		WriteError(w, model.ErrGameNotStarted)
		return
	}

	playerID := model.PlayerID(r.URL.Query().Get("player_id"))
	if playerID == "" {
		playerID = session.ActivePlayerID
	}
	player := session.FindPlayer(playerID)
	if player == nil {
		WriteError(w, model.ErrPlayerNotFound)
		return
	}

	moves, err := h.movement.AvailableMoves(player)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MovesFromModel(playerID, moves))
}

// Move handles POST /games/current/move
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid JSON body"))
		return
	}
	if req.Destination == "" {
		WriteError(w, model.ErrNoMoveSelected)
		return
	}

	err := h.orchestrator.Move(r.Context(), model.PlayerID(req.PlayerID), model.SpaceName(req.Destination))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameFromModel(h.store.Snapshot()))
}

// Roll handles POST /games/current/roll
func (h *GameHandler) Roll(w http.ResponseWriter, r *http.Request) {
	var req request.RollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid JSON body"))
		return
	}

	roll, destination, err := h.orchestrator.RollDice(r.Context(), model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Roll{
		PlayerID:    req.PlayerID,
		Roll:        roll,
		Destination: string(destination),
	})
}

// PlayCard handles POST /games/current/cards/play
func (h *GameHandler) PlayCard(w http.ResponseWriter, r *http.Request) {
	var req request.PlayCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid JSON body"))
		return
	}
	if req.CardID == "" {
		WriteError(w, NewInvalidRequestError("card_id is required"))
		return
	}

	message, err := h.orchestrator.PlayCard(r.Context(), model.PlayerID(req.PlayerID), model.CardID(req.CardID))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.CardPlayed{
		PlayerID: req.PlayerID,
		CardID:   req.CardID,
		Message:  message,
	})
}

// EndTurn handles POST /games/current/end-turn
func (h *GameHandler) EndTurn(w http.ResponseWriter, r *http.Request) {
	var req request.EndTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid JSON body"))
		return
	}

	if err := h.orchestrator.EndTurn(r.Context(), model.PlayerID(req.PlayerID)); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameFromModel(h.store.Snapshot()))
}

// Summaries handles GET /games/summaries
func (h *GameHandler) Summaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.storage.ListGameSummaries(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SummariesFromModel(summaries))
}

// Events handles GET /games/current/events
// Streams session notifications over SSE
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	session := h.store.Snapshot()
	if session == nil {
		WriteError(w, model.ErrGameNotStarted)
		return
	}

	hub := h.hubManager.GetOrCreateHub(session.ID)
	playerID := model.PlayerID(r.URL.Query().Get("player_id"))
	sse.ServeSSE(w, r, hub, playerID)
}
