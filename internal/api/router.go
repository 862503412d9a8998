package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/scopecreep/projectgame/internal/api/handler"
	apimiddleware "github.com/scopecreep/projectgame/internal/api/middleware"
	"github.com/scopecreep/projectgame/internal/api/sse"
	"github.com/scopecreep/projectgame/internal/engine/movement"
	"github.com/scopecreep/projectgame/internal/engine/turn"
	"github.com/scopecreep/projectgame/internal/middleware"
	"github.com/scopecreep/projectgame/internal/state"
	"github.com/scopecreep/projectgame/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Store          *state.Store
	Orchestrator   *turn.Orchestrator
	MovementEngine *movement.Service
	Storage        storage.Storage
	HubManager     *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(
		cfg.Store,
		cfg.Orchestrator,
		cfg.MovementEngine,
		cfg.Storage,
		cfg.HubManager,
	)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Game session routes
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games/summaries", gameHandler.Summaries).Methods(http.MethodGet)
	api.HandleFunc("/games/current", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/current", gameHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/games/current/moves", gameHandler.Moves).Methods(http.MethodGet)
	api.HandleFunc("/games/current/move", gameHandler.Move).Methods(http.MethodPost)
	api.HandleFunc("/games/current/roll", gameHandler.Roll).Methods(http.MethodPost)
	api.HandleFunc("/games/current/cards/play", gameHandler.PlayCard).Methods(http.MethodPost)
	api.HandleFunc("/games/current/end-turn", gameHandler.EndTurn).Methods(http.MethodPost)

	// SSE stream
	api.HandleFunc("/games/current/events", gameHandler.Events).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
