package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/scopecreep/projectgame/internal/api/sse"
	"github.com/scopecreep/projectgame/internal/config"
	"github.com/scopecreep/projectgame/internal/content"
	"github.com/scopecreep/projectgame/internal/dependencies/clock"
	"github.com/scopecreep/projectgame/internal/dependencies/random"
	"github.com/scopecreep/projectgame/internal/dependencies/scheduler"
	"github.com/scopecreep/projectgame/internal/engine/effects"
	"github.com/scopecreep/projectgame/internal/engine/movement"
	"github.com/scopecreep/projectgame/internal/engine/turn"
	"github.com/scopecreep/projectgame/internal/engine/wincheck"
	"github.com/scopecreep/projectgame/internal/state"
	"github.com/scopecreep/projectgame/internal/storage"
	"github.com/scopecreep/projectgame/internal/storage/memory"
	redisstorage "github.com/scopecreep/projectgame/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Random    random.Random
	Scheduler scheduler.Scheduler

	// Game rules
	Rules config.Rules

	// Components
	ContentService *content.Service
	Store          *state.Store
	EffectsEngine  *effects.Service
	MovementEngine *movement.Service
	Orchestrator   *turn.Orchestrator
	WinMonitor     *wincheck.Monitor
	HubManager     *sse.HubManager
	Broadcaster    *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// RulesPath is the path to the rules YAML file (optional)
	// If empty, built-in defaults are used
	RulesPath string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Load game rules
	rules := config.Default()
	if cfg.RulesPath != "" {
		loaded, err := config.Load(cfg.RulesPath)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()
	sched := scheduler.New()

	return newWithDependencies(store, clk, rnd, sched, rules, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	sched scheduler.Scheduler,
	rules config.Rules,
	logger *slog.Logger,
) *App {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	contentService := content.New(store, logger)
	gameStore := state.NewStore(store, contentService, clk, rnd, rules, logger)

	// The effects engine both serves the store's card plays and is
	// called directly by the movement engine for space effects
	effectsEngine := effects.New(gameStore, logger)
	gameStore.BindEffects(effectsEngine)

	movementEngine := movement.New(contentService, gameStore, effectsEngine, rnd, logger)
	orchestrator := turn.New(gameStore, movementEngine, clk, rnd, sched, rules, logger)

	winMonitor := wincheck.New(gameStore, contentService, rules, logger)
	winMonitor.Start()

	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	broadcaster.Attach(gameStore.Bus())

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Scheduler:      sched,
		Rules:          rules,
		ContentService: contentService,
		Store:          gameStore,
		EffectsEngine:  effectsEngine,
		MovementEngine: movementEngine,
		Orchestrator:   orchestrator,
		WinMonitor:     winMonitor,
		HubManager:     hubManager,
		Broadcaster:    broadcaster,
	}
}
