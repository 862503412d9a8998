package turn

import (
	"context"
	"log/slog"
	"sync"

	"github.com/scopecreep/projectgame/internal/config"
	"github.com/scopecreep/projectgame/internal/dependencies/clock"
	"github.com/scopecreep/projectgame/internal/dependencies/random"
	"github.com/scopecreep/projectgame/internal/dependencies/scheduler"
	"github.com/scopecreep/projectgame/internal/engine/movement"
	"github.com/scopecreep/projectgame/internal/model"
	"github.com/scopecreep/projectgame/internal/state"
)

// Orchestrator sequences the turn state machine:
// WAITING -> MOVING -> ACTING -> ENDING -> MOVING (next player).
// Every UI intent is validated against the active player and the
// current phase; violations emit an actionDenied notification with a
// reason instead of mutating anything.
type Orchestrator struct {
	store    *state.Store
	movement *movement.Service
	clock    clock.Clock
	random   random.Random
	sched    scheduler.Scheduler
	rules    config.Rules
	logger   *slog.Logger

	// mu guards the pending scheduled tasks. Every scheduled callback
	// re-validates turn number, player, and phase before acting so a
	// stale firing is a no-op even without cancellation.
	mu           sync.Mutex
	settleCancel scheduler.CancelFunc
	autoCancel   scheduler.CancelFunc
}

// New creates a new turn orchestrator
func New(
	store *state.Store,
	movement *movement.Service,
	clock clock.Clock,
	random random.Random,
	sched scheduler.Scheduler,
	rules config.Rules,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:    store,
		movement: movement,
		clock:    clock,
		random:   random,
		sched:    sched,
		rules:    rules,
		logger:   logger.With(slog.String("component", "turn")),
	}
}

// Begin starts the first turn. Only valid while the machine is still
// in WAITING.
func (o *Orchestrator) Begin(ctx context.Context) error {
	session := o.store.Snapshot()
	if session == nil {
		return model.ErrGameNotStarted
	}
	if session.Turn.Phase != model.PhaseWaiting {
		return model.ErrInvalidAction
	}

	return o.startTurn(ctx)
}

// RequestMoves publishes the active player's legal moves
func (o *Orchestrator) RequestMoves(ctx context.Context, playerID model.PlayerID) ([]model.SpaceName, error) {
	session, err := o.validate(playerID, model.ActionMove, model.PhaseMoving)
	if err != nil {
		return nil, err
	}

	return o.publishMoves(ctx, session.FindPlayer(playerID))
}

// Move moves the active player to the chosen destination, completing
// the MOVING phase
func (o *Orchestrator) Move(ctx context.Context, playerID model.PlayerID, destination model.SpaceName) error {
	if _, err := o.validate(playerID, model.ActionMove, model.PhaseMoving); err != nil {
		return err
	}

	o.cancelScheduled()

	if err := o.movement.MovePlayerTo(ctx, playerID, destination); err != nil {
		return err
	}

	return o.completeMovement(ctx, playerID)
}

// RollDice rolls for the active player on a dice-dependent space,
// resolving the outcome through the content dice table and completing
// the MOVING phase
func (o *Orchestrator) RollDice(ctx context.Context, playerID model.PlayerID) (int, model.SpaceName, error) {
	if _, err := o.validate(playerID, model.ActionDice, model.PhaseMoving); err != nil {
		return 0, "", err
	}

	o.cancelScheduled()

	roll := o.random.Intn(6) + 1
	destination, err := o.movement.ResolveDiceMove(ctx, playerID, roll)
	if err != nil {
		return 0, "", err
	}

	if err := o.store.RecordAction(ctx, model.ActionDice); err != nil {
		return 0, "", err
	}
	if err := o.completeMovement(ctx, playerID); err != nil {
		return 0, "", err
	}
	return roll, destination, nil
}

// PlayCard plays a card from the active player's hand during the
// ACTING phase
func (o *Orchestrator) PlayCard(ctx context.Context, playerID model.PlayerID, cardID model.CardID) (string, error) {
	if _, err := o.validate(playerID, model.ActionCard, model.PhaseActing); err != nil {
		return "", err
	}

	message, err := o.store.UsePlayerCard(ctx, playerID, cardID)
	if err != nil {
		return "", err
	}

	if err := o.store.RecordAction(ctx, model.ActionCard); err != nil {
		return "", err
	}

	// Each completed action restarts the settle countdown
	o.scheduleSettle(ctx)
	return message, nil
}

// EndTurn finalizes the active player's turn immediately, without
// waiting for the settle delay
func (o *Orchestrator) EndTurn(ctx context.Context, playerID model.PlayerID) error {
	if _, err := o.validate(playerID, model.ActionEndTurn, model.PhaseActing); err != nil {
		return err
	}

	o.cancelScheduled()
	return o.finalizeTurn(ctx)
}

// completeMovement transitions MOVING -> ACTING after a successful
// move and arms the settle countdown when auto-end is enabled
func (o *Orchestrator) completeMovement(ctx context.Context, playerID model.PlayerID) error {
	// The win monitor may have completed the game on this move
	session := o.store.Snapshot()
	if session == nil || session.Status == model.GameStatusCompleted {
		return nil
	}

	if err := o.store.RecordAction(ctx, model.ActionMove); err != nil {
		return err
	}
	if err := o.store.SetPhase(ctx, model.PhaseActing); err != nil {
		return err
	}

	if o.rules.AutoEndTurn {
		o.scheduleSettle(ctx)
	}
	return nil
}

// startTurn rotates to the next player, enters MOVING, and publishes
// the new player's legal moves
func (o *Orchestrator) startTurn(ctx context.Context) error {
	session, err := o.store.StartNextTurn(ctx)
	if err != nil {
		return err
	}

	player := session.ActivePlayer()
	if player == nil {
		return model.ErrPlayerNotFound
	}
	if _, err := o.publishMoves(ctx, player); err != nil {
		// End of path or missing content rows: the player simply has
		// no moves; acting is still allowed
		o.logger.Warn("no moves available at turn start",
			slog.String("player_id", string(player.ID)),
			slog.String("space", string(player.Position)),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// publishMoves emits the availableMovesUpdated notification and, when
// exactly one destination exists, arms the auto-select delay
func (o *Orchestrator) publishMoves(ctx context.Context, player *model.Player) ([]model.SpaceName, error) {
	moves, err := o.movement.AvailableMoves(player)
	if err != nil {
		return nil, err
	}

	o.store.Emit(model.EventAvailableMovesUpdated, player.ID, model.AvailableMovesPayload{
		PlayerID: player.ID,
		Moves:    moves,
	})

	if len(moves) == 1 {
		o.scheduleAutoSelect(ctx, player.ID, moves[0])
	}
	return moves, nil
}

// scheduleAutoSelect arms the short delay after which a sole
// destination is selected automatically. The callback re-validates
// that the same player is still choosing a move on the same turn.
func (o *Orchestrator) scheduleAutoSelect(ctx context.Context, playerID model.PlayerID, destination model.SpaceName) {
	session := o.store.Snapshot()
	if session == nil {
		return
	}
	turnNumber := session.Turn.Number

	o.mu.Lock()
	if o.autoCancel != nil {
		o.autoCancel()
	}
	o.autoCancel = o.sched.AfterFunc(o.rules.AutoSelectDelay, func() {
		if !o.stillCurrent(playerID, turnNumber, model.PhaseMoving) {
			return
		}
		if err := o.Move(ctx, playerID, destination); err != nil {
			o.logger.Warn("auto-select move failed",
				slog.String("player_id", string(playerID)),
				slog.String("destination", string(destination)),
				slog.String("error", err.Error()),
			)
		}
	})
	o.mu.Unlock()
}

// scheduleSettle arms (or re-arms) the settle delay that finalizes the
// turn. The callback re-validates player, phase, and turn number so a
// stale firing after the player already advanced is a no-op.
func (o *Orchestrator) scheduleSettle(ctx context.Context) {
	session := o.store.Snapshot()
	if session == nil {
		return
	}
	playerID := session.ActivePlayerID
	turnNumber := session.Turn.Number

	o.mu.Lock()
	if o.settleCancel != nil {
		o.settleCancel()
	}
	o.settleCancel = o.sched.AfterFunc(o.rules.TurnSettleDelay, func() {
		if !o.stillCurrent(playerID, turnNumber, model.PhaseActing) {
			return
		}
		if err := o.finalizeTurn(ctx); err != nil {
			o.logger.Error("turn finalization failed",
				slog.String("player_id", string(playerID)),
				slog.String("error", err.Error()),
			)
		}
	})
	o.mu.Unlock()
}

// finalizeTurn closes out the current turn: ENDING, turnEnded with the
// turn's duration and completed actions, then rotation into the next
// player's MOVING phase
func (o *Orchestrator) finalizeTurn(ctx context.Context) error {
	session := o.store.Snapshot()
	if session == nil || session.Status == model.GameStatusCompleted {
		return nil
	}

	if err := o.store.SetPhase(ctx, model.PhaseEnding); err != nil {
		return err
	}

	session = o.store.Snapshot()
	endedTurn := session.Turn
	endedPlayer := session.ActivePlayerID
	nextPlayer := session.NextPlayerID(endedPlayer)

	o.store.Emit(model.EventTurnEnded, endedPlayer, model.TurnEndedPayload{
		TurnNumber:       endedTurn.Number,
		PlayerID:         endedPlayer,
		Duration:         o.clock.Now().Sub(endedTurn.StartedAt),
		CompletedActions: endedTurn.CompletedActions,
		NextPlayerID:     nextPlayer,
	})

	return o.startTurn(ctx)
}

// validate checks an action attempt against the active player and the
// required phase. Violations emit actionDenied and return a sentinel.
func (o *Orchestrator) validate(playerID model.PlayerID, kind model.ActionKind, phase model.TurnPhase) (*model.Session, error) {
	session := o.store.Snapshot()
	if session == nil {
		return nil, model.ErrGameNotStarted
	}
	if session.Status == model.GameStatusCompleted {
		return nil, o.deny(playerID, kind, "game is complete", model.ErrGameComplete)
	}
	if session.Turn.Phase == model.PhaseWaiting {
		return nil, o.deny(playerID, kind, "turn has not started", model.ErrInvalidAction)
	}
	if session.ActivePlayerID != playerID {
		return nil, o.deny(playerID, kind, "not your turn", model.ErrNotPlayerTurn)
	}
	if session.Turn.Phase != phase {
		return nil, o.deny(playerID, kind, "action not allowed in phase "+string(session.Turn.Phase), model.ErrInvalidAction)
	}
	return session, nil
}

// deny emits the actionDenied notification and passes the sentinel
// back for the transport layer
func (o *Orchestrator) deny(playerID model.PlayerID, kind model.ActionKind, reason string, err error) error {
	o.store.Emit(model.EventActionDenied, playerID, model.ActionDeniedPayload{
		PlayerID: playerID,
		Action:   kind,
		Reason:   reason,
	})
	return err
}

// stillCurrent reports whether the scheduled callback's captured state
// still matches reality: same active player, same turn, expected
// phase, game still running
func (o *Orchestrator) stillCurrent(playerID model.PlayerID, turnNumber int, phase model.TurnPhase) bool {
	session := o.store.Snapshot()
	if session == nil || session.Status == model.GameStatusCompleted {
		return false
	}
	return session.ActivePlayerID == playerID &&
		session.Turn.Number == turnNumber &&
		session.Turn.Phase == phase
}

// cancelScheduled stops any pending auto-select or settle task
func (o *Orchestrator) cancelScheduled() {
	o.mu.Lock()
	if o.autoCancel != nil {
		o.autoCancel()
		o.autoCancel = nil
	}
	if o.settleCancel != nil {
		o.settleCancel()
		o.settleCancel = nil
	}
	o.mu.Unlock()
}
