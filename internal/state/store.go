package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/scopecreep/projectgame/internal/config"
	"github.com/scopecreep/projectgame/internal/content"
	"github.com/scopecreep/projectgame/internal/dependencies/clock"
	"github.com/scopecreep/projectgame/internal/dependencies/random"
	"github.com/scopecreep/projectgame/internal/model"
	"github.com/scopecreep/projectgame/internal/storage"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CardEffectApplier interprets a card's rules and applies the
// resulting state changes back through the store's mutation
// operations. Implemented by the effects engine; bound after
// construction to break the circular dependency.
type CardEffectApplier interface {
	ApplyCard(ctx context.Context, playerID model.PlayerID, card *model.Card) (string, error)
}

// Store is the game state store: it owns the authoritative session
// state and every mutation entry point. Each mutation produces a new
// player record and a new player slice (structural sharing elsewhere)
// so consumers can detect change by reference inequality, persists the
// session, and notifies subscribers synchronously before returning.
// No other component holds a mutable reference to player data.
type Store struct {
	storage storage.Storage
	content content.ServiceInterface
	clock   clock.Clock
	random  random.Random
	rules   config.Rules
	logger  *slog.Logger
	bus     *Bus

	effects CardEffectApplier

	// mu serializes mutations. Events are emitted after release, so
	// handlers may issue follow-up mutations without deadlocking.
	mu      sync.Mutex
	session *model.Session
}

// NewStore creates a new game state store
func NewStore(
	storage storage.Storage,
	content content.ServiceInterface,
	clock clock.Clock,
	random random.Random,
	rules config.Rules,
	logger *slog.Logger,
) *Store {
	return &Store{
		storage: storage,
		content: content,
		clock:   clock,
		random:  random,
		rules:   rules,
		logger:  logger.With(slog.String("component", "state")),
		bus:     NewBus(logger),
	}
}

// BindEffects attaches the effects engine. Must be called before
// UsePlayerCard is used; done once during wiring.
func (s *Store) BindEffects(effects CardEffectApplier) {
	s.effects = effects
}

// Bus returns the store's event bus for subscription and for
// orchestration-level notifications (turn lifecycle, denials)
func (s *Store) Bus() *Bus {
	return s.bus
}

// Snapshot returns the current immutable session snapshot, or nil if
// no game has been initialized. Callers must not mutate it.
func (s *Store) Snapshot() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// SessionID returns the current session's ID, or empty if none
func (s *Store) SessionID() model.SessionID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.ID
}

// InitializeGame creates a fresh session: one player per name, each
// with a unique identifier, positioned at the start space with a
// first-visit marker, and the game set in progress
func (s *Store) InitializeGame(ctx context.Context, playerNames []string) (*model.Session, error) {
	if len(playerNames) == 0 {
		return nil, model.ErrNoPlayers
	}

	startSpace, err := s.content.StartSpace()
	if err != nil {
		return nil, s.fail("initialize_game", err)
	}

	now := s.clock.Now()
	session := &model.Session{
		ID:          model.SessionID(s.random.String(12, idAlphabet)),
		Status:      model.GameStatusInProgress,
		TurnCounter: 0,
		Turn: model.TurnState{
			Phase: model.PhaseWaiting,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	for i, name := range playerNames {
		player := &model.Player{
			ID:            model.PlayerID(s.random.String(12, idAlphabet)),
			DisplayName:   name,
			Color:         pick(s.rules.Colors, i),
			Avatar:        pick(s.rules.Avatars, i),
			Position:      startSpace,
			Visit:         model.VisitFirst,
			Money:         s.rules.StartingMoney,
			Hand:          make(map[model.CardType][]model.CardID),
			VisitedSpaces: map[model.SpaceName]bool{startSpace: true},
		}
		session.Players = append(session.Players, player)
	}

	s.mu.Lock()
	if err := s.storage.SaveSession(ctx, session); err != nil {
		s.mu.Unlock()
		return nil, s.fail("initialize_game", err)
	}
	s.session = session
	s.mu.Unlock()

	s.logger.Info("game initialized",
		slog.String("session_id", string(session.ID)),
		slog.Int("player_count", len(session.Players)),
		slog.String("start_space", string(startSpace)),
	)

	return session, nil
}

// Reset tears down the current session. A new game starts with a
// fresh InitializeGame call.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	if err := s.storage.DeleteSession(ctx, s.session.ID); err != nil {
		return s.fail("reset", err)
	}
	s.session = nil
	return nil
}

// MovePlayer updates a player's board position and visit type
func (s *Store) MovePlayer(ctx context.Context, id model.PlayerID, space model.SpaceName, visit model.VisitType) error {
	var from model.SpaceName
	session, err := s.mutatePlayer(ctx, "move_player", id, func(p *model.Player) error {
		from = p.Position
		p.Position = space
		p.Visit = visit
		p.VisitedSpaces[space] = true
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(session, model.EventPlayerMoved, id, model.PlayerMovedPayload{
		PlayerID: id,
		From:     from,
		To:       space,
		Visit:    visit,
	})
	return nil
}

// UpdatePlayerScope appends a work commitment to the player's scope
// and recomputes the derived total cost
func (s *Store) UpdatePlayerScope(ctx context.Context, id model.PlayerID, item model.ScopeItem) error {
	var total int
	session, err := s.mutatePlayer(ctx, "update_player_scope", id, func(p *model.Player) error {
		p.Scope = append(p.Scope, item)
		p.ScopeTotalCost += item.Cost
		total = p.ScopeTotalCost
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(session, model.EventScopeChanged, id, model.ScopeChangedPayload{
		PlayerID:       id,
		Item:           item,
		ScopeTotalCost: total,
	})
	return nil
}

// AddCardsToPlayer adds catalog cards to the player's hand, grouped by
// category
func (s *Store) AddCardsToPlayer(ctx context.Context, id model.PlayerID, cardIDs []model.CardID) error {
	if len(cardIDs) == 0 {
		return nil
	}

	// Resolve categories up front so a bad ID fails before any mutation
	types := make(map[model.CardID]model.CardType, len(cardIDs))
	for _, cardID := range cardIDs {
		card, err := s.content.FindCard(cardID)
		if err != nil {
			return s.fail("add_cards_to_player", err)
		}
		types[cardID] = card.Type
	}

	var handSize int
	session, err := s.mutatePlayer(ctx, "add_cards_to_player", id, func(p *model.Player) error {
		for _, cardID := range cardIDs {
			t := types[cardID]
			p.Hand[t] = append(p.Hand[t], cardID)
		}
		handSize = p.HandSize()
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(session, model.EventCardsChanged, id, model.CardsChangedPayload{
		PlayerID: id,
		Added:    cardIDs,
		HandSize: handSize,
	})
	return nil
}

// RemoveCardFromHand removes one matching card from the player's hand
func (s *Store) RemoveCardFromHand(ctx context.Context, id model.PlayerID, cardID model.CardID) error {
	var handSize int
	session, err := s.mutatePlayer(ctx, "remove_card_from_hand", id, func(p *model.Player) error {
		for t, ids := range p.Hand {
			for i, held := range ids {
				if held == cardID {
					p.Hand[t] = append(ids[:i:i], ids[i+1:]...)
					handSize = p.HandSize()
					return nil
				}
			}
		}
		return model.ErrCardNotInHand
	})
	if err != nil {
		return err
	}

	s.emit(session, model.EventCardsChanged, id, model.CardsChangedPayload{
		PlayerID: id,
		Removed:  []model.CardID{cardID},
		HandSize: handSize,
	})
	return nil
}

// ApplyMoneyDelta adjusts the player's money balance
func (s *Store) ApplyMoneyDelta(ctx context.Context, id model.PlayerID, delta int) error {
	var balance int
	session, err := s.mutatePlayer(ctx, "apply_money_delta", id, func(p *model.Player) error {
		p.Money += delta
		balance = p.Money
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(session, model.EventMoneyChanged, id, model.MoneyChangedPayload{
		PlayerID: id,
		Delta:    delta,
		Balance:  balance,
	})
	return nil
}

// ApplyTimeDelta adjusts the player's elapsed time units
func (s *Store) ApplyTimeDelta(ctx context.Context, id model.PlayerID, delta int) error {
	var timeSpent int
	session, err := s.mutatePlayer(ctx, "apply_time_delta", id, func(p *model.Player) error {
		p.TimeSpent += delta
		timeSpent = p.TimeSpent
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(session, model.EventTimeChanged, id, model.TimeChangedPayload{
		PlayerID:  id,
		Delta:     delta,
		TimeSpent: timeSpent,
	})
	return nil
}

// AdjustLoanBalance adjusts the player's outstanding loan balance
func (s *Store) AdjustLoanBalance(ctx context.Context, id model.PlayerID, delta int) error {
	_, err := s.mutatePlayer(ctx, "adjust_loan_balance", id, func(p *model.Player) error {
		p.LoanBalance += delta
		return nil
	})
	return err
}

// AdjustInvestmentBalance adjusts the player's investment balance
func (s *Store) AdjustInvestmentBalance(ctx context.Context, id model.PlayerID, delta int) error {
	_, err := s.mutatePlayer(ctx, "adjust_investment_balance", id, func(p *model.Player) error {
		p.InvestmentBalance += delta
		return nil
	})
	return err
}

// UsePlayerCard plays a card from the player's hand. The rules
// interpretation is delegated to the effects engine; the card leaves
// the hand only after the effect application succeeds, so a malformed
// card leaves the hand unchanged.
func (s *Store) UsePlayerCard(ctx context.Context, id model.PlayerID, cardID model.CardID) (string, error) {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()

	if session == nil {
		return "", model.ErrGameNotStarted
	}

	player := session.FindPlayer(id)
	if player == nil {
		return "", model.ErrPlayerNotFound
	}
	if !player.HandContains(cardID) {
		return "", model.ErrCardNotInHand
	}

	card, err := s.content.FindCard(cardID)
	if err != nil {
		return "", s.fail("use_player_card", err)
	}

	message, err := s.effects.ApplyCard(ctx, id, card)
	if err != nil {
		return "", s.fail("use_player_card", err)
	}

	if err := s.RemoveCardFromHand(ctx, id, cardID); err != nil {
		return "", s.fail("use_player_card", err)
	}

	s.emit(s.Snapshot(), model.EventCardActionCompleted, id, model.CardActionPayload{
		PlayerID: id,
		CardID:   cardID,
		CardType: card.Type,
		Message:  message,
	})

	return message, nil
}

// StartNextTurn rotates the active player (or seats the first player
// before the first turn), resets the turn state to MOVING, and
// advances the turn counters. Crossing back to the head of the
// rotation increments the round counter.
func (s *Store) StartNextTurn(ctx context.Context) (*model.Session, error) {
	session, err := s.mutateSession(ctx, "start_next_turn", func(sess *model.Session) error {
		var nextID model.PlayerID
		if sess.ActivePlayerID == "" {
			nextID = sess.Players[0].ID
		} else {
			nextID = sess.NextPlayerID(sess.ActivePlayerID)
		}
		if sess.IsFirstInRotation(nextID) {
			sess.TurnCounter++
		}
		sess.ActivePlayerID = nextID

		idx := 0
		for i, p := range sess.Players {
			if p.ID == nextID {
				idx = i
				break
			}
		}
		next := sess.Players[idx].Clone()
		next.TurnsTaken++
		players := append([]*model.Player(nil), sess.Players...)
		players[idx] = next
		sess.Players = players

		sess.Turn = model.TurnState{
			Phase:     model.PhaseMoving,
			Number:    sess.Turn.Number + 1,
			StartedAt: s.clock.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(session, model.EventTurnStarted, session.ActivePlayerID, model.TurnStartedPayload{
		TurnNumber: session.Turn.Number,
		PlayerID:   session.ActivePlayerID,
	})
	return session, nil
}

// SetPhase advances the turn state machine, enforcing the legal
// transition cycle
func (s *Store) SetPhase(ctx context.Context, next model.TurnPhase) error {
	_, err := s.mutateSession(ctx, "set_phase", func(sess *model.Session) error {
		if !sess.Turn.Phase.CanTransitionTo(next) {
			return model.ErrInvalidAction
		}
		sess.Turn.Phase = next
		return nil
	})
	return err
}

// RecordAction appends a completed action kind to the current turn
func (s *Store) RecordAction(ctx context.Context, kind model.ActionKind) error {
	_, err := s.mutateSession(ctx, "record_action", func(sess *model.Session) error {
		sess.Turn.CompletedActions = append(sess.Turn.CompletedActions, kind)
		return nil
	})
	return err
}

// CompleteGame finalizes the session with a winner and sorted final
// scores, and records a summary of the completed game
func (s *Store) CompleteGame(ctx context.Context, winner model.PlayerID, scores []model.PlayerScore) error {
	now := s.clock.Now()
	session, err := s.mutateSession(ctx, "complete_game", func(sess *model.Session) error {
		if sess.Status == model.GameStatusCompleted {
			return model.ErrGameComplete
		}
		sess.Status = model.GameStatusCompleted
		sess.Winner = winner
		sess.FinalScores = scores
		sess.CompletedAt = now
		return nil
	})
	if err != nil {
		return err
	}

	summary := &model.GameSummary{
		ID:          session.ID,
		FinalScores: scores,
		Winner:      winner,
		Turns:       session.TurnCounter,
		CompletedAt: now,
	}
	if err := s.storage.SaveGameSummary(ctx, summary); err != nil {
		return s.fail("complete_game", err)
	}

	s.logger.Info("game completed",
		slog.String("session_id", string(session.ID)),
		slog.String("winner", string(winner)),
		slog.Int("turns", session.TurnCounter),
	)

	s.emit(session, model.EventGameCompleted, winner, model.GameCompletedPayload{
		Winner:      winner,
		FinalScores: scores,
		CompletedAt: now,
	})
	return nil
}

// Emit publishes an orchestration-level event (denials, turn
// lifecycle, movement advice) against the current session
func (s *Store) Emit(eventType model.EventType, playerID model.PlayerID, payload any) {
	s.emit(s.Snapshot(), eventType, playerID, payload)
}

// mutatePlayer runs a copy-on-write mutation of a single player:
// clone the player, apply fn to the clone, install a fresh player
// slice, persist, and swap the session
func (s *Store) mutatePlayer(ctx context.Context, op string, id model.PlayerID, fn func(*model.Player) error) (*model.Session, error) {
	return s.mutateSession(ctx, op, func(sess *model.Session) error {
		idx := -1
		for i, p := range sess.Players {
			if p.ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			return model.ErrPlayerNotFound
		}

		player := sess.Players[idx].Clone()
		if err := fn(player); err != nil {
			return err
		}

		players := append([]*model.Player(nil), sess.Players...)
		players[idx] = player
		sess.Players = players
		return nil
	})
}

/// mutateSession serializes a session mutation: shallow-copy the
// session, apply fn, persist, and publish the new snapshot. The old
// snapshot is never mutated in place.
func (s *Store) mutateSession(ctx context.Context, op string, fn func(*model.Session) error) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, model.ErrGameNotStarted
	}

	next := *s.session
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveSession(ctx, &next); err != nil {
		return nil, s.fail(op, err)
	}

	s.session = &next
	return &next, nil
}

func (s *Store) emit(session *model.Session, eventType model.EventType, playerID model.PlayerID, payload any) {
	var sessionID model.SessionID
	if session != nil {
		sessionID = session.ID
	}
	s.bus.Emit(model.Event{
		Type:      eventType,
		Timestamp: s.clock.Now(),
		SessionID: sessionID,
		PlayerID:  playerID,
		Payload:   payload,
	})
}

// fail is the single error-handling path for store operations: it
// logs the failing operation with context and passes the error on
func (s *Store) fail(op string, err error) error {
	s.logger.Error("store operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	return err
}

func pick(values []string, i int) string {
	if len(values) == 0 {
		return ""
	}
	return values[i%len(values)]
}
