package model

import "time"

// TurnPhase is one stage of the turn state machine
type TurnPhase string

const (
	PhaseWaiting TurnPhase = "WAITING" // before the first turn starts
	PhaseMoving  TurnPhase = "MOVING"  // active player may move
	PhaseActing  TurnPhase = "ACTING"  // active player may act
	PhaseEnding  TurnPhase = "ENDING"  // turn is settling before rotation
)

// CanTransitionTo reports whether the phase machine allows moving from
// p to next. The only legal cycle is
// WAITING -> MOVING -> ACTING -> ENDING -> MOVING (next player).
func (p TurnPhase) CanTransitionTo(next TurnPhase) bool {
	switch p {
	case PhaseWaiting:
		return next == PhaseMoving
	case PhaseMoving:
		return next == PhaseActing
	case PhaseActing:
		return next == PhaseEnding
	case PhaseEnding:
		return next == PhaseMoving
	default:
		return false
	}
}

// ActionKind names a kind of action completed during the ACTING phase
type ActionKind string

const (
	ActionMove    ActionKind = "move"
	ActionDice    ActionKind = "dice"
	ActionCard    ActionKind = "card"
	ActionSpace   ActionKind = "space"
	ActionEndTurn ActionKind = "end_turn"
)

// TurnState tracks the current turn. It is reset each time a new
// player's turn begins.
type TurnState struct {
	Phase            TurnPhase
	Number           int
	CompletedActions []ActionKind
	StartedAt        time.Time
}

// HasCompleted reports whether an action of the given kind finished
// this turn
func (t *TurnState) HasCompleted(kind ActionKind) bool {
	for _, a := range t.CompletedActions {
		if a == kind {
			return true
		}
	}
	return false
}
