package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Turn events
	EventTurnStarted EventType = "turn_started"
	EventTurnEnded   EventType = "turn_ended"

	// Movement events
	EventPlayerMoved           EventType = "player_moved"
	EventAvailableMovesUpdated EventType = "available_moves_updated"
	EventShowSpaceChoice       EventType = "show_space_choice"
	EventDiceRollComplete      EventType = "dice_roll_complete"
	EventSpaceReentry          EventType = "space_reentry"

	// Resource and card events
	EventMoneyChanged        EventType = "money_changed"
	EventTimeChanged         EventType = "time_changed"
	EventScopeChanged        EventType = "scope_changed"
	EventCardsChanged        EventType = "cards_changed"
	EventCardActionCompleted EventType = "card_action_completed"

	// Game lifecycle events
	EventGameCompleted EventType = "game_completed"
	EventGameTimeout   EventType = "game_timeout"
	EventActionDenied  EventType = "action_denied"
)

// AllEventTypes lists every event type, in a stable order. Used by
// subscribers that want the full stream.
var AllEventTypes = []EventType{
	EventTurnStarted,
	EventTurnEnded,
	EventPlayerMoved,
	EventAvailableMovesUpdated,
	EventShowSpaceChoice,
	EventDiceRollComplete,
	EventSpaceReentry,
	EventMoneyChanged,
	EventTimeChanged,
	EventScopeChanged,
	EventCardsChanged,
	EventCardActionCompleted,
	EventGameCompleted,
	EventGameTimeout,
	EventActionDenied,
}

// Event is the base structure for all events. Events are delivered to
// subscribers synchronously, in registration order, before the
// triggering store operation returns.
type Event struct {
	Type      EventType
	Timestamp time.Time
	SessionID SessionID
	PlayerID  PlayerID // the player who triggered or is affected
	Payload   any      // type-specific data
}

// TurnStartedPayload contains data for turn started events
type TurnStartedPayload struct {
	TurnNumber int
	PlayerID   PlayerID
}

// TurnEndedPayload contains data for turn ended events
type TurnEndedPayload struct {
	TurnNumber       int
	PlayerID         PlayerID
	Duration         time.Duration
	CompletedActions []ActionKind
	NextPlayerID     PlayerID
}

// PlayerMovedPayload contains data for player moved events
type PlayerMovedPayload struct {
	PlayerID PlayerID
	From     SpaceName
	To       SpaceName
	Visit    VisitType
}

// AvailableMovesPayload contains data for available moves updated events
type AvailableMovesPayload struct {
	PlayerID PlayerID
	Moves    []SpaceName
}

// SpaceChoicePayload contains data for show space choice events
type SpaceChoicePayload struct {
	PlayerID PlayerID
	Space    SpaceName
	Prompt   string
	Options  []SpaceName
}

// DiceRollPayload contains data for dice roll complete events
type DiceRollPayload struct {
	PlayerID    PlayerID
	Roll        int
	Destination SpaceName
}

// SpaceReentryPayload contains data for space reentry events
type SpaceReentryPayload struct {
	PlayerID PlayerID
	Space    SpaceName
}

// MoneyChangedPayload contains data for money changed events
type MoneyChangedPayload struct {
	PlayerID PlayerID
	Delta    int
	Balance  int
}

// TimeChangedPayload contains data for time changed events
type TimeChangedPayload struct {
	PlayerID  PlayerID
	Delta     int
	TimeSpent int
}

// ScopeChangedPayload contains data for scope changed events
type ScopeChangedPayload struct {
	PlayerID       PlayerID
	Item           ScopeItem
	ScopeTotalCost int
}

// CardsChangedPayload contains data for cards changed events
type CardsChangedPayload struct {
	PlayerID PlayerID
	Added    []CardID
	Removed  []CardID
	HandSize int
}

// CardActionPayload contains data for card action completed events
type CardActionPayload struct {
	PlayerID PlayerID
	CardID   CardID
	CardType CardType
	Message  string
}

// GameCompletedPayload contains data for game completed events
type GameCompletedPayload struct {
	Winner      PlayerID
	FinalScores []PlayerScore
	CompletedAt time.Time
}

// GameTimeoutPayload contains data for game timeout events. The
// timeout is advisory; it does not end the game by itself.
type GameTimeoutPayload struct {
	TotalTimeSpent int
	TimeLimit      int
}

// ActionDeniedPayload contains data for action denied events
type ActionDeniedPayload struct {
	PlayerID PlayerID
	Action   ActionKind
	Reason   string
}
