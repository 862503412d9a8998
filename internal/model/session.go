package model

import "time"

// SessionID uniquely identifies a game session
type SessionID string

// GameStatus represents the lifecycle stage of a session
type GameStatus string

const (
	GameStatusSetup      GameStatus = "setup"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusCompleted  GameStatus = "completed"
)

// PlayerScore is one row of the final standings
type PlayerScore struct {
	PlayerID   PlayerID
	FinalScore int
}

// Session is the authoritative state of one game. Players is ordered
// for turn rotation only; every lookup goes through FindPlayer so
// player identity is never confused with list position. The state
// store replaces Players (and the mutated player value) wholesale on
// every mutation, so consumers may detect change by comparing slice
// references between snapshots.
type Session struct {
	ID      SessionID
	Players []*Player

	ActivePlayerID PlayerID
	TurnCounter    int
	Status         GameStatus

	Turn TurnState

	Winner      PlayerID // empty until completed
	FinalScores []PlayerScore

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt time.Time
}

// FindPlayer returns the player with the given ID, or nil if absent.
// This is the only sanctioned lookup path; positional indexing into
// Players is reserved for rotation order.
func (s *Session) FindPlayer(id PlayerID) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ActivePlayer returns the player whose turn it is, or nil before the
// first turn starts
func (s *Session) ActivePlayer() *Player {
	if s.ActivePlayerID == "" {
		return nil
	}
	return s.FindPlayer(s.ActivePlayerID)
}

// NextPlayerID returns the ID of the player after the given one in
// rotation order, wrapping to the first player
func (s *Session) NextPlayerID(id PlayerID) PlayerID {
	for i, p := range s.Players {
		if p.ID == id {
			return s.Players[(i+1)%len(s.Players)].ID
		}
	}
	if len(s.Players) == 0 {
		return ""
	}
	return s.Players[0].ID
}

// IsFirstInRotation reports whether the player is at the head of the
// rotation order; crossing back to them increments the turn counter
func (s *Session) IsFirstInRotation(id PlayerID) bool {
	return len(s.Players) > 0 && s.Players[0].ID == id
}

// TotalTimeSpent sums elapsed time units across all players
func (s *Session) TotalTimeSpent() int {
	total := 0
	for _, p := range s.Players {
		total += p.TimeSpent
	}
	return total
}

// GameSummary is a lightweight record of a completed game
type GameSummary struct {
	ID          SessionID
	FinalScores []PlayerScore
	Winner      PlayerID
	Turns       int
	CompletedAt time.Time
}
