package model

// PlayerID uniquely identifies a player across the system.
// It is assigned at creation and never reused; it is deliberately
// unrelated to the player's position in the session's player list.
type PlayerID string

// VisitType distinguishes a player's first landing on a space from
// any later landing. The same space name carries two distinct rule
// rows, one per visit type.
type VisitType string

const (
	VisitFirst      VisitType = "First"
	VisitSubsequent VisitType = "Subsequent"
)

// ScopeItem is a single work commitment a player has taken on
type ScopeItem struct {
	WorkType string
	Cost     int
}

// Player represents a game participant
type Player struct {
	ID          PlayerID
	DisplayName string
	Color       string
	Avatar      string // single glyph shown on the board

	// Board position
	Position SpaceName
	Visit    VisitType

	// Resources
	Money     int
	TimeSpent int

	// Hand of cards grouped by category; values are references into
	// the content catalog, never copies of card data
	Hand map[CardType][]CardID

	// Accumulated work commitments
	Scope          []ScopeItem
	ScopeTotalCost int

	// Borrowed / invested balances
	LoanBalance       int
	InvestmentBalance int

	// Spaces this player has landed on this game, used to derive the
	// visit type for the next landing
	VisitedSpaces map[SpaceName]bool

	TurnsTaken int
}

// HasVisited reports whether the player has landed on the space before
func (p *Player) HasVisited(space SpaceName) bool {
	return p.VisitedSpaces[space]
}

// HandContains reports whether the card is in the player's hand
func (p *Player) HandContains(cardID CardID) bool {
	for _, ids := range p.Hand {
		for _, id := range ids {
			if id == cardID {
				return true
			}
		}
	}
	return false
}

// HandSize returns the total number of cards held across all categories
func (p *Player) HandSize() int {
	n := 0
	for _, ids := range p.Hand {
		n += len(ids)
	}
	return n
}

// Clone returns a deep copy of the player. Store mutations operate on
// clones so that every published snapshot has fresh container references.
func (p *Player) Clone() *Player {
	clone := *p

	clone.Hand = make(map[CardType][]CardID, len(p.Hand))
	for t, ids := range p.Hand {
		clone.Hand[t] = append([]CardID(nil), ids...)
	}

	clone.Scope = append([]ScopeItem(nil), p.Scope...)

	clone.VisitedSpaces = make(map[SpaceName]bool, len(p.VisitedSpaces))
	for s := range p.VisitedSpaces {
		clone.VisitedSpaces[s] = true
	}

	return &clone
}
