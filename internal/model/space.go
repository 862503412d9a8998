package model

// SpaceName identifies a board space
type SpaceName string

// SpaceKind distinguishes the designated start and finish spaces from
// ordinary spaces
type SpaceKind string

const (
	SpaceKindStart  SpaceKind = "start"
	SpaceKindNormal SpaceKind = "normal"
	SpaceKindFinish SpaceKind = "finish"
)

// SpaceKey addresses one rule row: a space name plus visit variant
type SpaceKey struct {
	Name  SpaceName
	Visit VisitType
}

// SpaceEffect is the data-driven description of what happens when a
// player lands on a space. Pointer fields distinguish an absent column
// from an explicit zero.
type SpaceEffect struct {
	DrawCardType  *CardType
	DrawCardCount int
	MoneyDelta    *int
	TimeDelta     *int
	Prompt        string // non-empty when the player must be asked to choose
}

// Space is an immutable content row describing one visit variant of a
// board space
type Space struct {
	Name  SpaceName
	Visit VisitType
	Kind  SpaceKind

	// Outward movement. NextSpaces is the fixed destination list;
	// RequiresDice marks spaces whose destination depends on a dice
	// roll resolved through the dice table instead.
	NextSpaces   []SpaceName
	RequiresDice bool

	Effect SpaceEffect
}

// DiceRow is one dice-table entry: the destination for a given roll on
// a given space/visit variant
type DiceRow struct {
	Space       SpaceName
	Visit       VisitType
	Roll        int
	Destination SpaceName
}
