package model

// CardID uniquely identifies a card in the content catalog
type CardID string

// CardType is the rule category a card belongs to
type CardType string

const (
	CardTypeWork      CardType = "Work"
	CardTypeBank      CardType = "Bank"
	CardTypeInvestor  CardType = "Investor"
	CardTypeLife      CardType = "Life"
	CardTypeExpeditor CardType = "Expeditor"
)

// CardTypes lists every card category in display order
var CardTypes = []CardType{
	CardTypeWork,
	CardTypeBank,
	CardTypeInvestor,
	CardTypeLife,
	CardTypeExpeditor,
}

// ValidCardType reports whether t names a known card category
func ValidCardType(t CardType) bool {
	for _, known := range CardTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Card is an immutable content row describing a single card. Effect
// fields are pointers so a column missing from the content data is
// distinguishable from an explicit zero; the effects engine treats a
// missing required field as malformed content.
type Card struct {
	ID          CardID
	Type        CardType
	Name        string
	Description string

	MoneyDelta       *int
	TimeDelta        *int
	LoanAmount       *int
	InvestmentAmount *int
	WorkCost         *int
}
