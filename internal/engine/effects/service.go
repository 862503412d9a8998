package effects

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scopecreep/projectgame/internal/model"
	"github.com/scopecreep/projectgame/internal/state"
)

// Service is the effects engine: a rule interpreter that translates a
// card or space effect descriptor into mutation calls against the
// game state store. It never mutates player records directly and
// never bypasses the store. Each application is atomic: a descriptor
// missing required fields is logged and rejected before any mutation,
// never applied partially.
type Service struct {
	store  *state.Store
	logger *slog.Logger
}

// New creates a new effects engine bound to the store
func New(store *state.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With(slog.String("component", "effects")),
	}
}

// Ensure Service satisfies the store's delegation interface
var _ state.CardEffectApplier = (*Service)(nil)

// ApplyCard applies a card's effect for the player, dispatching on the
// card category. Returns a user-facing message describing the outcome.
func (s *Service) ApplyCard(ctx context.Context, playerID model.PlayerID, card *model.Card) (string, error) {
	switch card.Type {
	case model.CardTypeWork:
		return s.applyWork(ctx, playerID, card)
	case model.CardTypeBank:
		return s.applyBank(ctx, playerID, card)
	case model.CardTypeInvestor:
		return s.applyInvestor(ctx, playerID, card)
	case model.CardTypeLife:
		return s.applyLife(ctx, playerID, card)
	case model.CardTypeExpeditor:
		return s.applyExpeditor(ctx, playerID, card)
	default:
		return "", s.malformed(card, "unknown card type")
	}
}

// applyWork adds the card's work commitment to the player's scope
func (s *Service) applyWork(ctx context.Context, playerID model.PlayerID, card *model.Card) (string, error) {
	if card.WorkCost == nil {
		return "", s.malformed(card, "work card missing work_cost")
	}

	item := model.ScopeItem{WorkType: card.Name, Cost: *card.WorkCost}
	if err := s.store.UpdatePlayerScope(ctx, playerID, item); err != nil {
		return "", err
	}
	return fmt.Sprintf("Added %s to scope (cost %d)", card.Name, *card.WorkCost), nil
}

// applyBank takes out the card's loan: money in hand goes up, the loan
// balance goes up with it
func (s *Service) applyBank(ctx context.Context, playerID model.PlayerID, card *model.Card) (string, error) {
	if card.LoanAmount == nil {
		return "", s.malformed(card, "bank card missing loan_amount")
	}

	if err := s.store.ApplyMoneyDelta(ctx, playerID, *card.LoanAmount); err != nil {
		return "", err
	}
	if err := s.store.AdjustLoanBalance(ctx, playerID, *card.LoanAmount); err != nil {
		return "", err
	}
	return fmt.Sprintf("Took a loan of %d", *card.LoanAmount), nil
}

// applyInvestor accepts the card's investment
func (s *Service) applyInvestor(ctx context.Context, playerID model.PlayerID, card *model.Card) (string, error) {
	if card.InvestmentAmount == nil {
		return "", s.malformed(card, "investor card missing investment_amount")
	}

	if err := s.store.ApplyMoneyDelta(ctx, playerID, *card.InvestmentAmount); err != nil {
		return "", err
	}
	if err := s.store.AdjustInvestmentBalance(ctx, playerID, *card.InvestmentAmount); err != nil {
		return "", err
	}
	return fmt.Sprintf("Accepted an investment of %d", *card.InvestmentAmount), nil
}

// applyLife adjusts time and/or money; at least one field must be set
func (s *Service) applyLife(ctx context.Context, playerID model.PlayerID, card *model.Card) (string, error) {
	if card.MoneyDelta == nil && card.TimeDelta == nil {
		return "", s.malformed(card, "life card missing money_delta and time_delta")
	}

	if card.MoneyDelta != nil {
		if err := s.store.ApplyMoneyDelta(ctx, playerID, *card.MoneyDelta); err != nil {
			return "", err
		}
	}
	if card.TimeDelta != nil {
		if err := s.store.ApplyTimeDelta(ctx, playerID, *card.TimeDelta); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("Life event: %s", card.Name), nil
}

// applyExpeditor applies the special rule: any combination of money
// and time adjustments, defaulting to a no-cost play when the card
// carries neither
func (s *Service) applyExpeditor(ctx context.Context, playerID model.PlayerID, card *model.Card) (string, error) {
	if card.MoneyDelta != nil {
		if err := s.store.ApplyMoneyDelta(ctx, playerID, *card.MoneyDelta); err != nil {
			return "", err
		}
	}
	if card.TimeDelta != nil {
		if err := s.store.ApplyTimeDelta(ctx, playerID, *card.TimeDelta); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("Played expeditor: %s", card.Name), nil
}

// ApplySpaceEffect applies a space's effect descriptor (deltas only;
// card draws and choices are handled by the movement engine)
func (s *Service) ApplySpaceEffect(ctx context.Context, playerID model.PlayerID, effect model.SpaceEffect) error {
	if effect.MoneyDelta != nil {
		if err := s.store.ApplyMoneyDelta(ctx, playerID, *effect.MoneyDelta); err != nil {
			return err
		}
	}
	if effect.TimeDelta != nil {
		if err := s.store.ApplyTimeDelta(ctx, playerID, *effect.TimeDelta); err != nil {
			return err
		}
	}
	return nil
}

// malformed logs the defect in the content data and reports the
// sentinel; the caller applies no state change
func (s *Service) malformed(card *model.Card, reason string) error {
	s.logger.Warn("malformed card content",
		slog.String("card_id", string(card.ID)),
		slog.String("card_type", string(card.Type)),
		slog.String("reason", reason),
	)
	return fmt.Errorf("%w: %s", model.ErrMalformedContent, reason)
}
