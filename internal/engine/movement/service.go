package movement

import (
	"context"
	"log/slog"

	"github.com/scopecreep/projectgame/internal/content"
	"github.com/scopecreep/projectgame/internal/dependencies/random"
	"github.com/scopecreep/projectgame/internal/engine/effects"
	"github.com/scopecreep/projectgame/internal/model"
	"github.com/scopecreep/projectgame/internal/state"
)

// Service is the movement engine: it computes legal next spaces from
// the content repository's movement tables and applies space-entry
// effects through the game state store
type Service struct {
	content content.ServiceInterface
	store   *state.Store
	effects *effects.Service
	random  random.Random
	logger  *slog.Logger
}

// New creates a new movement engine
func New(
	content content.ServiceInterface,
	store *state.Store,
	effects *effects.Service,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		content: content,
		store:   store,
		effects: effects,
		random:  random,
		logger:  logger.With(slog.String("component", "movement")),
	}
}

// AvailableMoves returns the legal next space names for the player's
// current space and visit type: a fixed list, the union of dice
// outcomes for dice-dependent spaces, or empty at the end of the path
func (s *Service) AvailableMoves(player *model.Player) ([]model.SpaceName, error) {
	space, err := s.content.FindSpace(player.Position, player.Visit)
	if err != nil {
		return nil, err
	}

	if !space.RequiresDice {
		return append([]model.SpaceName(nil), space.NextSpaces...), nil
	}

	// Dice-dependent: the union of possible outcomes, deduplicated in
	// roll order
	seen := make(map[model.SpaceName]bool)
	var moves []model.SpaceName
	for roll := 1; roll <= 6; roll++ {
		dest, err := s.content.DiceDestination(player.Position, player.Visit, roll)
		if err != nil {
			continue
		}
		if !seen[dest] {
			seen[dest] = true
			moves = append(moves, dest)
		}
	}
	return moves, nil
}

// VisitTypeFor derives the visit type the player would have on landing
// at the space: First exactly once per player per space, Subsequent
// thereafter. Computed from player history, never guessed.
func (s *Service) VisitTypeFor(player *model.Player, space model.SpaceName) model.VisitType {
	if player.HasVisited(space) {
		return model.VisitSubsequent
	}
	return model.VisitFirst
}

// MovePlayerTo validates the destination against the player's legal
// moves, moves the player through the store, and applies the
// destination space's entry effects
func (s *Service) MovePlayerTo(ctx context.Context, playerID model.PlayerID, destination model.SpaceName) error {
	session := s.store.Snapshot()
	if session == nil {
		return model.ErrGameNotStarted
	}
	player := session.FindPlayer(playerID)
	if player == nil {
		return model.ErrPlayerNotFound
	}

	moves, err := s.AvailableMoves(player)
	if err != nil {
		return err
	}
	if !contains(moves, destination) {
		return model.ErrInvalidMove
	}

	return s.landOn(ctx, player, destination)
}

// ResolveDiceMove resolves a dice roll through the content dice table
// and moves the player to the resulting destination
func (s *Service) ResolveDiceMove(ctx context.Context, playerID model.PlayerID, roll int) (model.SpaceName, error) {
	if roll < 1 || roll > 6 {
		return "", model.ErrInvalidRoll
	}

	session := s.store.Snapshot()
	if session == nil {
		return "", model.ErrGameNotStarted
	}
	player := session.FindPlayer(playerID)
	if player == nil {
		return "", model.ErrPlayerNotFound
	}

	destination, err := s.content.DiceDestination(player.Position, player.Visit, roll)
	if err != nil {
		return "", err
	}

	s.store.Emit(model.EventDiceRollComplete, playerID, model.DiceRollPayload{
		PlayerID:    playerID,
		Roll:        roll,
		Destination: destination,
	})

	if err := s.landOn(ctx, player, destination); err != nil {
		return "", err
	}
	return destination, nil
}

// landOn performs the landing: derives the visit type from history,
// records reentry, moves through the store, and applies the space's
// entry effects
func (s *Service) landOn(ctx context.Context, player *model.Player, destination model.SpaceName) error {
	visit := s.VisitTypeFor(player, destination)
	if visit == model.VisitSubsequent {
		s.store.Emit(model.EventSpaceReentry, player.ID, model.SpaceReentryPayload{
			PlayerID: player.ID,
			Space:    destination,
		})
	}

	if err := s.store.MovePlayer(ctx, player.ID, destination, visit); err != nil {
		return err
	}

	// The landing itself may have completed the game; final scores are
	// fixed at that point, so no further effects apply
	if session := s.store.Snapshot(); session == nil || session.Status == model.GameStatusCompleted {
		return nil
	}

	space, err := s.content.FindSpace(destination, visit)
	if err != nil {
		return err
	}
	return s.ApplySpaceEffects(ctx, player.ID, space)
}

// ApplySpaceEffects interprets the space's effect descriptor: card
// draws and resource deltas are issued against the store; a space
// offering multiple onward destinations emits a choice-required event
// rather than auto-selecting, so the UI can prompt the player
func (s *Service) ApplySpaceEffects(ctx context.Context, playerID model.PlayerID, space *model.Space) error {
	if space.Effect.DrawCardType != nil {
		if err := s.drawCards(ctx, playerID, *space.Effect.DrawCardType, space.Effect.DrawCardCount); err != nil {
			return err
		}
	}

	if err := s.effects.ApplySpaceEffect(ctx, playerID, space.Effect); err != nil {
		return err
	}

	if len(space.NextSpaces) > 1 && space.Effect.Prompt != "" {
		s.store.Emit(model.EventShowSpaceChoice, playerID, model.SpaceChoicePayload{
			PlayerID: playerID,
			Space:    space.Name,
			Prompt:   space.Effect.Prompt,
			Options:  append([]model.SpaceName(nil), space.NextSpaces...),
		})
	}

	return nil
}

// drawCards picks random catalog cards of the given category and adds
// them to the player's hand
func (s *Service) drawCards(ctx context.Context, playerID model.PlayerID, cardType model.CardType, count int) error {
	catalog, err := s.content.CardsOfType(cardType)
	if err != nil {
		return err
	}
	if len(catalog) == 0 {
		s.logger.Warn("no cards of requested type in catalog",
			slog.String("card_type", string(cardType)),
		)
		return nil
	}

	drawn := make([]model.CardID, 0, count)
	for i := 0; i < count; i++ {
		drawn = append(drawn, catalog[s.random.Intn(len(catalog))])
	}
	return s.store.AddCardsToPlayer(ctx, playerID, drawn)
}

func contains(moves []model.SpaceName, dest model.SpaceName) bool {
	for _, m := range moves {
		if m == dest {
			return true
		}
	}
	return false
}
