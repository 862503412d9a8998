package content

import (
	"context"
	"log/slog"
	"sync"

	"github.com/scopecreep/projectgame/internal/model"
	"github.com/scopecreep/projectgame/internal/storage"
)

// Service is the content repository: read-only, preloaded game content
// (spaces, cards, dice tables) with typed lookups. Every query checks
// the loaded gate; querying before load completes is an explicit
// failure, never a silent empty result.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger

	mu          sync.RWMutex
	spaces      map[model.SpaceKey]*model.Space
	cards       map[model.CardID]*model.Card
	cardsByType map[model.CardType][]model.CardID
	dice        map[model.SpaceKey]map[int]model.SpaceName
	startSpace  model.SpaceName
	finishSpace model.SpaceName
	loaded      bool
}

// New creates a new content Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "content")),
	}
}

// LoadFromStorage restores a previously cached content set
func (s *Service) LoadFromStorage(ctx context.Context) error {
	spaces, err := s.storage.GetSpaces(ctx)
	if err != nil {
		return err
	}
	cards, err := s.storage.GetCards(ctx)
	if err != nil {
		return err
	}
	rows, err := s.storage.GetDiceRows(ctx)
	if err != nil {
		return err
	}
	return s.load(spaces, cards, rows)
}

// LoadContent directly loads parsed content (useful for testing)
func (s *Service) LoadContent(spaces []model.Space, cards []model.Card, rows []model.DiceRow) error {
	return s.load(spaces, cards, rows)
}

func (s *Service) load(spaces []model.Space, cards []model.Card, rows []model.DiceRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spaces = make(map[model.SpaceKey]*model.Space, len(spaces))
	s.startSpace = ""
	s.finishSpace = ""
	for i := range spaces {
		sp := spaces[i]
		s.spaces[model.SpaceKey{Name: sp.Name, Visit: sp.Visit}] = &sp
		switch sp.Kind {
		case model.SpaceKindStart:
			s.startSpace = sp.Name
		case model.SpaceKindFinish:
			s.finishSpace = sp.Name
		}
	}

	s.cards = make(map[model.CardID]*model.Card, len(cards))
	s.cardsByType = make(map[model.CardType][]model.CardID)
	for i := range cards {
		c := cards[i]
		s.cards[c.ID] = &c
		s.cardsByType[c.Type] = append(s.cardsByType[c.Type], c.ID)
	}

	s.dice = make(map[model.SpaceKey]map[int]model.SpaceName)
	for _, row := range rows {
		key := model.SpaceKey{Name: row.Space, Visit: row.Visit}
		if s.dice[key] == nil {
			s.dice[key] = make(map[int]model.SpaceName)
		}
		s.dice[key][row.Roll] = row.Destination
	}

	s.loaded = true

	s.logger.Info("content loaded",
		slog.Int("spaces", len(s.spaces)),
		slog.Int("cards", len(s.cards)),
		slog.Int("dice_rows", len(rows)),
	)

	return nil
}

// IsLoaded returns whether content has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// FindSpace returns the rule row for a space name + visit variant
func (s *Service) FindSpace(name model.SpaceName, visit model.VisitType) (*model.Space, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, model.ErrContentNotLoaded
	}

	space, ok := s.spaces[model.SpaceKey{Name: name, Visit: visit}]
	if !ok {
		return nil, model.ErrSpaceNotFound
	}
	return space, nil
}

// SpaceExists reports whether any visit variant of the space exists
func (s *Service) SpaceExists(name model.SpaceName) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return false
	}
	for _, visit := range []model.VisitType{model.VisitFirst, model.VisitSubsequent} {
		if _, ok := s.spaces[model.SpaceKey{Name: name, Visit: visit}]; ok {
			return true
		}
	}
	return false
}

// FindCard returns the catalog entry for a card ID
func (s *Service) FindCard(id model.CardID) (*model.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, model.ErrContentNotLoaded
	}

	card, ok := s.cards[id]
	if !ok {
		return nil, model.ErrCardNotFound
	}
	return card, nil
}

// CardsOfType returns the catalog IDs for a card category, in content
// order
func (s *Service) CardsOfType(t model.CardType) ([]model.CardID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, model.ErrContentNotLoaded
	}

	ids := s.cardsByType[t]
	result := make([]model.CardID, len(ids))
	copy(result, ids)
	return result, nil
}

// DiceDestination resolves a dice roll on a space to its destination
func (s *Service) DiceDestination(name model.SpaceName, visit model.VisitType, roll int) (model.SpaceName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return "", model.ErrContentNotLoaded
	}

	outcomes, ok := s.dice[model.SpaceKey{Name: name, Visit: visit}]
	if !ok {
		return "", model.ErrSpaceNotFound
	}
	dest, ok := outcomes[roll]
	if !ok {
		return "", model.ErrInvalidRoll
	}
	return dest, nil
}

// StartSpace returns the designated start space
func (s *Service) StartSpace() (model.SpaceName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return "", model.ErrContentNotLoaded
	}
	if s.startSpace == "" {
		return "", model.ErrSpaceNotFound
	}
	return s.startSpace, nil
}

// FinishSpace returns the designated finish space
func (s *Service) FinishSpace() (model.SpaceName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return "", model.ErrContentNotLoaded
	}
	if s.finishSpace == "" {
		return "", model.ErrSpaceNotFound
	}
	return s.finishSpace, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	IsLoaded() bool
	FindSpace(name model.SpaceName, visit model.VisitType) (*model.Space, error)
	SpaceExists(name model.SpaceName) bool
	FindCard(id model.CardID) (*model.Card, error)
	CardsOfType(t model.CardType) ([]model.CardID, error)
	DiceDestination(name model.SpaceName, visit model.VisitType, roll int) (model.SpaceName, error)
	StartSpace() (model.SpaceName, error)
	FinishSpace() (model.SpaceName, error)
}

var _ ServiceInterface = (*Service)(nil)
