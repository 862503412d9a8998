package memory

import (
	"context"
	"sync"

	"github.com/scopecreep/projectgame/internal/model"
	"github.com/scopecreep/projectgame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	sessions  map[model.SessionID]*model.Session
	summaries []*model.GameSummary
	spaces    []model.Space
	cards     []model.Card
	diceRows  []model.DiceRow
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions: make(map[model.SessionID]*model.Session),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok, nil
}

// Summary operations

func (s *Storage) SaveGameSummary(ctx context.Context, summary *model.GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, summary)
	return nil
}

func (s *Storage) ListGameSummaries(ctx context.Context) ([]*model.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.GameSummary, len(s.summaries))
	copy(result, s.summaries)
	return result, nil
}

// Content cache operations

func (s *Storage) SaveSpaces(ctx context.Context, spaces []model.Space) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spaces = make([]model.Space, len(spaces))
	copy(s.spaces, spaces)
	return nil
}

func (s *Storage) GetSpaces(ctx context.Context) ([]model.Space, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.spaces == nil {
		return nil, model.ErrContentNotLoaded
	}
	result := make([]model.Space, len(s.spaces))
	copy(result, s.spaces)
	return result, nil
}

func (s *Storage) SaveCards(ctx context.Context, cards []model.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = make([]model.Card, len(cards))
	copy(s.cards, cards)
	return nil
}

func (s *Storage) GetCards(ctx context.Context) ([]model.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cards == nil {
		return nil, model.ErrContentNotLoaded
	}
	result := make([]model.Card, len(s.cards))
	copy(result, s.cards)
	return result, nil
}

func (s *Storage) SaveDiceRows(ctx context.Context, rows []model.DiceRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diceRows = make([]model.DiceRow, len(rows))
	copy(s.diceRows, rows)
	return nil
}

func (s *Storage) GetDiceRows(ctx context.Context) ([]model.DiceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.diceRows == nil {
		return nil, model.ErrContentNotLoaded
	}
	result := make([]model.DiceRow, len(s.diceRows))
	copy(result, s.diceRows)
	return result, nil
}
