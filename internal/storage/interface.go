package storage

import (
	"context"

	"github.com/scopecreep/projectgame/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
	SessionExists(ctx context.Context, id model.SessionID) (bool, error)

	// Completed game summaries
	SaveGameSummary(ctx context.Context, summary *model.GameSummary) error
	ListGameSummaries(ctx context.Context) ([]*model.GameSummary, error)

	// Content cache operations. Getters return
	// model.ErrContentNotLoaded until a content set has been saved.
	SaveSpaces(ctx context.Context, spaces []model.Space) error
	GetSpaces(ctx context.Context) ([]model.Space, error)
	SaveCards(ctx context.Context, cards []model.Card) error
	GetCards(ctx context.Context) ([]model.Card, error)
	SaveDiceRows(ctx context.Context, rows []model.DiceRow) error
	GetDiceRows(ctx context.Context) ([]model.DiceRow, error)
}
