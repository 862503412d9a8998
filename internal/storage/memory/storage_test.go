package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/scopecreep/projectgame/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSessionRoundTrip() {
	session := &model.Session{
		ID:     "game-1",
		Status: model.GameStatusInProgress,
		Players: []*model.Player{
			{ID: "p-1", DisplayName: "Alice", Position: "start", Money: 10000},
		},
	}

	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	loaded, err := s.storage.GetSession(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(session, loaded)

	exists, err := s.storage.SessionExists(s.ctx, "game-1")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestGetMissingSession() {
	_, err := s.storage.GetSession(s.ctx, "nope")
	s.ErrorIs(err, model.ErrSessionNotFound)

	exists, err := s.storage.SessionExists(s.ctx, "nope")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestDeleteSession() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{ID: "game-1"}))
	s.Require().NoError(s.storage.DeleteSession(s.ctx, "game-1"))

	_, err := s.storage.GetSession(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrSessionNotFound)

	// Deleting again is not an error
	s.Require().NoError(s.storage.DeleteSession(s.ctx, "game-1"))
}

func (s *StorageSuite) TestSummariesKeptInOrder() {
	first := &model.GameSummary{ID: "game-1", Winner: "p-1", CompletedAt: time.Now()}
	second := &model.GameSummary{ID: "game-2", Winner: "p-2", CompletedAt: time.Now()}

	s.Require().NoError(s.storage.SaveGameSummary(s.ctx, first))
	s.Require().NoError(s.storage.SaveGameSummary(s.ctx, second))

	summaries, err := s.storage.ListGameSummaries(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal(model.SessionID("game-1"), summaries[0].ID)
	s.Equal(model.SessionID("game-2"), summaries[1].ID)
}

func (s *StorageSuite) TestContentGatedUntilSaved() {
	_, err := s.storage.GetSpaces(s.ctx)
	s.ErrorIs(err, model.ErrContentNotLoaded)
	_, err = s.storage.GetCards(s.ctx)
	s.ErrorIs(err, model.ErrContentNotLoaded)
	_, err = s.storage.GetDiceRows(s.ctx)
	s.ErrorIs(err, model.ErrContentNotLoaded)
}

func (s *StorageSuite) TestContentRoundTrip() {
	spaces := []model.Space{{Name: "start", Visit: model.VisitFirst, Kind: model.SpaceKindStart}}
	cards := []model.Card{{ID: "W1", Type: model.CardTypeWork, Name: "Prototype"}}
	rows := []model.DiceRow{{Space: "gate", Visit: model.VisitFirst, Roll: 1, Destination: "end"}}

	s.Require().NoError(s.storage.SaveSpaces(s.ctx, spaces))
	s.Require().NoError(s.storage.SaveCards(s.ctx, cards))
	s.Require().NoError(s.storage.SaveDiceRows(s.ctx, rows))

	gotSpaces, err := s.storage.GetSpaces(s.ctx)
	s.Require().NoError(err)
	s.Equal(spaces, gotSpaces)

	gotCards, err := s.storage.GetCards(s.ctx)
	s.Require().NoError(err)
	s.Equal(cards, gotCards)

	gotRows, err := s.storage.GetDiceRows(s.ctx)
	s.Require().NoError(err)
	s.Equal(rows, gotRows)
}

func (s *StorageSuite) TestSavedContentIsCopied() {
	spaces := []model.Space{{Name: "start", Visit: model.VisitFirst}}
	s.Require().NoError(s.storage.SaveSpaces(s.ctx, spaces))

	// Mutating the caller's slice must not affect the stored copy
	spaces[0].Name = "mutated"

	got, err := s.storage.GetSpaces(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.SpaceName("start"), got[0].Name)
}
