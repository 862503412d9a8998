package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/scopecreep/projectgame/internal/config"
	"github.com/scopecreep/projectgame/internal/content"
	"github.com/scopecreep/projectgame/internal/dependencies/mocks"
	"github.com/scopecreep/projectgame/internal/model"
	"github.com/scopecreep/projectgame/internal/storage/memory"
	"github.com/scopecreep/projectgame/internal/testutil"
)

// stubEffects satisfies CardEffectApplier with a canned result
type stubEffects struct {
	message string
	err     error
	applied []model.CardID
}

func (e *stubEffects) ApplyCard(_ context.Context, _ model.PlayerID, card *model.Card) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.applied = append(e.applied, card.ID)
	return e.message, nil
}

type StoreSuite struct {
	suite.Suite
	storage *memory.Storage
	content *content.Service
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	effects *stubEffects
	store   *Store
	ctx     context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.storage = memory.New()
	s.content = content.New(s.storage, testutil.NopLogger())
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.effects = &stubEffects{message: "done"}
	s.store = NewStore(s.storage, s.content, s.clock, s.random, config.Default(), testutil.NopLogger())
	s.store.BindEffects(s.effects)
	s.ctx = context.Background()

	s.Require().NoError(s.content.LoadContent(
		[]model.Space{
			{Name: "start", Visit: model.VisitFirst, Kind: model.SpaceKindStart, NextSpaces: []model.SpaceName{"alpha"}},
			{Name: "start", Visit: model.VisitSubsequent, Kind: model.SpaceKindStart, NextSpaces: []model.SpaceName{"alpha"}},
			{Name: "alpha", Visit: model.VisitFirst, NextSpaces: []model.SpaceName{"finish"}},
			{Name: "alpha", Visit: model.VisitSubsequent, NextSpaces: []model.SpaceName{"finish"}},
			{Name: "finish", Visit: model.VisitFirst, Kind: model.SpaceKindFinish},
			{Name: "finish", Visit: model.VisitSubsequent, Kind: model.SpaceKindFinish},
		},
		[]model.Card{
			{ID: "W1", Type: model.CardTypeWork, Name: "Build it", WorkCost: intPtr(5000)},
			{ID: "L1", Type: model.CardTypeLife, Name: "Outage", MoneyDelta: intPtr(-500)},
		},
		nil,
	))
}

// newGame initializes a two-player game with deterministic IDs
func (s *StoreSuite) newGame() *model.Session {
	s.random.QueueString("game-1", "p-alice", "p-bob")
	session, err := s.store.InitializeGame(s.ctx, []string{"Alice", "Bob"})
	s.Require().NoError(err)
	return session
}

// record subscribes a recording handler for the given event type
func (s *StoreSuite) record(t model.EventType) *[]model.Event {
	var events []model.Event
	s.store.Bus().Subscribe(t, func(e model.Event) {
		events = append(events, e)
	})
	return &events
}

// InitializeGame tests

func (s *StoreSuite) TestInitializeGameCreatesPlayers() {
	session := s.newGame()

	s.Equal(model.SessionID("game-1"), session.ID)
	s.Equal(model.GameStatusInProgress, session.Status)
	s.Equal(model.PhaseWaiting, session.Turn.Phase)
	s.Require().Len(session.Players, 2)

	alice := session.FindPlayer("p-alice")
	s.Require().NotNil(alice)
	s.Equal("Alice", alice.DisplayName)
	s.Equal(model.SpaceName("start"), alice.Position)
	s.Equal(model.VisitFirst, alice.Visit)
	s.Equal(10000, alice.Money)
	s.True(alice.HasVisited("start"))
	s.Equal("red", alice.Color)

	bob := session.FindPlayer("p-bob")
	s.Require().NotNil(bob)
	s.Equal("blue", bob.Color)
}

func (s *StoreSuite) TestInitializeGameRequiresPlayers() {
	_, err := s.store.InitializeGame(s.ctx, nil)
	s.ErrorIs(err, model.ErrNoPlayers)
}

func (s *StoreSuite) TestInitializeGameRequiresLoadedContent() {
	unloaded := content.New(memory.New(), testutil.NopLogger())
	store := NewStore(s.storage, unloaded, s.clock, s.random, config.Default(), testutil.NopLogger())

	_, err := store.InitializeGame(s.ctx, []string{"Alice"})
	s.ErrorIs(err, model.ErrContentNotLoaded)
}

func (s *StoreSuite) TestInitializeGamePersistsSession() {
	session := s.newGame()

	saved, err := s.storage.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Len(saved.Players, 2)
}

// Copy-on-write tests

func (s *StoreSuite) TestMutationReplacesOnlyTheMutatedPlayer() {
	before := s.newGame()
	aliceBefore := before.FindPlayer("p-alice")
	bobBefore := before.FindPlayer("p-bob")

	s.Require().NoError(s.store.ApplyMoneyDelta(s.ctx, "p-bob", -100))

	after := s.store.Snapshot()
	s.NotSame(before, after)

	// Alice's record is untouched, Bob's is a fresh copy
	s.Same(aliceBefore, after.FindPlayer("p-alice"))
	s.NotSame(bobBefore, after.FindPlayer("p-bob"))

	// The earlier snapshot still holds the old values
	s.Equal(10000, bobBefore.Money)
	s.Equal(9900, after.FindPlayer("p-bob").Money)
}

func (s *StoreSuite) TestMovingOnePlayerDoesNotMoveAnother() {
	s.newGame()

	s.Require().NoError(s.store.MovePlayer(s.ctx, "p-alice", "alpha", model.VisitFirst))

	session := s.store.Snapshot()
	s.Equal(model.SpaceName("alpha"), session.FindPlayer("p-alice").Position)
	s.Equal(model.SpaceName("start"), session.FindPlayer("p-bob").Position)
}

// MovePlayer tests

func (s *StoreSuite) TestMovePlayerRecordsVisitAndEmits() {
	s.newGame()
	events := s.record(model.EventPlayerMoved)

	s.Require().NoError(s.store.MovePlayer(s.ctx, "p-alice", "alpha", model.VisitFirst))

	alice := s.store.Snapshot().FindPlayer("p-alice")
	s.True(alice.HasVisited("alpha"))

	s.Require().Len(*events, 1)
	payload := (*events)[0].Payload.(model.PlayerMovedPayload)
	s.Equal(model.SpaceName("start"), payload.From)
	s.Equal(model.SpaceName("alpha"), payload.To)
	s.Equal(model.VisitFirst, payload.Visit)
}

func (s *StoreSuite) TestMovePlayerUnknownPlayer() {
	s.newGame()
	err := s.store.MovePlayer(s.ctx, "p-nobody", "alpha", model.VisitFirst)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Card hand tests

func (s *StoreSuite) TestAddCardsGroupsByCategory() {
	s.newGame()
	events := s.record(model.EventCardsChanged)

	s.Require().NoError(s.store.AddCardsToPlayer(s.ctx, "p-alice", []model.CardID{"W1", "L1"}))

	alice := s.store.Snapshot().FindPlayer("p-alice")
	s.Equal([]model.CardID{"W1"}, alice.Hand[model.CardTypeWork])
	s.Equal([]model.CardID{"L1"}, alice.Hand[model.CardTypeLife])

	s.Require().Len(*events, 1)
	payload := (*events)[0].Payload.(model.CardsChangedPayload)
	s.Equal(2, payload.HandSize)
}

func (s *StoreSuite) TestAddCardsRejectsUnknownCard() {
	s.newGame()
	err := s.store.AddCardsToPlayer(s.ctx, "p-alice", []model.CardID{"W1", "X9"})
	s.ErrorIs(err, model.ErrCardNotFound)

	// Nothing was added
	s.Equal(0, s.store.Snapshot().FindPlayer("p-alice").HandSize())
}

func (s *StoreSuite) TestRemoveCardRemovesOneCopy() {
	s.newGame()
	s.Require().NoError(s.store.AddCardsToPlayer(s.ctx, "p-alice", []model.CardID{"W1", "W1"}))

	s.Require().NoError(s.store.RemoveCardFromHand(s.ctx, "p-alice", "W1"))

	alice := s.store.Snapshot().FindPlayer("p-alice")
	s.Equal([]model.CardID{"W1"}, alice.Hand[model.CardTypeWork])
}

func (s *StoreSuite) TestRemoveCardNotInHand() {
	s.newGame()
	err := s.store.RemoveCardFromHand(s.ctx, "p-alice", "W1")
	s.ErrorIs(err, model.ErrCardNotInHand)
}

// UsePlayerCard tests

func (s *StoreSuite) TestUsePlayerCardAppliesAndRemoves() {
	s.newGame()
	s.Require().NoError(s.store.AddCardsToPlayer(s.ctx, "p-alice", []model.CardID{"W1"}))
	events := s.record(model.EventCardActionCompleted)

	message, err := s.store.UsePlayerCard(s.ctx, "p-alice", "W1")
	s.Require().NoError(err)
	s.Equal("done", message)
	s.Equal([]model.CardID{"W1"}, s.effects.applied)

	alice := s.store.Snapshot().FindPlayer("p-alice")
	s.False(alice.HandContains("W1"))

	s.Require().Len(*events, 1)
	payload := (*events)[0].Payload.(model.CardActionPayload)
	s.Equal(model.CardID("W1"), payload.CardID)
	s.Equal(model.CardTypeWork, payload.CardType)
}

func (s *StoreSuite) TestUsePlayerCardKeepsHandWhenEffectFails() {
	s.newGame()
	s.Require().NoError(s.store.AddCardsToPlayer(s.ctx, "p-alice", []model.CardID{"W1"}))
	events := s.record(model.EventCardActionCompleted)

	s.effects.err = model.ErrMalformedContent
	_, err := s.store.UsePlayerCard(s.ctx, "p-alice", "W1")
	s.ErrorIs(err, model.ErrMalformedContent)

	// The card stays in hand and no completion event fires
	s.True(s.store.Snapshot().FindPlayer("p-alice").HandContains("W1"))
	s.Empty(*events)
}

func (s *StoreSuite) TestUsePlayerCardNotInHand() {
	s.newGame()
	_, err := s.store.UsePlayerCard(s.ctx, "p-alice", "W1")
	s.ErrorIs(err, model.ErrCardNotInHand)
}

// Resource tests

func (s *StoreSuite) TestApplyMoneyDeltaEmitsBalance() {
	s.newGame()
	events := s.record(model.EventMoneyChanged)

	s.Require().NoError(s.store.ApplyMoneyDelta(s.ctx, "p-alice", -2500))

	s.Require().Len(*events, 1)
	payload := (*events)[0].Payload.(model.MoneyChangedPayload)
	s.Equal(-2500, payload.Delta)
	s.Equal(7500, payload.Balance)
}

func (s *StoreSuite) TestApplyTimeDeltaAccumulates() {
	s.newGame()

	s.Require().NoError(s.store.ApplyTimeDelta(s.ctx, "p-alice", 10))
	s.Require().NoError(s.store.ApplyTimeDelta(s.ctx, "p-alice", 5))

	s.Equal(15, s.store.Snapshot().FindPlayer("p-alice").TimeSpent)
}

func (s *StoreSuite) TestUpdatePlayerScopeTracksTotal() {
	s.newGame()
	events := s.record(model.EventScopeChanged)

	s.Require().NoError(s.store.UpdatePlayerScope(s.ctx, "p-alice", model.ScopeItem{WorkType: "Build it", Cost: 5000}))
	s.Require().NoError(s.store.UpdatePlayerScope(s.ctx, "p-alice", model.ScopeItem{WorkType: "Polish", Cost: 2000}))

	alice := s.store.Snapshot().FindPlayer("p-alice")
	s.Len(alice.Scope, 2)
	s.Equal(7000, alice.ScopeTotalCost)

	s.Require().Len(*events, 2)
	s.Equal(7000, (*events)[1].Payload.(model.ScopeChangedPayload).ScopeTotalCost)
}

// Turn rotation tests

func (s *StoreSuite) TestStartNextTurnRotates() {
	s.newGame()

	session, err := s.store.StartNextTurn(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p-alice"), session.ActivePlayerID)
	s.Equal(model.PhaseMoving, session.Turn.Phase)
	s.Equal(1, session.Turn.Number)
	s.Equal(1, session.TurnCounter)
	s.Equal(1, session.FindPlayer("p-alice").TurnsTaken)

	session, err = s.store.StartNextTurn(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p-bob"), session.ActivePlayerID)
	s.Equal(2, session.Turn.Number)
	s.Equal(1, session.TurnCounter)

	// Wrapping back to the head of the rotation bumps the counter
	session, err = s.store.StartNextTurn(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p-alice"), session.ActivePlayerID)
	s.Equal(2, session.TurnCounter)
	s.Equal(2, session.FindPlayer("p-alice").TurnsTaken)
}

func (s *StoreSuite) TestSetPhaseEnforcesCycle() {
	s.newGame()

	// WAITING can only go to MOVING
	s.ErrorIs(s.store.SetPhase(s.ctx, model.PhaseActing), model.ErrInvalidAction)

	_, err := s.store.StartNextTurn(s.ctx)
	s.Require().NoError(err)

	s.ErrorIs(s.store.SetPhase(s.ctx, model.PhaseEnding), model.ErrInvalidAction)
	s.Require().NoError(s.store.SetPhase(s.ctx, model.PhaseActing))
	s.ErrorIs(s.store.SetPhase(s.ctx, model.PhaseMoving), model.ErrInvalidAction)
	s.Require().NoError(s.store.SetPhase(s.ctx, model.PhaseEnding))
	s.Require().NoError(s.store.SetPhase(s.ctx, model.PhaseMoving))
}

func (s *StoreSuite) TestRecordAction() {
	s.newGame()
	_, err := s.store.StartNextTurn(s.ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.store.RecordAction(s.ctx, model.ActionMove))
	s.Require().NoError(s.store.RecordAction(s.ctx, model.ActionCard))

	turn := s.store.Snapshot().Turn
	s.True(turn.HasCompleted(model.ActionMove))
	s.True(turn.HasCompleted(model.ActionCard))
	s.False(turn.HasCompleted(model.ActionDice))
}

// CompleteGame tests

func (s *StoreSuite) TestCompleteGameRecordsSummary() {
	s.newGame()
	events := s.record(model.EventGameCompleted)

	scores := []model.PlayerScore{
		{PlayerID: "p-alice", FinalScore: 8000},
		{PlayerID: "p-bob", FinalScore: 4000},
	}
	s.Require().NoError(s.store.CompleteGame(s.ctx, "p-alice", scores))

	session := s.store.Snapshot()
	s.Equal(model.GameStatusCompleted, session.Status)
	s.Equal(model.PlayerID("p-alice"), session.Winner)
	s.Equal(scores, session.FinalScores)

	summaries, err := s.storage.ListGameSummaries(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal(model.PlayerID("p-alice"), summaries[0].Winner)

	s.Require().Len(*events, 1)
}

func (s *StoreSuite) TestCompleteGameTwiceFails() {
	s.newGame()
	s.Require().NoError(s.store.CompleteGame(s.ctx, "p-alice", nil))
	s.ErrorIs(s.store.CompleteGame(s.ctx, "p-bob", nil), model.ErrGameComplete)
}

// Event delivery tests

func (s *StoreSuite) TestPanickingHandlerDoesNotBlockSiblings() {
	s.newGame()

	var delivered bool
	s.store.Bus().Subscribe(model.EventMoneyChanged, func(model.Event) {
		panic("boom")
	})
	s.store.Bus().Subscribe(model.EventMoneyChanged, func(model.Event) {
		delivered = true
	})

	s.Require().NoError(s.store.ApplyMoneyDelta(s.ctx, "p-alice", -1))
	s.True(delivered)
}

func (s *StoreSuite) TestHandlerMayIssueFollowUpMutations() {
	s.newGame()

	s.store.Bus().Subscribe(model.EventPlayerMoved, func(e model.Event) {
		_ = s.store.ApplyTimeDelta(s.ctx, e.PlayerID, 3)
	})

	s.Require().NoError(s.store.MovePlayer(s.ctx, "p-alice", "alpha", model.VisitFirst))
	s.Equal(3, s.store.Snapshot().FindPlayer("p-alice").TimeSpent)
}

// Reset tests

func (s *StoreSuite) TestResetClearsSession() {
	session := s.newGame()

	s.Require().NoError(s.store.Reset(s.ctx))
	s.Nil(s.store.Snapshot())

	_, err := s.storage.GetSession(s.ctx, session.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func intPtr(v int) *int {
	return &v
}
