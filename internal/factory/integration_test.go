package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/scopecreep/projectgame/internal/model"
)

// IntegrationSuite plays full games through the wired application
type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.Require().NoError(s.app.LoadTestContent())
	s.ctx = context.Background()
}

func (s *IntegrationSuite) startGame(names ...string) {
	ids := []string{"game-1"}
	for i := range names {
		ids = append(ids, "p-"+string(rune('1'+i)))
	}
	s.app.MockRandom.QueueString(ids...)

	_, err := s.app.Store.InitializeGame(s.ctx, names)
	s.Require().NoError(err)
	s.Require().NoError(s.app.Orchestrator.Begin(s.ctx))
}

func (s *IntegrationSuite) playTurn(playerID model.PlayerID, destination model.SpaceName) {
	s.Require().NoError(s.app.Orchestrator.Move(s.ctx, playerID, destination))
	if s.app.Store.Snapshot().Status == model.GameStatusCompleted {
		return
	}
	s.Require().NoError(s.app.Orchestrator.EndTurn(s.ctx, playerID))
}

func (s *IntegrationSuite) TestSinglePlayerWalkToVictory() {
	s.startGame("Alice")

	s.playTurn("p-1", "crossroads")
	s.app.MockRandom.QueueIntn(0) // design draws W001
	s.playTurn("p-1", "design")
	s.playTurn("p-1", "dice-gate")

	// Roll a 6: straight to the finish
	s.app.MockRandom.QueueIntn(5)
	roll, destination, err := s.app.Orchestrator.RollDice(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Equal(6, roll)
	s.Equal(model.SpaceName("finish"), destination)

	session := s.app.Store.Snapshot()
	s.Equal(model.GameStatusCompleted, session.Status)
	s.Equal(model.PlayerID("p-1"), session.Winner)
	s.Require().Len(session.FinalScores, 1)
	s.Equal(10000, session.FinalScores[0].FinalScore)

	// A summary was persisted for the history listing
	summaries, err := s.app.Storage.ListGameSummaries(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal(model.PlayerID("p-1"), summaries[0].Winner)
	s.Equal(4, summaries[0].Turns)
}

func (s *IntegrationSuite) TestTwoPlayerRaceWithScoring() {
	s.startGame("Alice", "Bob")

	// Turn 1 and 2: both players to the crossroads
	s.playTurn("p-1", "crossroads")
	s.playTurn("p-2", "crossroads")

	// Alice takes design and commits the drawn work; Bob pays time on
	// research
	s.app.MockRandom.QueueIntn(0) // draw W001
	s.Require().NoError(s.app.Orchestrator.Move(s.ctx, "p-1", "design"))
	message, err := s.app.Orchestrator.PlayCard(s.ctx, "p-1", "W001")
	s.Require().NoError(err)
	s.Contains(message, "Refactor backlog")
	s.Require().NoError(s.app.Orchestrator.EndTurn(s.ctx, "p-1"))

	s.playTurn("p-2", "research")

	session := s.app.Store.Snapshot()
	s.Equal(5000, session.FindPlayer("p-1").ScopeTotalCost)
	s.Equal(10, session.FindPlayer("p-2").TimeSpent)

	// Both reach the dice gate
	s.playTurn("p-1", "dice-gate")
	s.playTurn("p-2", "dice-gate")

	// Alice rolls a 2 and detours through the sprint
	s.app.MockRandom.QueueIntn(1)
	roll, destination, err := s.app.Orchestrator.RollDice(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Equal(2, roll)
	s.Equal(model.SpaceName("sprint"), destination)
	s.Require().NoError(s.app.Orchestrator.EndTurn(s.ctx, "p-1"))

	// Bob rolls a 4 and wins
	s.app.MockRandom.QueueIntn(3)
	_, destination, err = s.app.Orchestrator.RollDice(s.ctx, "p-2")
	s.Require().NoError(err)
	s.Equal(model.SpaceName("finish"), destination)

	session = s.app.Store.Snapshot()
	s.Equal(model.GameStatusCompleted, session.Status)
	s.Equal(model.PlayerID("p-2"), session.Winner)

	// Bob's research time costs 10 * 100 against his 10000
	s.Require().Len(session.FinalScores, 2)
	s.Equal(model.PlayerScore{PlayerID: "p-1", FinalScore: 10000}, session.FinalScores[0])
	s.Equal(model.PlayerScore{PlayerID: "p-2", FinalScore: 9000}, session.FinalScores[1])
}

func (s *IntegrationSuite) TestSettleDelayAdvancesTheGame() {
	s.startGame("Alice", "Bob")

	s.Require().NoError(s.app.Orchestrator.Move(s.ctx, "p-1", "crossroads"))

	// Nothing rotates until the settle delay elapses
	s.Equal(model.PlayerID("p-1"), s.app.Store.Snapshot().ActivePlayerID)

	s.True(s.app.MockScheduler.Fire())
	s.Equal(model.PlayerID("p-2"), s.app.Store.Snapshot().ActivePlayerID)
	s.Equal(model.PhaseMoving, s.app.Store.Snapshot().Turn.Phase)
}

func (s *IntegrationSuite) TestAutoSelectOnSingleMove() {
	s.startGame("Alice")

	// The only move from the start is the crossroads; the auto-select
	// task fires and the settle task after it finalizes the turn
	s.Require().Equal(1, s.app.MockScheduler.PendingCount())
	s.True(s.app.MockScheduler.Fire())

	session := s.app.Store.Snapshot()
	s.Equal(model.SpaceName("crossroads"), session.FindPlayer("p-1").Position)
	s.Equal(model.PhaseActing, session.Turn.Phase)

	s.True(s.app.MockScheduler.Fire())
	s.Equal(2, s.app.Store.Snapshot().Turn.Number)
}

func (s *IntegrationSuite) TestChoicePromptAtCrossroads() {
	var choices []model.Event
	s.app.Store.Bus().Subscribe(model.EventShowSpaceChoice, func(e model.Event) {
		choices = append(choices, e)
	})

	s.startGame("Alice")
	s.Require().NoError(s.app.Orchestrator.Move(s.ctx, "p-1", "crossroads"))

	s.Require().Len(choices, 1)
	payload := choices[0].Payload.(model.SpaceChoicePayload)
	s.Equal("Choose your path", payload.Prompt)
	s.Equal([]model.SpaceName{"design", "research"}, payload.Options)
}

func (s *IntegrationSuite) TestAbandonAndRestart() {
	s.startGame("Alice")
	s.Require().NoError(s.app.Store.Reset(s.ctx))
	s.Nil(s.app.Store.Snapshot())

	s.app.MockRandom.QueueString("game-2", "p-9")
	_, err := s.app.Store.InitializeGame(s.ctx, []string{"Carol"})
	s.Require().NoError(err)
	s.Require().NoError(s.app.Orchestrator.Begin(s.ctx))

	session := s.app.Store.Snapshot()
	s.Equal(model.SessionID("game-2"), session.ID)
	s.Equal(model.PlayerID("p-9"), session.ActivePlayerID)
}
