package factory

import (
	"time"

	"github.com/scopecreep/projectgame/internal/config"
	"github.com/scopecreep/projectgame/internal/dependencies/mocks"
	"github.com/scopecreep/projectgame/internal/model"
	"github.com/scopecreep/projectgame/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockRandom    *mocks.MockRandom
	MockScheduler *mocks.MockScheduler
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockScheduler := mocks.NewMockScheduler()

	app := newWithDependencies(store, mockClock, mockRandom, mockScheduler, config.Default(), nil)

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockRandom:    mockRandom,
		MockScheduler: mockScheduler,
	}
}

// LoadTestContent loads a small board and card catalog for testing.
//
// The board:
//
//	start -> crossroads -> {design | research} -> dice-gate -> {sprint | finish}
//	sprint -> finish
//
// crossroads offers a choice prompt, design draws a work card, research
// costs 10 time, dice-gate resolves by dice roll.
func (t *TestApp) LoadTestContent() error {
	return t.ContentService.LoadContent(testSpaces(), testCards(), testDiceRows())
}

func testSpaces() []model.Space {
	workType := model.CardTypeWork

	// Same layout for both visit types
	var spaces []model.Space
	for _, visit := range []model.VisitType{model.VisitFirst, model.VisitSubsequent} {
		spaces = append(spaces,
			model.Space{
				Name:       "start",
				Visit:      visit,
				Kind:       model.SpaceKindStart,
				NextSpaces: []model.SpaceName{"crossroads"},
			},
			model.Space{
				Name:       "crossroads",
				Visit:      visit,
				Kind:       model.SpaceKindNormal,
				NextSpaces: []model.SpaceName{"design", "research"},
				Effect: model.SpaceEffect{
					Prompt: "Choose your path",
				},
			},
			model.Space{
				Name:       "design",
				Visit:      visit,
				Kind:       model.SpaceKindNormal,
				NextSpaces: []model.SpaceName{"dice-gate"},
				Effect: model.SpaceEffect{
					DrawCardType:  &workType,
					DrawCardCount: 1,
				},
			},
			model.Space{
				Name:       "research",
				Visit:      visit,
				Kind:       model.SpaceKindNormal,
				NextSpaces: []model.SpaceName{"dice-gate"},
				Effect: model.SpaceEffect{
					TimeDelta: intPtr(10),
				},
			},
			model.Space{
				Name:         "dice-gate",
				Visit:        visit,
				Kind:         model.SpaceKindNormal,
				RequiresDice: true,
			},
			model.Space{
				Name:       "sprint",
				Visit:      visit,
				Kind:       model.SpaceKindNormal,
				NextSpaces: []model.SpaceName{"finish"},
			},
			model.Space{
				Name:  "finish",
				Visit: visit,
				Kind:  model.SpaceKindFinish,
			},
		)
	}
	return spaces
}

func testCards() []model.Card {
	return []model.Card{
		{ID: "W001", Type: model.CardTypeWork, Name: "Refactor backlog", WorkCost: intPtr(5000)},
		{ID: "W002", Type: model.CardTypeWork, Name: "Quick patch", WorkCost: intPtr(3000)},
		{ID: "B001", Type: model.CardTypeBank, Name: "Bridge loan", LoanAmount: intPtr(20000)},
		{ID: "I001", Type: model.CardTypeInvestor, Name: "Angel round", InvestmentAmount: intPtr(10000)},
		{ID: "L001", Type: model.CardTypeLife, Name: "Server outage", MoneyDelta: intPtr(-500), TimeDelta: intPtr(5)},
		{ID: "E001", Type: model.CardTypeExpeditor, Name: "Fast tracker", MoneyDelta: intPtr(1000)},
	}
}

func testDiceRows() []model.DiceRow {
	var rows []model.DiceRow
	for _, visit := range []model.VisitType{model.VisitFirst, model.VisitSubsequent} {
		for roll := 1; roll <= 3; roll++ {
			rows = append(rows, model.DiceRow{Space: "dice-gate", Visit: visit, Roll: roll, Destination: "sprint"})
		}
		for roll := 4; roll <= 6; roll++ {
			rows = append(rows, model.DiceRow{Space: "dice-gate", Visit: visit, Roll: roll, Destination: "finish"})
		}
	}
	return rows
}

func intPtr(v int) *int {
	return &v
}
