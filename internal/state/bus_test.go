package state

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/scopecreep/projectgame/internal/model"
	"github.com/scopecreep/projectgame/internal/testutil"
)

type BusSuite struct {
	suite.Suite
	bus *Bus
}

func TestBusSuite(t *testing.T) {
	suite.Run(t, new(BusSuite))
}

func (s *BusSuite) SetupTest() {
	s.bus = NewBus(testutil.NopLogger())
}

func (s *BusSuite) TestHandlersRunInRegistrationOrder() {
	var order []string
	s.bus.Subscribe(model.EventTurnStarted, func(model.Event) {
		order = append(order, "first")
	})
	s.bus.Subscribe(model.EventTurnStarted, func(model.Event) {
		order = append(order, "second")
	})

	s.bus.Emit(model.Event{Type: model.EventTurnStarted})

	s.Equal([]string{"first", "second"}, order)
}

func (s *BusSuite) TestEmitIsSynchronous() {
	delivered := false
	s.bus.Subscribe(model.EventMoneyChanged, func(model.Event) {
		delivered = true
	})

	s.bus.Emit(model.Event{Type: model.EventMoneyChanged})
	s.True(delivered)
}

func (s *BusSuite) TestHandlersOnlyReceiveTheirType() {
	var got []model.EventType
	s.bus.Subscribe(model.EventMoneyChanged, func(e model.Event) {
		got = append(got, e.Type)
	})

	s.bus.Emit(model.Event{Type: model.EventTimeChanged})
	s.bus.Emit(model.Event{Type: model.EventMoneyChanged})

	s.Equal([]model.EventType{model.EventMoneyChanged}, got)
}

func (s *BusSuite) TestPanicIsRecoveredPerHandler() {
	var survived bool
	s.bus.Subscribe(model.EventGameCompleted, func(model.Event) {
		panic("handler failure")
	})
	s.bus.Subscribe(model.EventGameCompleted, func(model.Event) {
		survived = true
	})

	s.NotPanics(func() {
		s.bus.Emit(model.Event{Type: model.EventGameCompleted})
	})
	s.True(survived)
}

func (s *BusSuite) TestEmitWithNoSubscribers() {
	s.NotPanics(func() {
		s.bus.Emit(model.Event{Type: model.EventActionDenied})
	})
}
