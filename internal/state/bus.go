package state

import (
	"log/slog"
	"sync"

	"github.com/scopecreep/projectgame/internal/model"
)

// Handler receives events from the bus
type Handler func(model.Event)

// Bus is a synchronous publish/subscribe registry for typed game
// events. Handlers run in registration order, on the emitting
// goroutine, before Emit returns. A panicking handler is recovered and
// logged so it can never block sibling handlers or corrupt the
// emitting operation.
type Bus struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[model.EventType][]Handler
}

// NewBus creates a new event bus
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		logger:   logger.With(slog.String("component", "bus")),
		handlers: make(map[model.EventType][]Handler),
	}
}

// Subscribe registers a handler for an event type. Handlers cannot be
// removed; subscription happens once at wiring time.
func (b *Bus) Subscribe(t model.EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// Emit delivers the event to every subscribed handler in registration
// order
func (b *Bus) Emit(event model.Event) {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(event, h)
	}
}

func (b *Bus) dispatch(event model.Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				slog.String("event_type", string(event.Type)),
				slog.Any("panic", r),
			)
		}
	}()
	h(event)
}
