package sse

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/scopecreep/projectgame/internal/model"
	"github.com/scopecreep/projectgame/internal/state"
)

// Broadcaster forwards game notifications from the state bus to the
// SSE clients of the affected session. Each notification becomes one
// SSE event named after the notification type, with a JSON body.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Attach subscribes the broadcaster to every notification type on the
// bus. Handlers run synchronously inside store operations, so the
// broadcaster only formats and hands off to the hub's buffered channel.
func (b *Broadcaster) Attach(bus *state.Bus) {
	for _, t := range model.AllEventTypes {
		bus.Subscribe(t, b.forward)
	}
}

// eventEnvelope is the JSON shape sent over the wire
type eventEnvelope struct {
	Type      model.EventType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	SessionID model.SessionID `json:"sessionId"`
	PlayerID  model.PlayerID  `json:"playerId,omitempty"`
	Payload   any             `json:"payload,omitempty"`
}

func (b *Broadcaster) forward(event model.Event) {
	hub := b.hubManager.GetHub(event.SessionID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(eventEnvelope{
		Type:      event.Type,
		Timestamp: event.Timestamp,
		SessionID: event.SessionID,
		PlayerID:  event.PlayerID,
		Payload:   event.Payload,
	})
	if err != nil {
		b.logger.Error("sse failed to marshal event",
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(string(event.Type), string(data))
}
