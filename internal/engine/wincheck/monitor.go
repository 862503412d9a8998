package wincheck

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/scopecreep/projectgame/internal/config"
	"github.com/scopecreep/projectgame/internal/content"
	"github.com/scopecreep/projectgame/internal/model"
	"github.com/scopecreep/projectgame/internal/state"
)

// Monitor observes movement and time notifications and finalizes game
// completion and scoring. It is a pure subscriber: it reads snapshots
// and requests mutation through the store.
type Monitor struct {
	store   *state.Store
	content content.ServiceInterface
	rules   config.Rules
	logger  *slog.Logger

	mu              sync.Mutex
	timeoutSession  model.SessionID
	timeoutReported bool
}

// New creates a win-condition monitor. Start must be called to attach
// it to the store's bus.
func New(store *state.Store, content content.ServiceInterface, rules config.Rules, logger *slog.Logger) *Monitor {
	return &Monitor{
		store:   store,
		content: content,
		rules:   rules,
		logger:  logger.With(slog.String("component", "wincheck")),
	}
}

// Start subscribes the monitor to position and time changes
func (m *Monitor) Start() {
	m.store.Bus().Subscribe(model.EventPlayerMoved, m.onPlayerMoved)
	m.store.Bus().Subscribe(model.EventTimeChanged, m.onTimeChanged)
}

// onPlayerMoved completes the game when a player reaches the finish
// space
func (m *Monitor) onPlayerMoved(event model.Event) {
	payload, ok := event.Payload.(model.PlayerMovedPayload)
	if !ok {
		return
	}

	finish, err := m.content.FinishSpace()
	if err != nil {
		m.logger.Error("finish space unavailable", slog.String("error", err.Error()))
		return
	}
	if payload.To != finish {
		return
	}

	session := m.store.Snapshot()
	if session == nil || session.Status == model.GameStatusCompleted {
		return
	}

	scores := m.ComputeScores(session)
	winner := payload.PlayerID

	if err := m.store.CompleteGame(context.Background(), winner, scores); err != nil {
		m.logger.Error("failed to complete game",
			slog.String("winner", string(winner)),
			slog.String("error", err.Error()),
		)
	}
}

// onTimeChanged emits an advisory timeout when total elapsed time
// across all players crosses the configured limit. The advisory fires
// once per crossing and re-arms if the total drops back under the
// limit. It does not end the game.
func (m *Monitor) onTimeChanged(event model.Event) {
	session := m.store.Snapshot()
	if session == nil || session.Status == model.GameStatusCompleted {
		return
	}

	m.mu.Lock()
	if session.ID != m.timeoutSession {
		m.timeoutSession = session.ID
		m.timeoutReported = false
	}

	total := session.TotalTimeSpent()
	if total <= m.rules.TimeLimit {
		m.timeoutReported = false
		m.mu.Unlock()
		return
	}
	if m.timeoutReported {
		m.mu.Unlock()
		return
	}
	m.timeoutReported = true
	m.mu.Unlock()

	m.logger.Warn("time limit exceeded",
		slog.Int("total_time_spent", total),
		slog.Int("time_limit", m.rules.TimeLimit),
	)

	m.store.Emit(model.EventGameTimeout, event.PlayerID, model.GameTimeoutPayload{
		TotalTimeSpent: total,
		TimeLimit:      m.rules.TimeLimit,
	})
}

// ComputeScores calculates per-player final scores,
// max(0, money - timeSpent*penaltyRate), sorted descending
func (m *Monitor) ComputeScores(session *model.Session) []model.PlayerScore {
	scores := make([]model.PlayerScore, 0, len(session.Players))
	for _, p := range session.Players {
		score := p.Money - p.TimeSpent*m.rules.TimePenaltyRate
		if score < 0 {
			score = 0
		}
		scores = append(scores, model.PlayerScore{
			PlayerID:   p.ID,
			FinalScore: score,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].FinalScore > scores[j].FinalScore
	})
	return scores
}
