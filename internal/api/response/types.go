package response

import (
	"time"

	"github.com/scopecreep/projectgame/internal/model"
)

// ScopeItem represents a work commitment in API responses
type ScopeItem struct {
	WorkType string `json:"work_type"`
	Cost     int    `json:"cost"`
}

// Player represents a player in API responses
type Player struct {
	ID                string              `json:"id"`
	DisplayName       string              `json:"display_name"`
	Color             string              `json:"color"`
	Avatar            string              `json:"avatar"`
	Position          string              `json:"position"`
	Visit             string              `json:"visit"`
	Money             int                 `json:"money"`
	TimeSpent         int                 `json:"time_spent"`
	Hand              map[string][]string `json:"hand"`
	Scope             []ScopeItem         `json:"scope"`
	ScopeTotalCost    int                 `json:"scope_total_cost"`
	LoanBalance       int                 `json:"loan_balance"`
	InvestmentBalance int                 `json:"investment_balance"`
	TurnsTaken        int                 `json:"turns_taken"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	hand := make(map[string][]string, len(p.Hand))
	for cardType, ids := range p.Hand {
		list := make([]string, 0, len(ids))
		for _, id := range ids {
			list = append(list, string(id))
		}
		hand[string(cardType)] = list
	}

	scope := make([]ScopeItem, 0, len(p.Scope))
	for _, item := range p.Scope {
		scope = append(scope, ScopeItem{WorkType: item.WorkType, Cost: item.Cost})
	}

	return Player{
		ID:                string(p.ID),
		DisplayName:       p.DisplayName,
		Color:             p.Color,
		Avatar:            p.Avatar,
		Position:          string(p.Position),
		Visit:             string(p.Visit),
		Money:             p.Money,
		TimeSpent:         p.TimeSpent,
		Hand:              hand,
		Scope:             scope,
		ScopeTotalCost:    p.ScopeTotalCost,
		LoanBalance:       p.LoanBalance,
		InvestmentBalance: p.InvestmentBalance,
		TurnsTaken:        p.TurnsTaken,
	}
}

// Turn represents the current turn in API responses
type Turn struct {
	Phase            string    `json:"phase"`
	Number           int       `json:"number"`
	CompletedActions []string  `json:"completed_actions"`
	StartedAt        time.Time `json:"started_at"`
}

// TurnFromModel converts model.TurnState
func TurnFromModel(t model.TurnState) Turn {
	actions := make([]string, 0, len(t.CompletedActions))
	for _, a := range t.CompletedActions {
		actions = append(actions, string(a))
	}
	return Turn{
		Phase:            string(t.Phase),
		Number:           t.Number,
		CompletedActions: actions,
		StartedAt:        t.StartedAt,
	}
}

// PlayerScore is one row of the final standings
type PlayerScore struct {
	PlayerID   string `json:"player_id"`
	FinalScore int    `json:"final_score"`
}

// ScoresFromModel converts a slice of model.PlayerScore
func ScoresFromModel(scores []model.PlayerScore) []PlayerScore {
	out := make([]PlayerScore, 0, len(scores))
	for _, s := range scores {
		out = append(out, PlayerScore{
			PlayerID:   string(s.PlayerID),
			FinalScore: s.FinalScore,
		})
	}
	return out
}

// Game represents the full session state in API responses
type Game struct {
	ID             string        `json:"id"`
	Players        []Player      `json:"players"`
	ActivePlayerID string        `json:"active_player_id"`
	TurnCounter    int           `json:"turn_counter"`
	Status         string        `json:"status"`
	Turn           Turn          `json:"turn"`
	Winner         string        `json:"winner,omitempty"`
	FinalScores    []PlayerScore `json:"final_scores,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// GameFromModel converts a model.Session
func GameFromModel(s *model.Session) Game {
	players := make([]Player, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, PlayerFromModel(p))
	}

	game := Game{
		ID:             string(s.ID),
		Players:        players,
		ActivePlayerID: string(s.ActivePlayerID),
		TurnCounter:    s.TurnCounter,
		Status:         string(s.Status),
		Turn:           TurnFromModel(s.Turn),
		Winner:         string(s.Winner),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if len(s.FinalScores) > 0 {
		game.FinalScores = ScoresFromModel(s.FinalScores)
	}
	return game
}

// Moves is the response for the legal-moves endpoint
type Moves struct {
	PlayerID string   `json:"player_id"`
	Moves    []string `json:"moves"`
}

// MovesFromModel builds a Moves response
func MovesFromModel(playerID model.PlayerID, moves []model.SpaceName) Moves {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, string(m))
	}
	return Moves{PlayerID: string(playerID), Moves: out}
}

// Roll is the response for the dice roll endpoint
type Roll struct {
	PlayerID    string `json:"player_id"`
	Roll        int    `json:"roll"`
	Destination string `json:"destination"`
}

// CardPlayed is the response for the play-card endpoint
type CardPlayed struct {
	PlayerID string `json:"player_id"`
	CardID   string `json:"card_id"`
	Message  string `json:"message"`
}

// GameSummary represents a completed game summary
type GameSummary struct {
	ID          string        `json:"id"`
	FinalScores []PlayerScore `json:"final_scores"`
	Winner      string        `json:"winner"`
	Turns       int           `json:"turns"`
	CompletedAt time.Time     `json:"completed_at"`
}

// SummariesFromModel converts a slice of model.GameSummary
func SummariesFromModel(summaries []*model.GameSummary) []GameSummary {
	out := make([]GameSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, GameSummary{
			ID:          string(s.ID),
			FinalScores: ScoresFromModel(s.FinalScores),
			Winner:      string(s.Winner),
			Turns:       s.Turns,
			CompletedAt: s.CompletedAt,
		})
	}
	return out
}
