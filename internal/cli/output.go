package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case GameState:
		o.printGameState(v)
	case MovesResult:
		o.printMoves(v)
	case RollResult:
		o.printRoll(v)
	case CardResult:
		o.printCardResult(v)
	case []GameSummary:
		o.printSummaries(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// ScopeItem response type (matches API)
type ScopeItem struct {
	WorkType string `json:"work_type"`
	Cost     int    `json:"cost"`
}

// Player response type
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

// Turn response type
type Turn struct {
	Phase            string   `json:"phase"`
	Number           int      `json:"number"`
	CompletedActions []string `json:"completed_actions"`
}

// PlayerScore response type
type PlayerScore struct {
	PlayerID   string `json:"player_id"`
	FinalScore int    `json:"final_score"`
}

// GameState response type
type GameState struct {
	ID             string        `json:"id"`
	Players        []Player      `json:"players"`
	ActivePlayerID string        `json:"active_player_id"`
	TurnCounter    int           `json:"turn_counter"`
	Status         string        `json:"status"`
	Turn           Turn          `json:"turn"`
	Winner         string        `json:"winner,omitempty"`
	FinalScores    []PlayerScore `json:"final_scores,omitempty"`
}

// MovesResult response type
type MovesResult struct {
	PlayerID string   `json:"player_id"`
	Moves    []string `json:"moves"`
}

// RollResult response type
type RollResult struct {
	PlayerID    string `json:"player_id"`
	Roll        int    `json:"roll"`
	Destination string `json:"destination"`
}

// CardResult response type
type CardResult struct {
	PlayerID string `json:"player_id"`
	CardID   string `json:"card_id"`
	Message  string `json:"message"`
}

// GameSummary response type
type GameSummary struct {
	ID          string        `json:"id"`
	FinalScores []PlayerScore `json:"final_scores"`
	Winner      string        `json:"winner"`
	Turns       int           `json:"turns"`
	CompletedAt time.Time     `json:"completed_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printGameState(g GameState) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("Status: %s\n", g.Status)
	fmt.Printf("Turn: %d (phase %s, cycle %d)\n", g.Turn.Number, g.Turn.Phase, g.TurnCounter)
	if len(g.Turn.CompletedActions) > 0 {
		fmt.Printf("Actions this turn: %s\n", strings.Join(g.Turn.CompletedActions, ", "))
	}

	fmt.Printf("Players (%d):\n", len(g.Players))
	for _, p := range g.Players {
		active := ""
		if p.ID == g.ActivePlayerID {
			active = " [active]"
		}
		fmt.Printf("  %s %s (%s)%s\n", p.Avatar, p.DisplayName, p.ID, active)
		fmt.Printf("    at %s (%s visit), money %d, time %d\n", p.Position, p.Visit, p.Money, p.TimeSpent)
		if p.ScopeTotalCost > 0 {
			fmt.Printf("    scope: %d items, total cost %d\n", len(p.Scope), p.ScopeTotalCost)
		}
		if p.LoanBalance > 0 || p.InvestmentBalance > 0 {
			fmt.Printf("    loans %d, investments %d\n", p.LoanBalance, p.InvestmentBalance)
		}
		for cardType, ids := range p.Hand {
			if len(ids) > 0 {
				fmt.Printf("    %s cards: %s\n", cardType, strings.Join(ids, ", "))
			}
		}
	}

	if g.Winner != "" {
		fmt.Printf("\nWinner: %s\n", g.Winner)
	}
	if len(g.FinalScores) > 0 {
		fmt.Println("Final Scores:")
		for _, s := range g.FinalScores {
			fmt.Printf("  %s: %d\n", s.PlayerID, s.FinalScore)
		}
	}
}

func (o *Output) printMoves(m MovesResult) {
	if len(m.Moves) == 0 {
		fmt.Printf("No moves available for %s\n", m.PlayerID)
		return
	}
	fmt.Printf("Moves for %s:\n", m.PlayerID)
	for _, move := range m.Moves {
		fmt.Printf("  - %s\n", move)
	}
}

func (o *Output) printRoll(r RollResult) {
	fmt.Printf("Rolled %d -> %s\n", r.Roll, r.Destination)
}

func (o *Output) printCardResult(c CardResult) {
	fmt.Printf("Played %s: %s\n", c.CardID, c.Message)
}

func (o *Output) printSummaries(summaries []GameSummary) {
	if len(summaries) == 0 {
		fmt.Println("No completed games")
		return
	}
	for _, s := range summaries {
		fmt.Printf("%s  winner=%s  turns=%d  completed=%s\n",
			s.ID, s.Winner, s.Turns, s.CompletedAt.Format("2006-01-02 15:04:05"))
		for _, score := range s.FinalScores {
			fmt.Printf("  %s: %d\n", score.PlayerID, score.FinalScore)
		}
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
