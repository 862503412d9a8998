package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Rules holds gameplay balance configuration. Values ship with
// defaults and may be overridden from a YAML rules file.
type Rules struct {
	// Player setup
	StartingMoney int `yaml:"starting_money" json:"starting_money"`

	// Scoring: finalScore = max(0, money - timeSpent*TimePenaltyRate)
	TimePenaltyRate int `yaml:"time_penalty_rate" json:"time_penalty_rate"`

	// Advisory limit on total elapsed time units across all players
	TimeLimit int `yaml:"time_limit" json:"time_limit"`

	// Turn pacing
	TurnSettleDelay time.Duration `yaml:"turn_settle_delay" json:"turn_settle_delay"`
	AutoSelectDelay time.Duration `yaml:"auto_select_delay" json:"auto_select_delay"`

	// Whether observing an action completion finalizes the turn after
	// the settle delay, or an explicit end-turn request is required
	AutoEndTurn bool `yaml:"auto_end_turn" json:"auto_end_turn"`

	// Player presentation assigned round-robin at game creation
	Colors  []string `yaml:"colors" json:"colors"`
	Avatars []string `yaml:"avatars" json:"avatars"`
}

// Default returns the default rules configuration
func Default() Rules {
	return Rules{
		StartingMoney:   10000,
		TimePenaltyRate: 100,
		TimeLimit:       365,
		TurnSettleDelay: 2 * time.Second,
		AutoSelectDelay: 500 * time.Millisecond,
		AutoEndTurn:     true,
		Colors:          []string{"red", "blue", "green", "yellow", "purple", "orange"},
		Avatars:         []string{"👷", "📊", "💼", "🔧", "📈", "🗂"},
	}
}

// rawRules mirrors Rules for YAML parsing. Durations are strings in
// Go syntax ("2s", "500ms"); pointer fields distinguish an omitted key
// from an explicit zero.
type rawRules struct {
	StartingMoney   *int     `yaml:"starting_money"`
	TimePenaltyRate *int     `yaml:"time_penalty_rate"`
	TimeLimit       *int     `yaml:"time_limit"`
	TurnSettleDelay string   `yaml:"turn_settle_delay"`
	AutoSelectDelay string   `yaml:"auto_select_delay"`
	AutoEndTurn     *bool    `yaml:"auto_end_turn"`
	Colors          []string `yaml:"colors"`
	Avatars         []string `yaml:"avatars"`
}

// Load reads rules from a YAML file, applying defaults for any fields
// the file omits
func Load(path string) (Rules, error) {
	rules := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, err
	}

	var raw rawRules
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return rules, err
	}

	if raw.StartingMoney != nil {
		rules.StartingMoney = *raw.StartingMoney
	}
	if raw.TimePenaltyRate != nil {
		rules.TimePenaltyRate = *raw.TimePenaltyRate
	}
	if raw.TimeLimit != nil {
		rules.TimeLimit = *raw.TimeLimit
	}
	if raw.TurnSettleDelay != "" {
		d, err := time.ParseDuration(raw.TurnSettleDelay)
		if err != nil {
			return rules, fmt.Errorf("turn_settle_delay: %w", err)
		}
		rules.TurnSettleDelay = d
	}
	if raw.AutoSelectDelay != "" {
		d, err := time.ParseDuration(raw.AutoSelectDelay)
		if err != nil {
			return rules, fmt.Errorf("auto_select_delay: %w", err)
		}
		rules.AutoSelectDelay = d
	}
	if raw.AutoEndTurn != nil {
		rules.AutoEndTurn = *raw.AutoEndTurn
	}
	if len(raw.Colors) > 0 {
		rules.Colors = raw.Colors
	}
	if len(raw.Avatars) > 0 {
		rules.Avatars = raw.Avatars
	}

	return rules, nil
}
