package cli

import (
	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game session commands",
	}

	cmd.AddCommand(newGameNewCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameMovesCmd())
	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameRollCmd())
	cmd.AddCommand(newGamePlayCmd())
	cmd.AddCommand(newGameEndCmd())
	cmd.AddCommand(newGameAbandonCmd())
	cmd.AddCommand(newGameHistoryCmd())

	return cmd
}

func newGameNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <player-name>...",
		Short: "Create a new game session with the given players",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"player_names": args}
			var result GameState

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Get current game state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Get("/api/v1/games/current", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameMovesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moves [player-id]",
		Short: "List a player's legal moves (defaults to the active player)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games/current/moves"
			if len(args) == 1 {
				path += "?player_id=" + args[0]
			}

			var result MovesResult
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <player-id> <destination>",
		Short: "Move the active player to a destination space",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"player_id":   args[0],
				"destination": args[1],
			}
			var result GameState

			if err := client.Post("/api/v1/games/current/move", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameRollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roll <player-id>",
		Short: "Roll the dice on a dice-dependent space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"player_id": args[0]}
			var result RollResult

			if err := client.Post("/api/v1/games/current/roll", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamePlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <player-id> <card-id>",
		Short: "Play a card from the player's hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"player_id": args[0],
				"card_id":   args[1],
			}
			var result CardResult

			if err := client.Post("/api/v1/games/current/cards/play", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <player-id>",
		Short: "End the player's turn immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"player_id": args[0]}
			var result GameState

			if err := client.Post("/api/v1/games/current/end-turn", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon",
		Short: "Abandon the current game session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/games/current"); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game abandoned")
			return nil
		},
	}
}

func newGameHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List completed game summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []GameSummary
			if err := client.Get("/api/v1/games/summaries", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
