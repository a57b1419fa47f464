package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/game2048/internal/model"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameNewCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameResetCmd())
	cmd.AddCommand(newGameSuggestCmd())
	cmd.AddCommand(newGameDeleteCmd())

	return cmd
}

func gamePath(id string, suffix string) string {
	return "/api/v1/games/" + url.PathEscape(id) + suffix
}

// authorize loads the game's play token into the client
func authorize(id string) error {
	token, err := cfg.TokenFor(id)
	if err != nil {
		return err
	}
	client.SetToken(token)
	return nil
}

func newGameNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CreateResult

			if err := client.Post("/api/v1/games", nil, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.Game.ID, result.PlayToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := authorize(id); err != nil {
				return err
			}

			var result GameState

			if err := client.Get(gamePath(id, ""), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <up|down|left|right>",
		Short: "Slide the board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			dir, err := model.ParseDirection(args[1])
			if err != nil {
				return err
			}
			if err := authorize(id); err != nil {
				return err
			}

			req := map[string]string{"direction": string(dir)}
			var result GameState

			if err := client.Post(gamePath(id, "/move"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <id>",
		Short: "Start the game over",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := authorize(id); err != nil {
				return err
			}

			var result GameState

			if err := client.Post(gamePath(id, "/reset"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <id>",
		Short: "Ask for a move suggestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := authorize(id); err != nil {
				return err
			}

			var result GameState

			if err := client.Post(gamePath(id, "/suggestion"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := authorize(id); err != nil {
				return err
			}

			if err := client.Delete(gamePath(id, "")); err != nil {
				return err
			}
			if err := cfg.ForgetToken(id); err != nil {
				return fmt.Errorf("failed to forget token: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage("Game deleted")
			return nil
		},
	}
}
