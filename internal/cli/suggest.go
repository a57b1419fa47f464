package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newSuggestCmd() *cobra.Command {
	var board, boardFile string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask the suggestion service about any board",
		Long: `Ask the suggestion service for the best move on an arbitrary board.

The board is a 4x4 JSON array of numbers or null, for example:

  g2048 suggest --board '[[2,2,null,null],[null,null,null,null],[null,null,null,null],[null,null,null,4]]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := []byte(board)
			if boardFile != "" {
				data, err := os.ReadFile(boardFile)
				if err != nil {
					return fmt.Errorf("reading board file: %w", err)
				}
				raw = data
			}
			if len(raw) == 0 {
				return fmt.Errorf("--board or --board-file is required")
			}
			if !json.Valid(raw) {
				return fmt.Errorf("board is not valid JSON")
			}

			req := map[string]json.RawMessage{"boardValues": raw}
			var result PromptResult

			if err := client.Post("/prompt", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "Board as a 4x4 JSON array")
	cmd.Flags().StringVar(&boardFile, "board-file", "", "Read the board JSON from a file")
	cmd.MarkFlagsMutuallyExclusive("board", "board-file")

	return cmd
}
