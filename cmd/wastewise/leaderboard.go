package main

import (
	"fmt"

	"github.com/Veraticus/wastewise/internal/cli"
	"github.com/Veraticus/wastewise/internal/rewards"
	"github.com/spf13/cobra"
)

func leaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top collectors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := rewards.Leaderboard(cmd.Context(), store, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle("Leaderboard"))
			fmt.Fprintln(out, cli.RenderLeaderboard(entries))
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "number of entries to show (0 for all)")

	return cmd
}
