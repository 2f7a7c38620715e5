package main

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/wastewise/internal/cli"
	"github.com/Veraticus/wastewise/internal/rewards"
	"github.com/spf13/cobra"
)

func impactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Show the community's overall impact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			summary, err := rewards.Impact(cmd.Context(), store)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderImpact(summary))
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "print the summary as JSON")

	return cmd
}
